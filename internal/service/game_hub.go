package service

import (
	"context"

	"quizpair_backend/pkg/logger"

	"go.uber.org/zap"
)

// GameHub decouples game finalization from the request that triggered it. The
// answering player is not blocked on outcome bookkeeping, and the case where
// both players finish in the same instant collapses into redundant signals
// that the idempotent finalizer absorbs.
type GameHub struct {
	lifecycle   *LifecycleService
	completions chan string
	done        chan struct{}
}

func NewGameHub(lifecycle *LifecycleService, buffer int) *GameHub {
	if buffer <= 0 {
		buffer = 256
	}
	return &GameHub{
		lifecycle:   lifecycle,
		completions: make(chan string, buffer),
		done:        make(chan struct{}),
	}
}

var _ CompletionNotifier = (*GameHub)(nil)

// Publish queues a completion signal. Never blocks the caller; a dropped
// signal is recoverable because finalization is idempotent and redeliverable.
func (h *GameHub) Publish(gameID string) {
	select {
	case h.completions <- gameID:
	default:
		logger.Log.Warn("completion queue full, dropping signal", zap.String("gameId", gameID))
	}
}

// Run consumes completion signals until Stop. Started with `go hub.Run()`.
func (h *GameHub) Run() {
	for {
		select {
		case gameID := <-h.completions:
			if err := h.lifecycle.CompleteGame(context.Background(), gameID); err != nil {
				// Never surfaces to the answering player; the signal can be
				// redelivered safely.
				logger.Log.Error("game finalization failed",
					zap.String("gameId", gameID),
					zap.Error(err))
			}
		case <-h.done:
			return
		}
	}
}

func (h *GameHub) Stop() {
	close(h.done)
}
