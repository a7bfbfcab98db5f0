package service

import (
	"context"
	"fmt"
	"time"

	"quizpair_backend/internal/model"
	"quizpair_backend/internal/repository"
	"quizpair_backend/pkg/logger"
	"quizpair_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// LifecycleService finalizes games whose players have both exhausted the
// question set. Finalization is idempotent: the status-guarded update makes a
// redundant or concurrent delivery a silent no-op.
type LifecycleService struct {
	Store repository.GameStore
	Redis *redis.Client
}

func NewLifecycleService(store repository.GameStore, rdb *redis.Client) *LifecycleService {
	return &LifecycleService{Store: store, Redis: rdb}
}

func (s *LifecycleService) CompleteGame(ctx context.Context, gameID string) error {
	var players []uint
	err := s.Store.Transact(func(tx repository.GameStore) error {
		ok, err := tx.MarkGameFinished(gameID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			// Already finalized, or never reached active. Nothing to do.
			return nil
		}

		g, err := tx.GameByID(gameID)
		if err != nil {
			return err
		}
		if len(g.Progresses) != 2 {
			return fmt.Errorf("game %s finished with %d progress rows", gameID, len(g.Progresses))
		}

		first, second := &g.Progresses[0], &g.Progresses[1]
		switch {
		case first.Score > second.Score:
			first.Outcome, second.Outcome = model.OutcomeWin, model.OutcomeLose
		case second.Score > first.Score:
			first.Outcome, second.Outcome = model.OutcomeLose, model.OutcomeWin
		default:
			first.Outcome, second.Outcome = model.OutcomeDraw, model.OutcomeDraw
		}

		if err := tx.SaveProgress(first); err != nil {
			return err
		}
		if err := tx.SaveProgress(second); err != nil {
			return err
		}

		players = []uint{first.UserID, second.UserID}
		return nil
	})
	if err != nil {
		return err
	}

	if len(players) > 0 {
		monitoring.GameCounter.WithLabelValues("finished").Inc()
		dropCurrentGame(ctx, s.Redis, players...)
		logger.Log.Info("game finished",
			zap.String("gameId", gameID),
			zap.Uints("players", players))
	}
	return nil
}
