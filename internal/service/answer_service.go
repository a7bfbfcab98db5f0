package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizpair_backend/internal/config"
	"quizpair_backend/internal/model"
	"quizpair_backend/internal/repository"
	"quizpair_backend/internal/util"
	"quizpair_backend/pkg/monitoring"
)

// CompletionNotifier receives the id of a game whose players have both
// exhausted their question set. Delivery may be redundant; the consumer is
// idempotent.
type CompletionNotifier interface {
	Publish(gameID string)
}

// AnswerResult is the only evaluation a player gets back. The accepted answer
// text itself is never revealed.
type AnswerResult struct {
	QuestionID  uint                `json:"questionId"`
	Outcome     model.AnswerOutcome `json:"outcome"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// AnswerService judges one submission against the question at the caller's
// pointer and advances that pointer, both inside a single transaction.
type AnswerService struct {
	Store    repository.GameStore
	Bank     repository.QuestionBank
	Notifier CompletionNotifier

	answerMaxLen int
}

func NewAnswerService(store repository.GameStore, bank repository.QuestionBank, notifier CompletionNotifier, cfg *config.Config) *AnswerService {
	return &AnswerService{
		Store:        store,
		Bank:         bank,
		Notifier:     notifier,
		answerMaxLen: cfg.Game.AnswerMaxLen,
	}
}

func (s *AnswerService) SubmitAnswer(ctx context.Context, userID uint, text string) (*AnswerResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, util.ErrEmptyAnswer
	}
	if len(trimmed) > s.answerMaxLen {
		return nil, util.ErrAnswerTooLong
	}

	game, err := s.Store.ActiveGameByUser(userID)
	if err != nil {
		if errors.Is(err, util.ErrGameNotFound) {
			return nil, util.ErrNotInActiveGame
		}
		return nil, err
	}

	progress := game.ProgressFor(userID)
	if progress == nil {
		return nil, util.ErrNotInActiveGame
	}
	questions := game.QuestionList()
	if progress.Done(len(questions)) {
		// The player already answered everything; the game may still be
		// waiting on the opponent.
		return nil, util.ErrNotInActiveGame
	}

	questionID := questions[progress.CurrentIndex]
	question, err := s.Bank.ByID(questionID)
	if err != nil {
		return nil, err
	}
	correct := judge(trimmed, question.AnswerList())

	var (
		answer   *model.GameAnswer
		bothDone bool
	)
	err = s.Store.Transact(func(tx repository.GameStore) error {
		// Lock the game row first. Two last answers landing in the same
		// instant serialize here, so the second one always observes the
		// first one's committed pointer in the both-done check below.
		lockedGame, err := tx.LockGame(game.ID)
		if err != nil {
			return err
		}
		if lockedGame.Status != model.GameActive {
			return util.ErrNotInActiveGame
		}

		locked, err := tx.LockProgress(progress.ID)
		if err != nil {
			return err
		}
		// A duplicate submission that raced us already advanced the pointer.
		if locked.CurrentIndex != progress.CurrentIndex {
			return util.ErrNotInActiveGame
		}

		outcome := model.AnswerIncorrect
		if correct {
			outcome = model.AnswerCorrect
		}
		answer = &model.GameAnswer{
			GameID:        game.ID,
			ProgressID:    locked.ID,
			QuestionID:    questionID,
			SubmittedText: trimmed,
			Outcome:       outcome,
			SubmittedAt:   time.Now(),
		}
		if err := tx.CreateAnswer(answer); err != nil {
			return err
		}

		locked.Advance(correct)
		if err := tx.SaveProgress(locked); err != nil {
			return err
		}

		if locked.Done(len(questions)) {
			// Re-check the opponent's pointer with a locking read; a plain
			// read would serve the transaction-start snapshot and could miss
			// a commit that raced this answer.
			if opponent := game.OpponentOf(userID); opponent != nil {
				opp, err := tx.LockProgress(opponent.ID)
				if err != nil {
					return err
				}
				bothDone = opp.Done(len(questions))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.AnswerCounter.WithLabelValues(string(answer.Outcome)).Inc()
	if bothDone {
		s.Notifier.Publish(game.ID)
	}

	return &AnswerResult{
		QuestionID:  answer.QuestionID,
		Outcome:     answer.Outcome,
		SubmittedAt: answer.SubmittedAt,
	}, nil
}

// judge compares the submission case-insensitively against every accepted
// answer of the question.
func judge(text string, accepted []string) bool {
	for _, a := range accepted {
		if strings.EqualFold(strings.TrimSpace(a), text) {
			return true
		}
	}
	return false
}
