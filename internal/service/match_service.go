package service

import (
	"context"
	"errors"
	"time"

	"quizpair_backend/internal/config"
	"quizpair_backend/internal/model"
	"quizpair_backend/internal/repository"
	"quizpair_backend/internal/util"
	"quizpair_backend/pkg/logger"
	"quizpair_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MatchService pairs two independent users into a shared game. The claim of an
// open game runs under an exclusive row lock so that a second-player slot is
// filled by at most one transaction, and a user never ends up as both players.
type MatchService struct {
	Store    repository.GameStore
	Bank     repository.QuestionBank
	Identity repository.IdentityProvider
	Redis    *redis.Client

	questionCount int
	claimRetries  int
}

func NewMatchService(store repository.GameStore, bank repository.QuestionBank, identity repository.IdentityProvider, rdb *redis.Client, cfg *config.Config) *MatchService {
	return &MatchService{
		Store:         store,
		Bank:          bank,
		Identity:      identity,
		Redis:         rdb,
		questionCount: cfg.Game.QuestionCount,
		claimRetries:  cfg.Game.ClaimRetries,
	}
}

// Connect joins the caller to the oldest claimable pending game, or opens a
// fresh pending game when none can be claimed. Returns the game id.
func (s *MatchService) Connect(ctx context.Context, userID uint) (string, error) {
	if _, err := s.Identity.UserByID(userID); err != nil {
		return "", err
	}

	// Fast reject before any transaction opens. The cache is a hint only; the
	// games table decides, so a lost invalidation repairs itself here instead
	// of locking the user out until the TTL expires.
	hinted := cachedCurrentGame(ctx, s.Redis, userID) != ""
	if _, err := s.Store.OpenGameByUser(userID); err == nil {
		return "", util.ErrAlreadyInGame
	} else if !errors.Is(err, util.ErrGameNotFound) {
		return "", err
	}
	if hinted {
		dropCurrentGame(ctx, s.Redis, userID)
	}

	for attempt := 1; attempt <= s.claimRetries; attempt++ {
		gameID, err := s.claimPendingGame(userID)
		if err == nil {
			monitoring.GameCounter.WithLabelValues("matched").Inc()
			cacheCurrentGame(ctx, s.Redis, userID, gameID)
			logger.Log.Info("joined pending game",
				zap.Uint("userId", userID),
				zap.String("gameId", gameID))
			return gameID, nil
		}
		if errors.Is(err, util.ErrGameNotFound) {
			// Nothing claimable, including the race where a concurrent caller
			// took the last pending game. Fall through to creating one.
			break
		}
		if errors.Is(err, util.ErrAlreadyInGame) || errors.Is(err, util.ErrInsufficientQuestions) {
			return "", err
		}
		// Lock conflict or other transient storage failure: re-run the claim
		// against whatever pending game is open now.
		logger.Log.Warn("pending game claim failed",
			zap.Uint("userId", userID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt == s.claimRetries {
			return "", util.ErrMatchConflict
		}
	}

	gameID, err := s.createPendingGame(userID)
	if err != nil {
		return "", err
	}
	monitoring.GameCounter.WithLabelValues("created").Inc()
	cacheCurrentGame(ctx, s.Redis, userID, gameID)
	logger.Log.Info("opened pending game",
		zap.Uint("userId", userID),
		zap.String("gameId", gameID))
	return gameID, nil
}

// claimPendingGame runs the matchmaking transaction: lock a pending game whose
// first player is someone else, attach the caller as second player, draw the
// question set and activate the game in one commit.
func (s *MatchService) claimPendingGame(userID uint) (string, error) {
	var gameID string
	err := s.Store.Transact(func(tx repository.GameStore) error {
		// The unlocked fast reject can race a concurrent connect from the
		// same user; re-establish the guard under the transaction's locks.
		if _, err := tx.LockOpenGameByUser(userID); err == nil {
			return util.ErrAlreadyInGame
		} else if !errors.Is(err, util.ErrGameNotFound) {
			return err
		}

		g, err := tx.LockPendingGame(userID)
		if err != nil {
			return err
		}

		ids, err := s.Bank.PickRandomPublished(s.questionCount)
		if err != nil {
			return err
		}
		if err := g.SetQuestionList(ids); err != nil {
			return err
		}

		second := &model.PlayerProgress{GameID: g.ID, UserID: userID}
		if err := tx.CreateProgress(second); err != nil {
			return err
		}

		now := time.Now()
		g.Status = model.GameActive
		g.StartedAt = &now
		g.Progresses = nil
		if err := tx.SaveGame(g); err != nil {
			return err
		}

		gameID = g.ID
		return nil
	})
	return gameID, err
}

func (s *MatchService) createPendingGame(userID uint) (string, error) {
	var gameID string
	err := s.Store.Transact(func(tx repository.GameStore) error {
		if _, err := tx.LockOpenGameByUser(userID); err == nil {
			return util.ErrAlreadyInGame
		} else if !errors.Is(err, util.ErrGameNotFound) {
			return err
		}

		g := &model.Game{Status: model.GamePending}
		if err := tx.CreateGame(g); err != nil {
			return err
		}
		p := &model.PlayerProgress{GameID: g.ID, UserID: userID}
		if err := tx.CreateProgress(p); err != nil {
			return err
		}
		gameID = g.ID
		return nil
	})
	return gameID, err
}
