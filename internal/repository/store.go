package repository

import (
	"time"

	"quizpair_backend/internal/model"
)

// GameStore is the storage contract of the pair-game engine. Methods prefixed
// with Lock acquire an exclusive, transaction-scoped row lock and are only
// meaningful inside Transact; MarkGameFinished is a status-guarded conditional
// update and reports whether the row was still active.
//
// Lookup methods return the util sentinel errors (ErrGameNotFound and friends)
// when no row matches.
type GameStore interface {
	// Transact runs fn against a store bound to one transaction, committing
	// when fn returns nil and rolling back otherwise.
	Transact(fn func(tx GameStore) error) error

	CreateGame(g *model.Game) error
	SaveGame(g *model.Game) error
	CreateProgress(p *model.PlayerProgress) error
	SaveProgress(p *model.PlayerProgress) error
	CreateAnswer(a *model.GameAnswer) error

	// GameByID loads a game with both progress rows.
	GameByID(id string) (*model.Game, error)
	// OpenGameByUser finds the user's pending or active game, if any.
	OpenGameByUser(userID uint) (*model.Game, error)
	// ActiveGameByUser finds the user's active game with progress rows.
	ActiveGameByUser(userID uint) (*model.Game, error)

	// LockGame reloads one game row under an exclusive lock, serializing
	// transactions that touch the same game.
	LockGame(id string) (*model.Game, error)
	// LockOpenGameByUser reloads the user's pending or active game under an
	// exclusive lock. Inside a transaction this re-establishes the
	// one-open-game-per-user guard that the unlocked lookups cannot.
	LockOpenGameByUser(userID uint) (*model.Game, error)
	// LockPendingGame claims the oldest pending game whose first player is not
	// excludeUserID, locked for exclusive write so concurrent claimers cannot
	// take the same slot.
	LockPendingGame(excludeUserID uint) (*model.Game, error)
	// LockProgress reloads a progress row under an exclusive lock.
	LockProgress(id uint) (*model.PlayerProgress, error)

	// MarkGameFinished flips status active→finished. Returns false if the game
	// was not active anymore, which makes finalization idempotent.
	MarkGameFinished(id string, at time.Time) (bool, error)
}

// QuestionBank supplies published questions to the game core. Question content
// management lives elsewhere; the core only reads.
type QuestionBank interface {
	// PickRandomPublished draws n distinct published question ids in random
	// order. The order returned becomes the game's fixed question order.
	PickRandomPublished(n int) ([]uint, error)
	ByID(id uint) (*model.Question, error)
}

// IdentityProvider resolves user ids for the game core.
type IdentityProvider interface {
	UserByID(id uint) (*model.User, error)
}
