package repository

import (
	"errors"
	"time"

	"quizpair_backend/internal/model"
	"quizpair_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRepository is the gorm-backed GameStore. A repository bound to a
// transaction is just the same struct holding the tx handle.
type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

var _ GameStore = (*GameRepository)(nil)

func (r *GameRepository) Transact(fn func(tx GameStore) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&GameRepository{DB: tx})
	})
}

func (r *GameRepository) CreateGame(g *model.Game) error {
	return r.DB.Create(g).Error
}

func (r *GameRepository) SaveGame(g *model.Game) error {
	return r.DB.Save(g).Error
}

func (r *GameRepository) CreateProgress(p *model.PlayerProgress) error {
	return r.DB.Create(p).Error
}

func (r *GameRepository) SaveProgress(p *model.PlayerProgress) error {
	return r.DB.Save(p).Error
}

func (r *GameRepository) CreateAnswer(a *model.GameAnswer) error {
	return r.DB.Create(a).Error
}

func (r *GameRepository) GameByID(id string) (*model.Game, error) {
	var g model.Game
	err := r.DB.
		Preload("Progresses", orderByID).
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrGameNotFound)
	}
	return &g, nil
}

func (r *GameRepository) OpenGameByUser(userID uint) (*model.Game, error) {
	return r.gameByUserAndStatus(userID, []model.GameStatus{model.GamePending, model.GameActive})
}

func (r *GameRepository) ActiveGameByUser(userID uint) (*model.Game, error) {
	return r.gameByUserAndStatus(userID, []model.GameStatus{model.GameActive})
}

func (r *GameRepository) gameByUserAndStatus(userID uint, statuses []model.GameStatus) (*model.Game, error) {
	var g model.Game
	err := r.DB.
		Preload("Progresses", orderByID).
		Joins("JOIN player_progresses pp ON pp.game_id = games.id AND pp.deleted_at IS NULL").
		Where("pp.user_id = ? AND games.status IN ?", userID, statuses).
		Order("games.created_at").
		First(&g).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrGameNotFound)
	}
	return &g, nil
}

func (r *GameRepository) LockGame(id string) (*model.Game, error) {
	var g model.Game
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrGameNotFound)
	}
	return &g, nil
}

// LockOpenGameByUser is the locking twin of OpenGameByUser. The FOR UPDATE
// read also takes the index gap for the user's progress rows, so a concurrent
// transaction inserting an open game for the same user cannot slip past.
func (r *GameRepository) LockOpenGameByUser(userID uint) (*model.Game, error) {
	var g model.Game
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN player_progresses pp ON pp.game_id = games.id AND pp.deleted_at IS NULL").
		Where("pp.user_id = ? AND games.status IN ?", userID,
			[]model.GameStatus{model.GamePending, model.GameActive}).
		Order("games.created_at").
		First(&g).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrGameNotFound)
	}
	return &g, nil
}

// LockPendingGame takes the claim lock: SELECT ... FOR UPDATE on the oldest
// pending game not created by excludeUserID. Concurrent claimers block here
// until the winning transaction commits, after which the row no longer matches
// the pending filter and the loser gets ErrGameNotFound.
func (r *GameRepository) LockPendingGame(excludeUserID uint) (*model.Game, error) {
	var g model.Game
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN player_progresses pp ON pp.game_id = games.id AND pp.deleted_at IS NULL").
		Where("games.status = ? AND pp.user_id <> ?", model.GamePending, excludeUserID).
		Order("games.created_at").
		First(&g).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrGameNotFound)
	}
	if err := r.DB.Where("game_id = ?", g.ID).Order("id").Find(&g.Progresses).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) LockProgress(id uint) (*model.PlayerProgress, error) {
	var p model.PlayerProgress
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, translateNotFound(err, util.ErrProgressNotFound)
	}
	return &p, nil
}

func (r *GameRepository) MarkGameFinished(id string, at time.Time) (bool, error) {
	res := r.DB.Model(&model.Game{}).
		Where("id = ? AND status = ?", id, model.GameActive).
		Updates(map[string]interface{}{
			"status":      model.GameFinished,
			"finished_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("player_progresses.id")
}

func translateNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
