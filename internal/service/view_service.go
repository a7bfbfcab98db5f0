package service

import (
	"context"
	"errors"
	"time"

	"quizpair_backend/internal/model"
	"quizpair_backend/internal/repository"
	"quizpair_backend/internal/util"
)

// GameView is what a participant sees of a game. The opponent's side is
// limited to score and outcome, and accepted answers are never included.
type GameView struct {
	ID              string           `json:"id"`
	Status          model.GameStatus `json:"status"`
	QuestionCount   int              `json:"questionCount"`
	StartedAt       *time.Time       `json:"startedAt,omitempty"`
	FinishedAt      *time.Time       `json:"finishedAt,omitempty"`
	You             PlayerView       `json:"you"`
	Opponent        *OpponentView    `json:"opponent,omitempty"`
	CurrentQuestion *QuestionView    `json:"currentQuestion,omitempty"`
}

type PlayerView struct {
	Score        int               `json:"score"`
	CurrentIndex int               `json:"currentIndex"`
	Done         bool              `json:"done"`
	Outcome      model.GameOutcome `json:"outcome,omitempty"`
}

type OpponentView struct {
	Score   int               `json:"score"`
	Done    bool              `json:"done"`
	Outcome model.GameOutcome `json:"outcome,omitempty"`
}

type QuestionView struct {
	ID     uint   `json:"id"`
	Body   string `json:"body"`
	Number int    `json:"number"` // 1-based position in the game's order
	Total  int    `json:"total"`
}

// ViewService is the read side of the game surface.
type ViewService struct {
	Store repository.GameStore
	Bank  repository.QuestionBank
}

func NewViewService(store repository.GameStore, bank repository.QuestionBank) *ViewService {
	return &ViewService{Store: store, Bank: bank}
}

func (s *ViewService) GetGame(ctx context.Context, gameID string, requestingUserID uint) (*GameView, error) {
	game, err := s.Store.GameByID(gameID)
	if err != nil {
		return nil, err
	}
	progress := game.ProgressFor(requestingUserID)
	if progress == nil {
		return nil, util.ErrNotAParticipant
	}
	return s.buildView(game, requestingUserID)
}

func (s *ViewService) GetCurrentGame(ctx context.Context, userID uint) (*GameView, error) {
	game, err := s.Store.OpenGameByUser(userID)
	if err != nil {
		if errors.Is(err, util.ErrGameNotFound) {
			return nil, util.ErrNoCurrentGame
		}
		return nil, err
	}
	return s.buildView(game, userID)
}

func (s *ViewService) buildView(game *model.Game, userID uint) (*GameView, error) {
	progress := game.ProgressFor(userID)
	questions := game.QuestionList()

	view := &GameView{
		ID:            game.ID,
		Status:        game.Status,
		QuestionCount: len(questions),
		StartedAt:     game.StartedAt,
		FinishedAt:    game.FinishedAt,
		You: PlayerView{
			Score:        progress.Score,
			CurrentIndex: progress.CurrentIndex,
			Done:         progress.Done(len(questions)),
			Outcome:      progress.Outcome,
		},
	}

	if opponent := game.OpponentOf(userID); opponent != nil {
		view.Opponent = &OpponentView{
			Score:   opponent.Score,
			Done:    opponent.Done(len(questions)),
			Outcome: opponent.Outcome,
		}
	}

	if game.Status == model.GameActive && !progress.Done(len(questions)) {
		q, err := s.Bank.ByID(questions[progress.CurrentIndex])
		if err != nil {
			return nil, err
		}
		view.CurrentQuestion = &QuestionView{
			ID:     q.ID,
			Body:   q.Body,
			Number: progress.CurrentIndex + 1,
			Total:  len(questions),
		}
	}

	return view, nil
}
