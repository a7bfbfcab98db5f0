package service

import (
	"context"
	"errors"
	"testing"

	"quizpair_backend/internal/model"
	"quizpair_backend/internal/util"
)

func TestGetCurrentGameActiveView(t *testing.T) {
	svc, store, bank, gameID := activePair(t, &recordingNotifier{})
	view := NewViewService(store, bank)

	// One correct answer first so the pointer has moved.
	game, _ := store.GameByID(gameID)
	if _, err := svc.SubmitAnswer(context.Background(), 1, acceptedAnswer(game.QuestionList()[0])); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	got, err := view.GetCurrentGame(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCurrentGame: %v", err)
	}
	if got.ID != gameID {
		t.Errorf("id = %q, want %q", got.ID, gameID)
	}
	if got.Status != model.GameActive {
		t.Errorf("status = %q, want active", got.Status)
	}
	if got.QuestionCount != 5 {
		t.Errorf("questionCount = %d, want 5", got.QuestionCount)
	}
	if got.You.Score != 1 || got.You.CurrentIndex != 1 {
		t.Errorf("you = %+v, want score 1 index 1", got.You)
	}
	if got.Opponent == nil {
		t.Fatalf("opponent missing from active game view")
	}
	if got.Opponent.Score != 0 || got.Opponent.Done {
		t.Errorf("opponent = %+v, want score 0 not done", got.Opponent)
	}
	if got.CurrentQuestion == nil {
		t.Fatalf("currentQuestion missing")
	}
	if got.CurrentQuestion.Number != 2 || got.CurrentQuestion.Total != 5 {
		t.Errorf("currentQuestion = %+v, want number 2 of 5", got.CurrentQuestion)
	}
	if got.CurrentQuestion.Body == "" {
		t.Errorf("currentQuestion body empty")
	}
}

func TestGetCurrentGamePendingView(t *testing.T) {
	store := newMemoryStore()
	bank := seedQuestions(5)
	match := newMatchService(store, bank, knownUsers(1))
	view := NewViewService(store, bank)

	if _, err := match.Connect(context.Background(), 1); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	got, err := view.GetCurrentGame(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCurrentGame: %v", err)
	}
	if got.Status != model.GamePending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.Opponent != nil {
		t.Errorf("pending view has opponent %+v", got.Opponent)
	}
	if got.CurrentQuestion != nil {
		t.Errorf("pending view has current question %+v", got.CurrentQuestion)
	}
	if got.QuestionCount != 0 {
		t.Errorf("pending questionCount = %d, want 0", got.QuestionCount)
	}
}

func TestGetCurrentGameNone(t *testing.T) {
	store := newMemoryStore()
	view := NewViewService(store, seedQuestions(5))

	if _, err := view.GetCurrentGame(context.Background(), 42); !errors.Is(err, util.ErrNoCurrentGame) {
		t.Errorf("err = %v, want ErrNoCurrentGame", err)
	}
}

func TestGetGameAccessControl(t *testing.T) {
	_, store, bank, gameID := activePair(t, &recordingNotifier{})
	view := NewViewService(store, bank)

	if _, err := view.GetGame(context.Background(), gameID, 1); err != nil {
		t.Errorf("participant GetGame: %v", err)
	}
	if _, err := view.GetGame(context.Background(), gameID, 99); !errors.Is(err, util.ErrNotAParticipant) {
		t.Errorf("outsider err = %v, want ErrNotAParticipant", err)
	}
	if _, err := view.GetGame(context.Background(), "missing", 1); !errors.Is(err, util.ErrGameNotFound) {
		t.Errorf("missing game err = %v, want ErrGameNotFound", err)
	}
}
