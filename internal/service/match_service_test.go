package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"quizpair_backend/internal/model"
	"quizpair_backend/internal/util"
)

func newMatchService(store *memoryStore, bank *fakeBank, identity *fakeIdentity) *MatchService {
	return NewMatchService(store, bank, identity, nil, testConfig())
}

func TestConnectCreatesPendingGame(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1))

	gameID, err := match.Connect(context.Background(), 1)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	game, err := store.GameByID(gameID)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if game.Status != model.GamePending {
		t.Errorf("status = %q, want %q", game.Status, model.GamePending)
	}
	if got := game.QuestionList(); got != nil {
		t.Errorf("question set = %v, want none while pending", got)
	}
	if len(game.Progresses) != 1 {
		t.Fatalf("progresses = %d, want 1", len(game.Progresses))
	}
	if game.Progresses[0].UserID != 1 {
		t.Errorf("first player = %d, want 1", game.Progresses[0].UserID)
	}
	if game.StartedAt != nil {
		t.Errorf("startedAt set on pending game")
	}
}

func TestConnectPairsTwoUsers(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1, 2))

	first, err := match.Connect(context.Background(), 1)
	if err != nil {
		t.Fatalf("Connect(1): %v", err)
	}
	second, err := match.Connect(context.Background(), 2)
	if err != nil {
		t.Fatalf("Connect(2): %v", err)
	}
	if first != second {
		t.Fatalf("second user got game %q, want to join %q", second, first)
	}

	game, err := store.GameByID(first)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if game.Status != model.GameActive {
		t.Errorf("status = %q, want %q", game.Status, model.GameActive)
	}
	if game.StartedAt == nil {
		t.Errorf("startedAt not set on active game")
	}
	if got := len(game.QuestionList()); got != 5 {
		t.Errorf("question set length = %d, want 5", got)
	}
	if len(game.Progresses) != 2 {
		t.Fatalf("progresses = %d, want 2", len(game.Progresses))
	}
	for _, p := range game.Progresses {
		if p.CurrentIndex != 0 {
			t.Errorf("player %d pointer = %d, want 0", p.UserID, p.CurrentIndex)
		}
		if p.Score != 0 {
			t.Errorf("player %d score = %d, want 0", p.UserID, p.Score)
		}
	}
}

func TestConnectRejectsOpenGameOwner(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1, 2))

	if _, err := match.Connect(context.Background(), 1); err != nil {
		t.Fatalf("Connect(1): %v", err)
	}
	// While pending the creator may not rejoin (and may not match themselves).
	if _, err := match.Connect(context.Background(), 1); !errors.Is(err, util.ErrAlreadyInGame) {
		t.Fatalf("second Connect(1) err = %v, want ErrAlreadyInGame", err)
	}

	if _, err := match.Connect(context.Background(), 2); err != nil {
		t.Fatalf("Connect(2): %v", err)
	}
	// Active participants are rejected too.
	if _, err := match.Connect(context.Background(), 2); !errors.Is(err, util.ErrAlreadyInGame) {
		t.Fatalf("Connect(2) while active err = %v, want ErrAlreadyInGame", err)
	}
}

func TestConnectUnknownUser(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1))

	if _, err := match.Connect(context.Background(), 99); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestConnectInsufficientQuestions(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(3), knownUsers(1, 2))

	if _, err := match.Connect(context.Background(), 1); err != nil {
		t.Fatalf("Connect(1): %v", err)
	}
	if _, err := match.Connect(context.Background(), 2); !errors.Is(err, util.ErrInsufficientQuestions) {
		t.Fatalf("Connect(2) err = %v, want ErrInsufficientQuestions", err)
	}

	// The failed claim must roll back: the game stays pending with one player.
	game, err := store.OpenGameByUser(1)
	if err != nil {
		t.Fatalf("OpenGameByUser: %v", err)
	}
	if game.Status != model.GamePending {
		t.Errorf("status after failed claim = %q, want pending", game.Status)
	}
	if len(game.Progresses) != 1 {
		t.Errorf("progresses after failed claim = %d, want 1", len(game.Progresses))
	}
}

func TestConnectThirdUserGetsOwnGame(t *testing.T) {
	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1, 2, 3))

	shared, _ := match.Connect(context.Background(), 1)
	if _, err := match.Connect(context.Background(), 2); err != nil {
		t.Fatalf("Connect(2): %v", err)
	}

	third, err := match.Connect(context.Background(), 3)
	if err != nil {
		t.Fatalf("Connect(3): %v", err)
	}
	if third == shared {
		t.Fatalf("third user joined the active game %q", shared)
	}
	game, err := store.GameByID(third)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if game.Status != model.GamePending {
		t.Errorf("third user's game status = %q, want pending", game.Status)
	}
}

// One user connects from several clients at the same instant; exactly one
// pending game may be opened, and the user must never become a player in two
// games at once.
func TestConnectConcurrentSameUserSingleOpenGame(t *testing.T) {
	const attempts = 8

	store := newMemoryStore()
	match := newMatchService(store, seedQuestions(10), knownUsers(1))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, rejected int
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := match.Connect(context.Background(), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, util.ErrAlreadyInGame):
				rejected++
			default:
				t.Errorf("Connect: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("successful connects = %d, want 1", succeeded)
	}
	if rejected != attempts-1 {
		t.Errorf("rejected connects = %d, want %d", rejected, attempts-1)
	}

	rows := 0
	store.mu.Lock()
	for _, p := range store.state.progresses {
		if p.UserID == 1 {
			rows++
		}
	}
	store.mu.Unlock()
	if rows != 1 {
		t.Errorf("user 1 holds %d progress rows, want 1", rows)
	}
}

// A finished game must free both players for matchmaking again, with no help
// from any cache invalidation.
func TestConnectAgainAfterGameFinished(t *testing.T) {
	store := newMemoryStore()
	bank := seedQuestions(10)
	match := newMatchService(store, bank, knownUsers(1, 2))
	lifecycle := NewLifecycleService(store, nil)
	svc := NewAnswerService(store, bank, &syncNotifier{lifecycle: lifecycle}, testConfig())

	match.Connect(context.Background(), 1)
	gameID, err := match.Connect(context.Background(), 2)
	if err != nil {
		t.Fatalf("Connect(2): %v", err)
	}
	answerAll(t, svc, store, gameID, 1, 3)
	answerAll(t, svc, store, gameID, 2, 1)

	game, _ := store.GameByID(gameID)
	if game.Status != model.GameFinished {
		t.Fatalf("status = %q, want finished", game.Status)
	}

	next, err := match.Connect(context.Background(), 1)
	if err != nil {
		t.Fatalf("reconnect after finish: %v", err)
	}
	if next == gameID {
		t.Errorf("reconnect returned the finished game %q", gameID)
	}
	if _, err := match.Connect(context.Background(), 2); err != nil {
		t.Errorf("opponent reconnect after finish: %v", err)
	}
}

// Many users connect at the same instant; afterwards every user must sit in
// exactly one game, every game must hold one or two distinct players, and no
// second-player slot may have been claimed twice.
func TestConnectConcurrentNeverDoubleAssignsSlot(t *testing.T) {
	const users = 16

	store := newMemoryStore()
	ids := make([]uint, users)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	match := newMatchService(store, seedQuestions(10), knownUsers(ids...))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := match.Connect(context.Background(), userID); err != nil {
				t.Errorf("Connect(%d): %v", userID, err)
			}
		}(id)
	}
	wg.Wait()

	seen := make(map[uint]string)
	games := make(map[string]*model.Game)
	for _, id := range ids {
		game, err := store.OpenGameByUser(id)
		if err != nil {
			t.Fatalf("user %d has no open game: %v", id, err)
		}
		if prev, ok := seen[id]; ok && prev != game.ID {
			t.Errorf("user %d appears in games %q and %q", id, prev, game.ID)
		}
		seen[id] = game.ID
		games[game.ID] = game
	}

	for gameID, game := range games {
		if n := len(game.Progresses); n < 1 || n > 2 {
			t.Errorf("game %q has %d players", gameID, n)
		}
		if len(game.Progresses) == 2 {
			if game.Progresses[0].UserID == game.Progresses[1].UserID {
				t.Errorf("game %q matched user %d with themselves", gameID, game.Progresses[0].UserID)
			}
			if game.Status != model.GameActive {
				t.Errorf("full game %q status = %q, want active", gameID, game.Status)
			}
		} else if game.Status != model.GamePending {
			t.Errorf("half game %q status = %q, want pending", gameID, game.Status)
		}
	}
}
