package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"quizpair_backend/internal/config"
	"quizpair_backend/internal/model"
	"quizpair_backend/internal/repository"
	"quizpair_backend/internal/util"
)

func testConfig() *config.Config {
	return &config.Config{
		Game: config.GameConfig{
			QuestionCount: 5,
			AnswerMaxLen:  255,
			ClaimRetries:  3,
			HubBuffer:     16,
		},
	}
}

// fakeBank draws ids in insertion order, which keeps the "fixed question
// order" assertions deterministic.
type fakeBank struct {
	mu        sync.Mutex
	order     []uint
	questions map[uint]*model.Question
}

var _ repository.QuestionBank = (*fakeBank)(nil)

func newFakeBank(t *testing.T, bodies map[string][]string) *fakeBank {
	t.Helper()
	b := &fakeBank{questions: make(map[uint]*model.Question)}
	id := uint(0)
	for body, accepted := range bodies {
		id++
		q := &model.Question{Body: body, Published: true}
		q.ID = id
		if err := q.SetAnswerList(accepted); err != nil {
			t.Fatalf("SetAnswerList: %v", err)
		}
		b.order = append(b.order, id)
		b.questions[id] = q
	}
	return b
}

// seedQuestions builds a bank of n published questions whose accepted answer
// is "answer-<id>".
func seedQuestions(n int) *fakeBank {
	b := &fakeBank{questions: make(map[uint]*model.Question)}
	for i := 1; i <= n; i++ {
		q := &model.Question{Body: "question", Published: true}
		q.ID = uint(i)
		q.SetAnswerList([]string{acceptedAnswer(uint(i))})
		b.order = append(b.order, uint(i))
		b.questions[uint(i)] = q
	}
	return b
}

func acceptedAnswer(id uint) string {
	return "answer-" + strconv.Itoa(int(id))
}

func (b *fakeBank) PickRandomPublished(n int) ([]uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.order) < n {
		return nil, util.ErrInsufficientQuestions
	}
	return append([]uint(nil), b.order[:n]...), nil
}

func (b *fakeBank) ByID(id uint) (*model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	cp := *q
	return &cp, nil
}

type fakeIdentity struct {
	users map[uint]bool
}

var _ repository.IdentityProvider = (*fakeIdentity)(nil)

func knownUsers(ids ...uint) *fakeIdentity {
	f := &fakeIdentity{users: make(map[uint]bool)}
	for _, id := range ids {
		f.users[id] = true
	}
	return f
}

func (f *fakeIdentity) UserByID(id uint) (*model.User, error) {
	if !f.users[id] {
		return nil, util.ErrUserNotFound
	}
	u := &model.User{Name: "user"}
	u.ID = id
	return u, nil
}

// recordingNotifier captures published completion signals.
type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) Publish(gameID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, gameID)
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ids...)
}

// syncNotifier finalizes inline, standing in for the hub in end-to-end
// scenarios.
type syncNotifier struct {
	lifecycle *LifecycleService
	errs      []error
}

func (n *syncNotifier) Publish(gameID string) {
	n.errs = append(n.errs, n.lifecycle.CompleteGame(context.Background(), gameID))
}
