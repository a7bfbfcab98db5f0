package model

import (
	"encoding/json"
	"time"
)

type GameStatus string

const (
	// GamePending is a game waiting for its second player.
	GamePending GameStatus = "pending"
	// GameActive has two players and a fixed question set.
	GameActive GameStatus = "active"
	// GameFinished games are immutable.
	GameFinished GameStatus = "finished"
)

// Game is one quiz session between two players. The question order is drawn
// once, on the transition to active, and stored as a JSON array so it is never
// re-derived (both players' pointers index into it).
type Game struct {
	UUIDBase
	Status      GameStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	QuestionIDs string     `gorm:"type:text" json:"-"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`

	Progresses []PlayerProgress `gorm:"foreignKey:GameID" json:"progresses,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

// QuestionList decodes the fixed question order. Empty while pending.
func (g *Game) QuestionList() []uint {
	if g.QuestionIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(g.QuestionIDs), &ids); err != nil {
		return nil
	}
	return ids
}

func (g *Game) SetQuestionList(ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	g.QuestionIDs = string(data)
	return nil
}

// ProgressFor returns the progress owned by userID, or nil.
func (g *Game) ProgressFor(userID uint) *PlayerProgress {
	for i := range g.Progresses {
		if g.Progresses[i].UserID == userID {
			return &g.Progresses[i]
		}
	}
	return nil
}

// OpponentOf returns the other player's progress, or nil while pending.
func (g *Game) OpponentOf(userID uint) *PlayerProgress {
	for i := range g.Progresses {
		if g.Progresses[i].UserID != userID {
			return &g.Progresses[i]
		}
	}
	return nil
}
