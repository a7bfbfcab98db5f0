package model

import "time"

type AnswerOutcome string

const (
	AnswerCorrect   AnswerOutcome = "correct"
	AnswerIncorrect AnswerOutcome = "incorrect"
)

// GameAnswer is the immutable record of one submission. Created inside the
// same transaction that advances the player's pointer; never updated.
type GameAnswer struct {
	BaseModel
	GameID        string        `gorm:"type:varchar(36);index;not null" json:"gameId"`
	ProgressID    uint          `gorm:"index;not null" json:"progressId"`
	QuestionID    uint          `gorm:"index;not null" json:"questionId"`
	SubmittedText string        `gorm:"size:255" json:"submittedText"`
	Outcome       AnswerOutcome `gorm:"type:varchar(12);not null" json:"outcome"`
	SubmittedAt   time.Time     `json:"submittedAt"`
}

func (GameAnswer) TableName() string {
	return "game_answers"
}
