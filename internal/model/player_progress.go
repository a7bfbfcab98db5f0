package model

type GameOutcome string

const (
	OutcomeWin  GameOutcome = "win"
	OutcomeLose GameOutcome = "lose"
	OutcomeDraw GameOutcome = "draw"
)

// PlayerProgress is one player's cursor inside a game. CurrentIndex points at
// the next unanswered question in the game's fixed order; once it reaches the
// set length the player is done. Outcome stays empty until the game finishes.
type PlayerProgress struct {
	BaseModel
	GameID       string      `gorm:"type:varchar(36);index;not null" json:"gameId"`
	UserID       uint        `gorm:"index;not null" json:"userId"`
	Score        int         `gorm:"default:0" json:"score"`
	CurrentIndex int         `gorm:"default:0" json:"currentIndex"`
	Outcome      GameOutcome `gorm:"type:varchar(8)" json:"outcome,omitempty"`
}

func (PlayerProgress) TableName() string {
	return "player_progresses"
}

// Done reports whether the player has answered every question of a set of the
// given length.
func (p *PlayerProgress) Done(total int) bool {
	return p.CurrentIndex >= total
}

// Advance records one judged answer: score goes up by exactly one on a correct
// answer and the pointer moves to the next question.
func (p *PlayerProgress) Advance(correct bool) {
	if correct {
		p.Score++
	}
	p.CurrentIndex++
}
