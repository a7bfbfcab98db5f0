package model

import "encoding/json"

// Question belongs to the content-management side of the system; the game core
// only reads it. AcceptedAnswers is a JSON array of strings.
type Question struct {
	BaseModel
	Body            string `gorm:"type:text;not null" json:"body"`
	AcceptedAnswers string `gorm:"type:text;not null" json:"-"`
	Published       bool   `gorm:"index;default:false" json:"published"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) AnswerList() []string {
	if q.AcceptedAnswers == "" {
		return nil
	}
	var answers []string
	if err := json.Unmarshal([]byte(q.AcceptedAnswers), &answers); err != nil {
		return nil
	}
	return answers
}

func (q *Question) SetAnswerList(answers []string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	q.AcceptedAnswers = string(data)
	return nil
}
