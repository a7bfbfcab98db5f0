package repository

import (
	"quizpair_backend/internal/model"
	"quizpair_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

var _ QuestionBank = (*QuestionRepository)(nil)

func (r *QuestionRepository) PickRandomPublished(n int) ([]uint, error) {
	var questions []model.Question
	err := r.DB.
		Select("id").
		Where("published = ?", true).
		Order("RAND()").
		Limit(n).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if len(questions) < n {
		return nil, util.ErrInsufficientQuestions
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids, nil
}

func (r *QuestionRepository) ByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, translateNotFound(err, util.ErrQuestionNotFound)
	}
	return &q, nil
}
