package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindAll() ([]model.Feedback, error)
	FindByID(id uint) (*model.Feedback, error)
	Delete(id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	if err := r.db.Create(feedback).Error; err != nil {
		logger.Error("Failed to create feedback in database", err, map[string]interface{}{
			"email": feedback.Email,
		})
		return err
	}
	return nil
}

func (r *feedbackRepository) FindAll() ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	if err := r.db.Order("created_at DESC").Find(&feedbacks).Error; err != nil {
		logger.Error("Failed to find feedbacks in database", err)
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepository) FindByID(id uint) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.First(&feedback, id).Error; err != nil {
		logger.Error("Failed to find feedback by ID in database", err, map[string]interface{}{
			"feedback_id": id,
		})
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Feedback{}, id).Error; err != nil {
		logger.Error("Failed to delete feedback from database", err, map[string]interface{}{
			"feedback_id": id,
		})
		return err
	}
	return nil
}
