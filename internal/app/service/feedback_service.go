package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidFeedback  = errors.New("feedback requires a name and an email")
)

type FeedbackService interface {
	SubmitFeedback(userID uint, fullName, email, phone, subject, note string) (*model.Feedback, error)
	GetFeedbacks() ([]model.Feedback, error)
	DeleteFeedback(id uint) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo}
}

func (s *feedbackService) SubmitFeedback(userID uint, fullName, email, phone, subject, note string) (*model.Feedback, error) {
	if fullName == "" || email == "" {
		return nil, ErrInvalidFeedback
	}

	feedback := &model.Feedback{
		UserID:   userID,
		FullName: fullName,
		Email:    email,
		Phone:    phone,
		Subject:  subject,
		Note:     note,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, err
	}

	logger.Info("Feedback submitted", map[string]interface{}{
		"feedback_id": feedback.ID,
		"email":       email,
	})
	return feedback, nil
}

func (s *feedbackService) GetFeedbacks() ([]model.Feedback, error) {
	return s.feedbackRepo.FindAll()
}

func (s *feedbackService) DeleteFeedback(id uint) error {
	if _, err := s.feedbackRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return s.feedbackRepo.Delete(id)
}
