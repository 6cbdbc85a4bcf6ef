package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type FeedbackController struct {
	feedbackService service.FeedbackService
}

func NewFeedbackController(feedbackService service.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

type FeedbackRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Note     string `json:"note" binding:"required"`
}

// SubmitFeedback records a contact-form message
// POST /api/v1/feedback
func (ctrl *FeedbackController) SubmitFeedback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid feedback data")
		return
	}

	feedback, err := ctrl.feedbackService.SubmitFeedback(userID, req.FullName, req.Email, req.Phone, req.Subject, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFeedback) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Feedback requires a name and an email")
			return
		}
		log.Error("Failed to submit feedback", err)
		apperrors.InternalError(c, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": feedback,
	})
}

// GetFeedbacks lists feedback messages (admin)
// GET /api/v1/admin/feedback
func (ctrl *FeedbackController) GetFeedbacks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	feedbacks, err := ctrl.feedbackService.GetFeedbacks()
	if err != nil {
		log.Error("Failed to fetch feedbacks", err)
		apperrors.InternalError(c, "Failed to fetch feedbacks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedbacks": feedbacks,
		"count":     len(feedbacks),
	})
}

// DeleteFeedback removes a feedback message (admin)
// DELETE /api/v1/admin/feedback/:id
func (ctrl *FeedbackController) DeleteFeedback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.feedbackService.DeleteFeedback(id); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Feedback not found")
			return
		}
		log.Error("Failed to delete feedback", err, map[string]interface{}{
			"feedback_id": id,
		})
		apperrors.InternalError(c, "Failed to delete feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback deleted",
	})
}
