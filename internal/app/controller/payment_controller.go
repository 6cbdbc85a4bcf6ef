package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
	"github.com/ttmai/velora-backend/pkg/payment/vnpay"
)

type PaymentController struct {
	paymentService service.PaymentService
	authService    service.AuthService
}

func NewPaymentController(paymentService service.PaymentService, authService service.AuthService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		authService:    authService,
	}
}

type CreatePaymentRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// CreatePayment builds the signed gateway redirect URL for the cart
// POST /api/v1/payments/vnpay
func (ctrl *PaymentController) CreatePayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment data")
		return
	}

	paymentURL, err := ctrl.paymentService.CreatePaymentURL(userID, service.CheckoutInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrInvalidRecipientName):
			apperrors.BadRequest(c, apperrors.ValidationInvalidName, "Recipient name must contain only letters and spaces")
		case errors.Is(err, service.ErrInvalidOrderTotal):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Order total must be positive")
		default:
			log.Error("Failed to create payment URL", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to create payment URL")
		}
		return
	}

	log.Info("Payment URL created", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"payment_url": paymentURL,
	})
}

// Callback handles the gateway return redirect. The recipient snapshot
// comes from the stored user profile of the resolved payment intent.
// GET /api/v1/payments/vnpay/callback
func (ctrl *PaymentController) Callback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	outcome, err := ctrl.paymentService.HandleCallback(c.Request.Context(), c.Request.URL.Query(), func(userID uint) (service.CheckoutInput, error) {
		user, err := ctrl.authService.GetUserByID(userID)
		if err != nil {
			return service.CheckoutInput{}, err
		}
		return service.CheckoutInput{
			Name:    user.Name,
			Email:   user.Email,
			Phone:   user.Phone,
			Address: user.Address,
		}, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, vnpay.ErrChecksumMismatch):
			log.Warn("Payment callback rejected: checksum mismatch", nil)
			apperrors.BadRequest(c, apperrors.PaymentChecksumInvalid, "Payment signature verification failed")
		case errors.Is(err, service.ErrPaymentIntentNotFound):
			apperrors.NotFound(c, apperrors.PaymentIntentNotFound, "Unknown payment transaction")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		default:
			log.Error("Payment callback failed", err)
			apperrors.InternalError(c, "Payment callback failed")
		}
		return
	}

	if outcome.Replayed {
		c.JSON(http.StatusOK, gin.H{
			"message": "Payment already processed",
		})
		return
	}

	if !outcome.Success {
		c.JSON(http.StatusOK, gin.H{
			"message": "Payment was not successful, no order was created",
		})
		return
	}

	log.Info("Payment callback processed", map[string]interface{}{
		"order_id": outcome.Order.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful",
		"order":   outcome.Order,
	})
}
