package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"github.com/ttmai/velora-backend/pkg/payment/vnpay"
	"github.com/ttmai/velora-backend/pkg/redis"
	"github.com/ttmai/velora-backend/pkg/util"
	"gorm.io/gorm"
	"net/url"
)

var (
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
)

const callbackClaimExpiry = 10 * time.Minute

// CallbackOutcome reports what a verified gateway callback did. Order
// is nil when the payment failed or the callback was a replay.
type CallbackOutcome struct {
	Success  bool
	Replayed bool
	Order    *model.Order
}

// PaymentService drives the hosted-gateway redirect flow. A pending
// PaymentIntent row ties the gateway transaction reference back to the
// user, and a completed intent is never materialized twice.
type PaymentService interface {
	CreatePaymentURL(userID uint, input CheckoutInput, clientIP string) (string, error)
	HandleCallback(ctx context.Context, query url.Values, input func(userID uint) (CheckoutInput, error)) (*CallbackOutcome, error)
}

type paymentService struct {
	intentRepo repository.PaymentIntentRepository
	userRepo   repository.UserRepository
	checkout   CheckoutService
	gateway    *vnpay.Client
}

func NewPaymentService(
	intentRepo repository.PaymentIntentRepository,
	userRepo repository.UserRepository,
	checkout CheckoutService,
	gateway *vnpay.Client,
) PaymentService {
	return &paymentService{
		intentRepo: intentRepo,
		userRepo:   userRepo,
		checkout:   checkout,
		gateway:    gateway,
	}
}

func (s *paymentService) CreatePaymentURL(userID uint, input CheckoutInput, clientIP string) (string, error) {
	logger.Info("Creating gateway payment URL", map[string]interface{}{
		"user_id": userID,
	})

	if !validRecipientName(input.Name) {
		return "", ErrInvalidRecipientName
	}

	total, err := s.checkout.CartTotal(userID)
	if err != nil {
		return "", err
	}
	if total <= 0 {
		return "", ErrInvalidOrderTotal
	}

	txnRef := util.GenerateTxnRef()
	intent := &model.PaymentIntent{
		TxnRef: txnRef,
		UserID: userID,
		Amount: total,
		Status: model.PaymentIntentPending,
	}
	if err := s.intentRepo.Create(intent); err != nil {
		return "", err
	}

	paymentURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		Amount:    int64(total),
		TxnRef:    txnRef,
		OrderInfo: fmt.Sprintf("Order payment %s", txnRef),
		ClientIP:  clientIP,
	})
	if err != nil {
		return "", err
	}

	logger.Info("Gateway payment URL created", map[string]interface{}{
		"user_id": userID,
		"txn_ref": txnRef,
		"amount":  total,
	})
	return paymentURL, nil
}

// HandleCallback verifies the echoed signature, resolves the intent,
// and materializes the order on success. The input callback supplies
// the recipient snapshot for the resolved user; it runs only when an
// order is actually going to be created.
func (s *paymentService) HandleCallback(ctx context.Context, query url.Values, input func(userID uint) (CheckoutInput, error)) (*CallbackOutcome, error) {
	result, err := s.gateway.VerifyCallback(query)
	if err != nil {
		logger.Warn("Gateway callback rejected", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, err
	}

	logger.Info("Gateway callback verified", map[string]interface{}{
		"txn_ref":       result.TxnRef,
		"response_code": result.ResponseCode,
		"amount":        result.Amount,
	})

	intent, err := s.intentRepo.FindByTxnRef(result.TxnRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, err
	}

	if intent.Status == model.PaymentIntentCompleted {
		logger.Warn("Replayed callback for completed payment, ignoring", map[string]interface{}{
			"txn_ref": intent.TxnRef,
		})
		return &CallbackOutcome{Success: true, Replayed: true}, nil
	}

	if !result.Success {
		intent.Status = model.PaymentIntentFailed
		if err := s.intentRepo.Update(intent); err != nil {
			return nil, err
		}
		logger.Warn("Gateway reported payment failure, no order created", map[string]interface{}{
			"txn_ref":       intent.TxnRef,
			"response_code": result.ResponseCode,
		})
		return &CallbackOutcome{Success: false}, nil
	}

	// A short-lived redis claim keeps two concurrent deliveries of the
	// same callback from racing past the intent status check.
	claimed, err := redis.ClaimPaymentCallback(ctx, intent.TxnRef, callbackClaimExpiry)
	if err != nil {
		logger.Error("Failed to claim payment callback", err, map[string]interface{}{
			"txn_ref": intent.TxnRef,
		})
	} else if !claimed {
		logger.Warn("Payment callback already being processed", map[string]interface{}{
			"txn_ref": intent.TxnRef,
		})
		return &CallbackOutcome{Success: true, Replayed: true}, nil
	}

	checkoutInput, err := input(intent.UserID)
	if err != nil {
		redis.ReleasePaymentCallback(ctx, intent.TxnRef)
		return nil, err
	}

	order, err := s.checkout.Materialize(intent.UserID, checkoutInput, model.PaymentStatusPaid)
	if err != nil {
		redis.ReleasePaymentCallback(ctx, intent.TxnRef)
		return nil, err
	}

	intent.Status = model.PaymentIntentCompleted
	intent.OrderID = &order.ID
	if err := s.intentRepo.Update(intent); err != nil {
		logger.Error("Failed to mark payment intent completed", err, map[string]interface{}{
			"txn_ref":  intent.TxnRef,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Gateway payment materialized into order", map[string]interface{}{
		"txn_ref":    intent.TxnRef,
		"order_id":   order.ID,
		"order_code": order.OrderCode,
	})
	return &CallbackOutcome{Success: true, Order: order}, nil
}
