package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unicode"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"github.com/ttmai/velora-backend/pkg/mailer"
	"github.com/ttmai/velora-backend/pkg/payment/card"
	"github.com/ttmai/velora-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidRecipientName = errors.New("recipient name must contain only letters and spaces")
	ErrInvalidOrderTotal    = errors.New("order total must be positive")
)

type CheckoutInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CheckoutService turns a cart into an immutable order. Stock is not
// re-checked here: every cart line already holds its reservation, and
// materialization consumes it by dropping the lines without a release.
type CheckoutService interface {
	CheckoutCash(userID uint, input CheckoutInput) (*model.Order, error)
	CheckoutCard(ctx context.Context, userID uint, input CheckoutInput, cardToken string) (*model.Order, error)
	Materialize(userID uint, input CheckoutInput, paymentStatus model.PaymentStatus) (*model.Order, error)
	CartTotal(userID uint) (float64, error)
}

type checkoutService struct {
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	charger   card.Charger
	receipts  mailer.ReceiptSender
	db        *gorm.DB
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	charger card.Charger,
	receipts mailer.ReceiptSender,
	db *gorm.DB,
) CheckoutService {
	return &checkoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		charger:   charger,
		receipts:  receipts,
		db:        db,
	}
}

func (s *checkoutService) CheckoutCash(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting cash checkout", map[string]interface{}{
		"user_id": userID,
	})

	if !validRecipientName(input.Name) {
		logger.Warn("Checkout rejected: invalid recipient name", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidRecipientName
	}

	return s.Materialize(userID, input, model.PaymentStatusCash)
}

func (s *checkoutService) CheckoutCard(ctx context.Context, userID uint, input CheckoutInput, cardToken string) (*model.Order, error) {
	logger.Info("Starting card checkout", map[string]interface{}{
		"user_id": userID,
	})

	if !validRecipientName(input.Name) {
		return nil, ErrInvalidRecipientName
	}

	total, err := s.CartTotal(userID)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, ErrInvalidOrderTotal
	}

	// The charge must clear before any order row exists. A declined
	// card leaves the cart, and its reservations, untouched.
	amountMinor := int64(math.Round(total * 100))
	if err := s.charger.Charge(ctx, amountMinor, cardToken); err != nil {
		logger.Warn("Card charge declined, cart preserved", map[string]interface{}{
			"user_id": userID,
			"amount":  amountMinor,
		})
		return nil, err
	}

	return s.Materialize(userID, input, model.PaymentStatusPaid)
}

func (s *checkoutService) CartTotal(userID uint) (float64, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total, nil
}

// Materialize snapshots the user's cart into an order inside one
// transaction and clears the cart. The receipt goes out after commit
// and its failure is only logged. Recipient validation belongs to the
// form-submission paths (cash/card); a confirmed gateway callback must
// always be able to materialize, whatever the stored profile name.
func (s *checkoutService) Materialize(userID uint, input CheckoutInput, paymentStatus model.PaymentStatus) (*model.Order, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]model.OrderItem, 0, len(cartItems))
		for _, cartItem := range cartItems {
			// The product may have been retired between add and
			// checkout; an order must never reference a dead product.
			var product model.Product
			if err := tx.First(&product, cartItem.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Checkout rejected: product no longer exists", map[string]interface{}{
						"user_id":    userID,
						"product_id": cartItem.ProductID,
					})
					return ErrProductNotFound
				}
				return err
			}

			items = append(items, model.OrderItem{
				ProductID:  cartItem.ProductID,
				Size:       cartItem.Size,
				Color:      cartItem.Color,
				Price:      cartItem.Price,
				Quantity:   cartItem.Quantity,
				TotalMoney: cartItem.TotalPrice,
			})
			total += cartItem.TotalPrice
		}

		if total <= 0 {
			return ErrInvalidOrderTotal
		}

		order = &model.Order{
			OrderCode:     util.GenerateOrderCode(),
			UserID:        userID,
			Name:          input.Name,
			Email:         input.Email,
			Phone:         input.Phone,
			Address:       input.Address,
			TotalMoney:    total,
			PaymentStatus: paymentStatus,
			OrderItems:    items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// Cart lines are consumed, not released: their reservations now
		// live in the order items.
		if err := tx.Where("user_id = ?", userID).
			Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order materialized", map[string]interface{}{
		"order_id":       order.ID,
		"order_code":     order.OrderCode,
		"user_id":        userID,
		"total_money":    order.TotalMoney,
		"payment_status": order.PaymentStatus,
	})

	s.sendReceipt(order)
	return order, nil
}

func (s *checkoutService) sendReceipt(order *model.Order) {
	if s.receipts == nil {
		return
	}
	summary := mailer.OrderSummary{
		OrderCode:     order.OrderCode,
		RecipientName: order.Name,
		ItemCount:     len(order.OrderItems),
		TotalMoney:    order.TotalMoney,
		PaymentStatus: string(order.PaymentStatus),
	}
	email := order.Email
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic while sending order receipt", fmt.Errorf("panic: %v", r), map[string]interface{}{
					"order_code": summary.OrderCode,
				})
			}
		}()
		if err := s.receipts.SendReceipt(email, summary); err != nil {
			logger.Error("Failed to send order receipt", err, map[string]interface{}{
				"order_code": summary.OrderCode,
			})
		}
	}()
}

func validRecipientName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
