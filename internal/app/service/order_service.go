package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderItemNotFound     = errors.New("order item not found")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrOrderAlreadyDelivered = errors.New("order is already delivered")
)

// OrderService runs the order lifecycle: processing is the only state
// with outgoing transitions, cancellation restores stock exactly once,
// and line deletion keeps the order total consistent with its
// surviving lines.
type OrderService interface {
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error)
	GetAllOrders() ([]model.Order, error)
	MarkDelivered(orderID uint) error
	CancelOrder(orderID uint) error
	DeleteOrderItem(orderID, itemID uint) error
	DeleteOrder(orderID uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	stock     StockService
	db        *gorm.DB
}

func NewOrderService(orderRepo repository.OrderRepository, stock StockService, db *gorm.DB) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		stock:     stock,
		db:        db,
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		logger.Warn("Order does not belong to user", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) MarkDelivered(orderID uint) error {
	logger.Info("Marking order delivered", map[string]interface{}{
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	switch order.DeliveryStatus {
	case model.DeliveryStatusCancelled:
		return ErrOrderAlreadyCancelled
	case model.DeliveryStatusDelivered:
		return ErrOrderAlreadyDelivered
	}

	// Delivery settles the order regardless of how it was going to be
	// paid; cash on delivery becomes Paid here.
	return s.orderRepo.UpdateStatuses(orderID, model.DeliveryStatusDelivered, model.PaymentStatusPaid)
}

func (s *orderService) CancelOrder(orderID uint) error {
	logger.Info("Cancelling order", map[string]interface{}{
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.DeliveryStatus == model.DeliveryStatusCancelled {
		logger.Warn("Refusing to cancel an already cancelled order", map[string]interface{}{
			"order_id": orderID,
		})
		return ErrOrderAlreadyCancelled
	}

	order.DeliveryStatus = model.DeliveryStatusCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	// Every surviving line gives its units back at the granularity
	// they were reserved from. Soft-deleted lines already restored
	// theirs when they were removed.
	for _, item := range order.OrderItems {
		if err := s.stock.Release(item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
			logger.Error("Failed to restore stock for cancelled order line", err, map[string]interface{}{
				"order_id":      orderID,
				"order_item_id": item.ID,
				"quantity":      item.Quantity,
			})
			return err
		}
	}

	logger.Info("Order cancelled and stock restored", map[string]interface{}{
		"order_id": orderID,
		"lines":    len(order.OrderItems),
	})
	return nil
}

// DeleteOrderItem soft-deletes one line, restores its stock, and
// recomputes the order total from the surviving lines. Removing the
// last line removes the order itself; the line's stock is restored
// exactly once either way.
func (s *orderService) DeleteOrderItem(orderID, itemID uint) error {
	logger.Info("Deleting order line", map[string]interface{}{
		"order_id":      orderID,
		"order_item_id": itemID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	item, err := s.orderRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderItemNotFound
		}
		return err
	}
	if item.OrderID != orderID {
		return ErrOrderItemNotFound
	}

	if err := s.db.Delete(&model.OrderItem{}, itemID).Error; err != nil {
		return err
	}

	// A cancelled order already put these units back.
	if order.DeliveryStatus != model.DeliveryStatusCancelled {
		if err := s.stock.Release(item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
			logger.Error("Failed to restore stock for deleted order line", err, map[string]interface{}{
				"order_item_id": itemID,
			})
			return err
		}
	}

	var remaining []model.OrderItem
	if err := s.db.Where("order_id = ?", orderID).Find(&remaining).Error; err != nil {
		return err
	}

	if len(remaining) == 0 {
		logger.Info("Last order line removed, deleting order", map[string]interface{}{
			"order_id": orderID,
		})
		return s.orderRepo.HardDelete(orderID)
	}

	var total float64
	for _, line := range remaining {
		total += line.TotalMoney
	}
	order.TotalMoney = total
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order line deleted and total recomputed", map[string]interface{}{
		"order_id":    orderID,
		"total_money": total,
		"lines":       len(remaining),
	})
	return nil
}

// DeleteOrder removes the order and its items permanently without
// restoring stock. It exists for purging bogus records, not for
// cancelling real ones.
func (s *orderService) DeleteOrder(orderID uint) error {
	logger.Info("Hard deleting order", map[string]interface{}{
		"order_id": orderID,
	})

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return s.orderRepo.HardDelete(orderID)
}
