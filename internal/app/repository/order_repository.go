package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByCode(orderCode string) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll() ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatuses(id uint, delivery model.DeliveryStatus, payment model.PaymentStatus) error
	FindItemByID(itemID uint) (*model.OrderItem, error)
	HardDelete(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	})
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":     order.UserID,
		"order_code":  order.OrderCode,
		"total_money": order.TotalMoney,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":    order.UserID,
			"order_code": order.OrderCode,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"user_id":    order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByCode(orderCode string) (*model.Order, error) {
	logger.Debug("Finding order by code in database", map[string]interface{}{
		"order_code": orderCode,
	})

	var order model.Order
	if err := r.preloadOrder().Where("order_code = ?", orderCode).First(&order).Error; err != nil {
		logger.Error("Failed to find order by code in database", err, map[string]interface{}{
			"order_code": orderCode,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	if err := r.preloadOrder().Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id":        order.ID,
		"delivery_status": order.DeliveryStatus,
		"payment_status":  order.PaymentStatus,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	return nil
}

func (r *orderRepository) UpdateStatuses(id uint, delivery model.DeliveryStatus, payment model.PaymentStatus) error {
	logger.Debug("Updating order statuses in database", map[string]interface{}{
		"order_id":        id,
		"delivery_status": delivery,
		"payment_status":  payment,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivery_status": delivery,
			"payment_status":  payment,
		}).Error; err != nil {
		logger.Error("Failed to update order statuses in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	return nil
}

func (r *orderRepository) FindItemByID(itemID uint) (*model.OrderItem, error) {
	logger.Debug("Finding order item by ID in database", map[string]interface{}{
		"order_item_id": itemID,
	})

	var item model.OrderItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		logger.Error("Failed to find order item by ID in database", err, map[string]interface{}{
			"order_item_id": itemID,
		})
		return nil, err
	}

	return &item, nil
}

// HardDelete removes the order and all of its items permanently,
// including soft-deleted audit rows. Stock is not touched here.
func (r *orderRepository) HardDelete(id uint) error {
	logger.Debug("Hard deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("order_id = ?", id).
			Delete(&model.OrderItem{}).Error; err != nil {
			logger.Error("Failed to delete order items from database", err, map[string]interface{}{
				"order_id": id,
			})
			return err
		}
		if err := tx.Delete(&model.Order{}, id).Error; err != nil {
			logger.Error("Failed to delete order from database", err, map[string]interface{}{
				"order_id": id,
			})
			return err
		}
		return nil
	})
}
