package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByID(id uint) (*model.CartItem, error)
	FindByKey(userID, productID uint, size, color string) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
	DeleteByProductID(productID uint) error
	RewritePrices(productID uint, unitPrice float64) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"product_id": cartItem.ProductID,
		"size":       cartItem.Size,
		"color":      cartItem.Color,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"product_id":   cartItem.ProductID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	logger.Debug("Finding cart items by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByID(id uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by ID in database", map[string]interface{}{
		"cart_item_id": id,
	})

	var cartItem model.CartItem
	if err := r.db.Preload("Product").First(&cartItem, id).Error; err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}

	return &cartItem, nil
}

func (r *cartRepository) FindByKey(userID, productID uint, size, color string) (*model.CartItem, error) {
	logger.Debug("Finding cart item by key in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"size":       size,
		"color":      color,
	})

	var cartItem model.CartItem
	err := r.db.Where(
		"user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, productID, size, color,
	).First(&cartItem).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"quantity":     cartItem.Quantity,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteByProductID(productID uint) error {
	logger.Debug("Deleting cart items by product ID from database", map[string]interface{}{
		"product_id": productID,
	})

	if err := r.db.Where("product_id = ?", productID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by product ID from database", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	return nil
}

// RewritePrices re-freezes every open cart line of a product at the
// given unit price. Line totals follow from the stored quantity.
func (r *cartRepository) RewritePrices(productID uint, unitPrice float64) error {
	logger.Debug("Rewriting cart prices for product in database", map[string]interface{}{
		"product_id": productID,
		"unit_price": unitPrice,
	})

	if err := r.db.Model(&model.CartItem{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"price":       unitPrice,
			"total_price": gorm.Expr("? * quantity", unitPrice),
		}).Error; err != nil {
		logger.Error("Failed to rewrite cart prices for product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	return nil
}
