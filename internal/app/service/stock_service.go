package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrVariantNotFound   = errors.New("product variant not found")
)

// StockService owns every stock movement. Decrements go through a
// single conditional UPDATE so availability is checked and consumed in
// one statement; two competing reservations can never both pass the
// same units.
type StockService interface {
	Reserve(productID uint, size, color string, quantity int) error
	Release(productID uint, size, color string, quantity int) error
	MigrateLegacyVariants(productID uint) error
}

type stockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) StockService {
	return &stockService{db: db}
}

func (s *stockService) Reserve(productID uint, size, color string, quantity int) error {
	if quantity <= 0 {
		logger.Warn("Rejecting stock reservation with non-positive quantity", map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	logger.Debug("Reserving stock", map[string]interface{}{
		"product_id": productID,
		"size":       size,
		"color":      color,
		"quantity":   quantity,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		var variantCount int64
		if err := tx.Model(&model.ProductVariant{}).
			Where("product_id = ?", productID).
			Count(&variantCount).Error; err != nil {
			return err
		}

		if variantCount > 0 {
			result := tx.Model(&model.ProductVariant{}).
				Where("product_id = ? AND size = ? AND color = ? AND stock_quantity >= ?",
					productID, size, color, quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var exists int64
				if err := tx.Model(&model.ProductVariant{}).
					Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
					Count(&exists).Error; err != nil {
					return err
				}
				if exists == 0 {
					logger.Warn("Reservation failed: variant does not exist", map[string]interface{}{
						"product_id": productID,
						"size":       size,
						"color":      color,
					})
					return ErrVariantNotFound
				}
				logger.Warn("Reservation failed: insufficient variant stock", map[string]interface{}{
					"product_id": productID,
					"size":       size,
					"color":      color,
					"requested":  quantity,
				})
				return ErrInsufficientStock
			}

			// Aggregate follows the variant that just gave up the units.
			return tx.Model(&model.Product{}).
				Where("id = ?", productID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error
		}

		result := tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", productID, quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&model.Product{}).
				Where("id = ?", productID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrProductNotFound
			}
			logger.Warn("Reservation failed: insufficient product stock", map[string]interface{}{
				"product_id": productID,
				"requested":  quantity,
			})
			return ErrInsufficientStock
		}
		return nil
	})
}

func (s *stockService) Release(productID uint, size, color string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	logger.Debug("Releasing stock", map[string]interface{}{
		"product_id": productID,
		"size":       size,
		"color":      color,
		"quantity":   quantity,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		var variantCount int64
		if err := tx.Model(&model.ProductVariant{}).
			Where("product_id = ?", productID).
			Count(&variantCount).Error; err != nil {
			return err
		}

		if variantCount > 0 {
			result := tx.Model(&model.ProductVariant{}).
				Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// The variant the units were reserved from no longer
				// exists, so recreate it rather than lose the stock.
				variant := model.ProductVariant{
					ProductID:     productID,
					Size:          size,
					Color:         color,
					StockQuantity: quantity,
				}
				if err := tx.Create(&variant).Error; err != nil {
					return err
				}
			}
			return tx.Model(&model.Product{}).
				Where("id = ?", productID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
		}

		result := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// MigrateLegacyVariants folds a product's legacy single size/color pair
// and its aggregate quantity into one variant row. Products that
// already have variants are left untouched, so the migration can run
// any number of times.
func (s *stockService) MigrateLegacyVariants(productID uint) error {
	logger.Info("Migrating legacy variant fields", map[string]interface{}{
		"product_id": productID,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var variantCount int64
		if err := tx.Model(&model.ProductVariant{}).
			Where("product_id = ?", productID).
			Count(&variantCount).Error; err != nil {
			return err
		}
		if variantCount > 0 {
			logger.Debug("Product already has variants, skipping migration", map[string]interface{}{
				"product_id": productID,
			})
			return nil
		}

		if product.LegacySize == "" && product.LegacyColor == "" && product.StockQuantity <= 0 {
			logger.Debug("Product has no legacy stock to migrate", map[string]interface{}{
				"product_id": productID,
			})
			return nil
		}

		variant := model.ProductVariant{
			ProductID:     productID,
			Size:          product.LegacySize,
			Color:         product.LegacyColor,
			StockQuantity: product.StockQuantity,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}

		logger.Info("Legacy variant migrated", map[string]interface{}{
			"product_id": productID,
			"size":       variant.Size,
			"color":      variant.Color,
			"quantity":   variant.StockQuantity,
		})
		return nil
	})
}
