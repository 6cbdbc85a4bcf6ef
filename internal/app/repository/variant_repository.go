package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type VariantRepository interface {
	Create(variant *model.ProductVariant) error
	FindByProductID(productID uint) ([]model.ProductVariant, error)
	FindByKey(productID uint, size, color string) (*model.ProductVariant, error)
	CountByProductID(productID uint) (int64, error)
	Update(variant *model.ProductVariant) error
	Delete(id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"size":       variant.Size,
		"color":      variant.Color,
		"quantity":   variant.StockQuantity,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"size":       variant.Size,
			"color":      variant.Color,
		})
		return err
	}

	return nil
}

func (r *variantRepository) FindByProductID(productID uint) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	if err := r.db.Where("product_id = ?", productID).
		Order("size ASC, color ASC").
		Find(&variants).Error; err != nil {
		logger.Error("Failed to find product variants in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByKey(productID uint, size, color string) (*model.ProductVariant, error) {
	logger.Debug("Finding product variant by key in database", map[string]interface{}{
		"product_id": productID,
		"size":       size,
		"color":      color,
	})

	var variant model.ProductVariant
	if err := r.db.Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) CountByProductID(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ProductVariant{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count product variants in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}

func (r *variantRepository) Update(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
		"quantity":   variant.StockQuantity,
	})

	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	return nil
}

func (r *variantRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ProductVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete product variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}
