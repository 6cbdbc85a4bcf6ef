package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(record *model.InventoryRecord) error
	FindByKey(productID, warehouseID uint, size, color string) (*model.InventoryRecord, error)
	FindByProductID(productID uint) ([]model.InventoryRecord, error)
	FindByWarehouseID(warehouseID uint) ([]model.InventoryRecord, error)
	SumByProductID(productID uint) (int, error)
	CountByProductID(productID uint) (int64, error)
	TrackedProductIDs() ([]uint, error)
	Update(record *model.InventoryRecord) error
	Delete(id uint) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(record *model.InventoryRecord) error {
	logger.Debug("Creating inventory record in database", map[string]interface{}{
		"product_id":   record.ProductID,
		"warehouse_id": record.WarehouseID,
		"size":         record.Size,
		"color":        record.Color,
		"quantity":     record.Quantity,
	})

	if err := r.db.Create(record).Error; err != nil {
		logger.Error("Failed to create inventory record in database", err, map[string]interface{}{
			"product_id":   record.ProductID,
			"warehouse_id": record.WarehouseID,
		})
		return err
	}

	return nil
}

func (r *inventoryRepository) FindByKey(productID, warehouseID uint, size, color string) (*model.InventoryRecord, error) {
	logger.Debug("Finding inventory record by key in database", map[string]interface{}{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"size":         size,
		"color":        color,
	})

	var record model.InventoryRecord
	if err := r.db.Where(
		"product_id = ? AND warehouse_id = ? AND size = ? AND color = ?",
		productID, warehouseID, size, color,
	).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *inventoryRepository) FindByProductID(productID uint) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	if err := r.db.Where("product_id = ?", productID).
		Preload("Warehouse").
		Find(&records).Error; err != nil {
		logger.Error("Failed to find inventory records by product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return records, nil
}

func (r *inventoryRepository) FindByWarehouseID(warehouseID uint) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	if err := r.db.Where("warehouse_id = ?", warehouseID).
		Preload("Product").
		Find(&records).Error; err != nil {
		logger.Error("Failed to find inventory records by warehouse in database", err, map[string]interface{}{
			"warehouse_id": warehouseID,
		})
		return nil, err
	}
	return records, nil
}

// SumByProductID totals the non-deleted inventory quantities for a
// product across all warehouses. The soft-delete filter comes from the
// default gorm scope.
func (r *inventoryRepository) SumByProductID(productID uint) (int, error) {
	var result struct {
		Total int
	}
	if err := r.db.Model(&model.InventoryRecord{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		logger.Error("Failed to sum inventory quantities in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return result.Total, nil
}

func (r *inventoryRepository) CountByProductID(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.InventoryRecord{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count inventory records in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}

func (r *inventoryRepository) TrackedProductIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.InventoryRecord{}).
		Distinct("product_id").
		Pluck("product_id", &ids).Error; err != nil {
		logger.Error("Failed to list warehouse-tracked product IDs in database", err)
		return nil, err
	}
	return ids, nil
}

func (r *inventoryRepository) Update(record *model.InventoryRecord) error {
	logger.Debug("Updating inventory record in database", map[string]interface{}{
		"inventory_id": record.ID,
		"product_id":   record.ProductID,
		"warehouse_id": record.WarehouseID,
		"quantity":     record.Quantity,
	})

	if err := r.db.Save(record).Error; err != nil {
		logger.Error("Failed to update inventory record in database", err, map[string]interface{}{
			"inventory_id": record.ID,
		})
		return err
	}

	return nil
}

func (r *inventoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.InventoryRecord{}, id).Error; err != nil {
		logger.Error("Failed to delete inventory record from database", err, map[string]interface{}{
			"inventory_id": id,
		})
		return err
	}
	return nil
}
