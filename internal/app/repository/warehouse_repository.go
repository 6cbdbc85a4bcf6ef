package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(warehouse *model.Warehouse) error
	FindAll() ([]model.Warehouse, error)
	FindByID(id uint) (*model.Warehouse, error)
	FindByCode(code string) (*model.Warehouse, error)
	FindDefault() (*model.Warehouse, error)
	Update(warehouse *model.Warehouse) error
	SetDefault(id uint) error
	Delete(id uint) error
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(warehouse *model.Warehouse) error {
	logger.Debug("Creating warehouse in database", map[string]interface{}{
		"name": warehouse.Name,
		"code": warehouse.Code,
	})

	if err := r.db.Create(warehouse).Error; err != nil {
		logger.Error("Failed to create warehouse in database", err, map[string]interface{}{
			"code": warehouse.Code,
		})
		return err
	}

	return nil
}

func (r *warehouseRepository) FindAll() ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	if err := r.db.Order("created_at ASC").Find(&warehouses).Error; err != nil {
		logger.Error("Failed to find warehouses in database", err)
		return nil, err
	}
	return warehouses, nil
}

func (r *warehouseRepository) FindByID(id uint) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := r.db.First(&warehouse, id).Error; err != nil {
		logger.Error("Failed to find warehouse by ID in database", err, map[string]interface{}{
			"warehouse_id": id,
		})
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) FindByCode(code string) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := r.db.Where("code = ?", code).First(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) FindDefault() (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := r.db.Where("is_default = ?", true).First(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) Update(warehouse *model.Warehouse) error {
	logger.Debug("Updating warehouse in database", map[string]interface{}{
		"warehouse_id": warehouse.ID,
		"code":         warehouse.Code,
	})

	if err := r.db.Save(warehouse).Error; err != nil {
		logger.Error("Failed to update warehouse in database", err, map[string]interface{}{
			"warehouse_id": warehouse.ID,
		})
		return err
	}

	return nil
}

// SetDefault marks one warehouse as the default destination for
// adjustments. At most one warehouse may be default, so the previous
// flag is cleared in the same transaction.
func (r *warehouseRepository) SetDefault(id uint) error {
	logger.Debug("Setting default warehouse in database", map[string]interface{}{
		"warehouse_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Warehouse{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			logger.Error("Failed to clear default warehouse flag in database", err, map[string]interface{}{
				"warehouse_id": id,
			})
			return err
		}
		if err := tx.Model(&model.Warehouse{}).
			Where("id = ?", id).
			Update("is_default", true).Error; err != nil {
			logger.Error("Failed to set default warehouse flag in database", err, map[string]interface{}{
				"warehouse_id": id,
			})
			return err
		}
		return nil
	})
}

func (r *warehouseRepository) Delete(id uint) error {
	logger.Debug("Deleting warehouse from database", map[string]interface{}{
		"warehouse_id": id,
	})

	if err := r.db.Delete(&model.Warehouse{}, id).Error; err != nil {
		logger.Error("Failed to delete warehouse from database", err, map[string]interface{}{
			"warehouse_id": id,
		})
		return err
	}

	return nil
}
