package db

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductMaterial{},
		&model.Warehouse{},
		&model.InventoryRecord{},
		&model.PurchaseLog{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentIntent{},
		&model.Feedback{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedDefaultWarehouse(); err != nil {
		logger.Error("Failed to seed default warehouse", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedDefaultWarehouse makes sure a default warehouse exists so admin
// inventory screens always have a target to adjust against.
func seedDefaultWarehouse() error {
	var count int64
	if err := DB.Model(&model.Warehouse{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("Warehouses already present, skipping default seed", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	warehouse := &model.Warehouse{
		Name:      "Main Warehouse",
		Code:      "MAIN",
		IsDefault: true,
	}
	if err := DB.Create(warehouse).Error; err != nil {
		return err
	}

	logger.Info("Seeded default warehouse", map[string]interface{}{
		"warehouse_id": warehouse.ID,
		"code":         warehouse.Code,
	})
	return nil
}
