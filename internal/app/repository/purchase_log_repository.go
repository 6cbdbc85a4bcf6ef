package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductCostTotal is the aggregated ledger position of one product.
type ProductCostTotal struct {
	ProductID     uint
	TotalQuantity int
	TotalCost     float64
}

type PurchaseLogRepository interface {
	Create(log *model.PurchaseLog) error
	FindAll() ([]model.PurchaseLog, error)
	FindByProductID(productID uint) ([]model.PurchaseLog, error)
	TotalsByProduct() ([]ProductCostTotal, error)
}

type purchaseLogRepository struct {
	db *gorm.DB
}

func NewPurchaseLogRepository(db *gorm.DB) PurchaseLogRepository {
	return &purchaseLogRepository{db: db}
}

func (r *purchaseLogRepository) Create(log *model.PurchaseLog) error {
	logger.Debug("Appending purchase log entry in database", map[string]interface{}{
		"product_id": log.ProductID,
		"quantity":   log.Quantity,
		"buy_price":  log.BuyPrice,
		"total_cost": log.TotalCost,
	})

	if err := r.db.Create(log).Error; err != nil {
		logger.Error("Failed to append purchase log entry in database", err, map[string]interface{}{
			"product_id": log.ProductID,
		})
		return err
	}

	return nil
}

func (r *purchaseLogRepository) FindAll() ([]model.PurchaseLog, error) {
	var logs []model.PurchaseLog
	if err := r.db.Preload("Product").
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		logger.Error("Failed to find purchase log entries in database", err)
		return nil, err
	}
	return logs, nil
}

func (r *purchaseLogRepository) FindByProductID(productID uint) ([]model.PurchaseLog, error) {
	var logs []model.PurchaseLog
	if err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		logger.Error("Failed to find purchase log entries by product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return logs, nil
}

func (r *purchaseLogRepository) TotalsByProduct() ([]ProductCostTotal, error) {
	var totals []ProductCostTotal
	if err := r.db.Model(&model.PurchaseLog{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(SUM(total_cost), 0) AS total_cost").
		Group("product_id").
		Scan(&totals).Error; err != nil {
		logger.Error("Failed to aggregate purchase log totals in database", err)
		return nil, err
	}
	return totals, nil
}
