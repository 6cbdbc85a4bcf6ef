package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrInvalidAdjustment = errors.New("adjustment must set either a delta or an absolute quantity")
)

// InventoryAdjustment changes one warehouse record either by a signed
// delta or to an absolute quantity. Exactly one of Delta and SetTo must
// be present.
type InventoryAdjustment struct {
	ProductID   uint
	WarehouseID uint
	Size        string
	Color       string
	Delta       *int
	SetTo       *int
	Note        string
}

type InventoryService interface {
	Adjust(adj InventoryAdjustment) (*model.InventoryRecord, error)
	RecalcProductQuantity(productID uint) error
	ReconcileAll() (int, error)
	ListByProduct(productID uint) ([]model.InventoryRecord, error)
	ListByWarehouse(warehouseID uint) ([]model.InventoryRecord, error)
}

type inventoryService struct {
	inventoryRepo   repository.InventoryRepository
	productRepo     repository.ProductRepository
	warehouseRepo   repository.WarehouseRepository
	purchaseLogRepo repository.PurchaseLogRepository
	db              *gorm.DB
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	purchaseLogRepo repository.PurchaseLogRepository,
	db *gorm.DB,
) InventoryService {
	return &inventoryService{
		inventoryRepo:   inventoryRepo,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		purchaseLogRepo: purchaseLogRepo,
		db:              db,
	}
}

func (s *inventoryService) Adjust(adj InventoryAdjustment) (*model.InventoryRecord, error) {
	logger.Info("Adjusting warehouse inventory", map[string]interface{}{
		"product_id":   adj.ProductID,
		"warehouse_id": adj.WarehouseID,
		"size":         adj.Size,
		"color":        adj.Color,
		"delta":        adj.Delta,
		"set_to":       adj.SetTo,
	})

	if (adj.Delta == nil) == (adj.SetTo == nil) {
		return nil, ErrInvalidAdjustment
	}

	product, err := s.productRepo.FindByID(adj.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.warehouseRepo.FindByID(adj.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	record, err := s.inventoryRepo.FindByKey(adj.ProductID, adj.WarehouseID, adj.Size, adj.Color)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.InventoryRecord{
			ProductID:   adj.ProductID,
			WarehouseID: adj.WarehouseID,
			Size:        adj.Size,
			Color:       adj.Color,
			Quantity:    0,
		}
		if err := s.inventoryRepo.Create(record); err != nil {
			return nil, err
		}
	}

	previous := record.Quantity
	var next int
	if adj.Delta != nil {
		next = previous + *adj.Delta
	} else {
		next = *adj.SetTo
	}
	if next < 0 {
		logger.Warn("Adjustment would make inventory negative, clamping at zero", map[string]interface{}{
			"inventory_id": record.ID,
			"previous":     previous,
			"requested":    next,
		})
		next = 0
	}

	record.Quantity = next
	if err := s.inventoryRepo.Update(record); err != nil {
		return nil, err
	}

	if increase := next - previous; increase > 0 {
		entry := &model.PurchaseLog{
			ProductID: adj.ProductID,
			Quantity:  increase,
			BuyPrice:  product.BuyPrice,
			TotalCost: float64(increase) * product.BuyPrice,
			Note:      adj.Note,
		}
		if err := s.purchaseLogRepo.Create(entry); err != nil {
			// The adjustment already happened; a missing ledger entry
			// surfaces later as drift in the stock report.
			logger.Error("Failed to append purchase log for inventory increase", err, map[string]interface{}{
				"product_id": adj.ProductID,
				"quantity":   increase,
			})
		}
	}

	// Reconciliation runs synchronously so the product aggregate the
	// admin sees next reflects this adjustment. Its failure never
	// undoes the adjustment itself.
	if err := s.RecalcProductQuantity(adj.ProductID); err != nil {
		logger.Error("Reconciliation after inventory adjustment failed", err, map[string]interface{}{
			"product_id": adj.ProductID,
		})
	}

	logger.Info("Warehouse inventory adjusted", map[string]interface{}{
		"inventory_id": record.ID,
		"previous":     previous,
		"quantity":     next,
	})
	return record, nil
}

// RecalcProductQuantity makes the product aggregate equal the sum of
// its non-deleted inventory records. Products without any inventory
// rows keep their directly managed quantity.
func (s *inventoryService) RecalcProductQuantity(productID uint) error {
	count, err := s.inventoryRepo.CountByProductID(productID)
	if err != nil {
		return err
	}
	if count == 0 {
		logger.Debug("Product is not warehouse-tracked, skipping reconciliation", map[string]interface{}{
			"product_id": productID,
		})
		return nil
	}

	total, err := s.inventoryRepo.SumByProductID(productID)
	if err != nil {
		return err
	}

	if err := s.db.Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", total).Error; err != nil {
		logger.Error("Failed to write reconciled product quantity", err, map[string]interface{}{
			"product_id": productID,
			"total":      total,
		})
		return err
	}

	logger.Debug("Product quantity reconciled from inventory", map[string]interface{}{
		"product_id": productID,
		"total":      total,
	})
	return nil
}

// ReconcileAll re-runs reconciliation over every warehouse-tracked
// product and reports how many were processed. Per-product failures
// are logged and skipped so one bad product cannot stall the sweep.
func (s *inventoryService) ReconcileAll() (int, error) {
	ids, err := s.inventoryRepo.TrackedProductIDs()
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, id := range ids {
		if err := s.RecalcProductQuantity(id); err != nil {
			logger.Error("Failed to reconcile product during sweep", err, map[string]interface{}{
				"product_id": id,
			})
			continue
		}
		reconciled++
	}

	logger.Info("Inventory reconciliation sweep finished", map[string]interface{}{
		"tracked":    len(ids),
		"reconciled": reconciled,
	})
	return reconciled, nil
}

func (s *inventoryService) ListByProduct(productID uint) ([]model.InventoryRecord, error) {
	return s.inventoryRepo.FindByProductID(productID)
}

func (s *inventoryService) ListByWarehouse(warehouseID uint) ([]model.InventoryRecord, error) {
	if _, err := s.warehouseRepo.FindByID(warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}
	return s.inventoryRepo.FindByWarehouseID(warehouseID)
}
