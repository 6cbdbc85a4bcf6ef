package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/db"
	"gorm.io/gorm"
)

func intPtr(v int) *int {
	return &v
}

type inventoryFixture struct {
	inventory InventoryService
	product   *model.Product
	warehouse *model.Warehouse
	db        *gorm.DB
}

func setupInventoryServiceTest(t *testing.T) *inventoryFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	inventoryRepo := repository.NewInventoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	warehouseRepo := repository.NewWarehouseRepository(testDB)
	purchaseLogRepo := repository.NewPurchaseLogRepository(testDB)
	inventoryService := NewInventoryService(
		inventoryRepo, productRepo, warehouseRepo, purchaseLogRepo, testDB,
	)

	product := &model.Product{
		Title:         "Merino Sweater",
		Price:         110,
		BuyPrice:      55,
		StockQuantity: 0,
	}
	testDB.Create(product)

	warehouse := &model.Warehouse{Name: "Central", Code: "WH-01", IsDefault: true}
	testDB.Create(warehouse)

	return &inventoryFixture{
		inventory: inventoryService,
		product:   product,
		warehouse: warehouse,
		db:        testDB,
	}
}

func TestInventoryService_Adjust_DeltaCreatesRecordAndReconciles(t *testing.T) {
	f := setupInventoryServiceTest(t)

	record, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Size:        "M",
		Color:       "Gray",
		Delta:       intPtr(12),
		Note:        "restock",
	})
	assert.NoError(t, err)
	assert.Equal(t, 12, record.Quantity)

	// The product aggregate now mirrors the warehouse sum
	assert.Equal(t, 12, productStock(t, f.db, f.product.ID))
}

func TestInventoryService_Adjust_IncreaseAppendsPurchaseLog(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(10),
		Note:        "restock",
	})
	require.NoError(t, err)

	var logs []model.PurchaseLog
	require.NoError(t, f.db.Where("product_id = ?", f.product.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, 10, logs[0].Quantity)
	assert.Equal(t, 55.0, logs[0].BuyPrice)
	assert.Equal(t, 550.0, logs[0].TotalCost)
	assert.Equal(t, "restock", logs[0].Note)
}

func TestInventoryService_Adjust_DecreaseDoesNotLog(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(10),
	})
	require.NoError(t, err)

	_, err = f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(-4),
	})
	require.NoError(t, err)

	// Only the increase entered the cost ledger
	var count int64
	f.db.Model(&model.PurchaseLog{}).Where("product_id = ?", f.product.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 6, productStock(t, f.db, f.product.ID))
}

func TestInventoryService_Adjust_SetToLogsOnlyTheIncrease(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(5),
	})
	require.NoError(t, err)

	record, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		SetTo:       intPtr(9),
	})
	assert.NoError(t, err)
	assert.Equal(t, 9, record.Quantity)

	var logs []model.PurchaseLog
	require.NoError(t, f.db.Where("product_id = ?", f.product.ID).Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, 4, logs[1].Quantity)
}

func TestInventoryService_Adjust_ClampsAtZero(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(3),
	})
	require.NoError(t, err)

	record, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(-8),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, record.Quantity)
	assert.Equal(t, 0, productStock(t, f.db, f.product.ID))
}

func TestInventoryService_Adjust_RequiresExactlyOneMode(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(1),
		SetTo:       intPtr(5),
	})
	assert.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestInventoryService_Adjust_UnknownTargets(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   9999,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(1),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: 9999,
		Delta:       intPtr(1),
	})
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestInventoryService_RecalcProductQuantity_SumsAcrossWarehouses(t *testing.T) {
	f := setupInventoryServiceTest(t)

	second := &model.Warehouse{Name: "Annex", Code: "WH-02"}
	require.NoError(t, f.db.Create(second).Error)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(7),
	})
	require.NoError(t, err)
	_, err = f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: second.ID,
		Delta:       intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 12, productStock(t, f.db, f.product.ID))
}

func TestInventoryService_RecalcProductQuantity_UntrackedProductUntouched(t *testing.T) {
	f := setupInventoryServiceTest(t)

	untracked := &model.Product{Title: "Straw Hat", Price: 25, StockQuantity: 9}
	require.NoError(t, f.db.Create(untracked).Error)

	err := f.inventory.RecalcProductQuantity(untracked.ID)
	assert.NoError(t, err)
	assert.Equal(t, 9, productStock(t, f.db, untracked.ID))
}

func TestInventoryService_ReconcileAll_RepairsDrift(t *testing.T) {
	f := setupInventoryServiceTest(t)

	_, err := f.inventory.Adjust(InventoryAdjustment{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		Delta:       intPtr(8),
	})
	require.NoError(t, err)

	// Simulate an aggregate drifting away from the warehouse truth
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", f.product.ID).
		Update("stock_quantity", 99).Error)

	count, err := f.inventory.ReconcileAll()
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 8, productStock(t, f.db, f.product.ID))
}
