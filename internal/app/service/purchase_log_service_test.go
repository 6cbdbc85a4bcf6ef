package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupPurchaseLogServiceTest(t *testing.T) (PurchaseLogService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	purchaseLogRepo := repository.NewPurchaseLogRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewPurchaseLogService(purchaseLogRepo, productRepo), testDB
}

func TestPurchaseLogService_LegacyStockReport_FlagsDrift(t *testing.T) {
	purchaseLogService, testDB := setupPurchaseLogServiceTest(t)

	// One product fully covered by the ledger, one legacy product
	// holding stock with no entries at all.
	covered := &model.Product{Title: "Covered Jacket", Price: 100, BuyPrice: 40, StockQuantity: 5}
	require.NoError(t, testDB.Create(covered).Error)
	require.NoError(t, testDB.Create(&model.PurchaseLog{
		ProductID: covered.ID, Quantity: 5, BuyPrice: 40, TotalCost: 200,
	}).Error)

	legacy := &model.Product{Title: "Legacy Skirt", Price: 50, BuyPrice: 20, StockQuantity: 8}
	require.NoError(t, testDB.Create(legacy).Error)

	report, err := purchaseLogService.LegacyStockReport()
	assert.NoError(t, err)
	require.Len(t, report, 2)

	byID := make(map[uint]StockReportEntry)
	for _, entry := range report {
		byID[entry.ProductID] = entry
	}

	assert.Equal(t, 0, byID[covered.ID].Drift)
	assert.Equal(t, 200.0, byID[covered.ID].TotalCost)

	assert.Equal(t, 8, byID[legacy.ID].Drift)
	assert.Equal(t, 0, byID[legacy.ID].LoggedQuantity)
	assert.Equal(t, 0.0, byID[legacy.ID].TotalCost)
}

func TestPurchaseLogService_BackfillLegacyStock(t *testing.T) {
	purchaseLogService, testDB := setupPurchaseLogServiceTest(t)

	priced := &model.Product{Title: "Priced Coat", Price: 150, BuyPrice: 70, StockQuantity: 4}
	require.NoError(t, testDB.Create(priced).Error)

	unpriced := &model.Product{Title: "Unpriced Vest", Price: 60, StockQuantity: 3}
	require.NoError(t, testDB.Create(unpriced).Error)

	count, err := purchaseLogService.BackfillLegacyStock(25)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	logs, err := purchaseLogService.GetLogsByProduct(priced.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 4, logs[0].Quantity)
	assert.Equal(t, 70.0, logs[0].BuyPrice)
	assert.Equal(t, 280.0, logs[0].TotalCost)
	assert.Equal(t, "legacy stock backfill", logs[0].Note)

	// The default buy price covers products without one
	logs, err = purchaseLogService.GetLogsByProduct(unpriced.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 25.0, logs[0].BuyPrice)
	assert.Equal(t, 75.0, logs[0].TotalCost)
}

func TestPurchaseLogService_BackfillLegacyStock_Idempotent(t *testing.T) {
	purchaseLogService, testDB := setupPurchaseLogServiceTest(t)

	product := &model.Product{Title: "Legacy Cardigan", Price: 90, BuyPrice: 35, StockQuantity: 6}
	require.NoError(t, testDB.Create(product).Error)

	count, err := purchaseLogService.BackfillLegacyStock(10)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// A second run finds no drift left to cover
	count, err = purchaseLogService.BackfillLegacyStock(10)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	logs, _ := purchaseLogService.GetLogsByProduct(product.ID)
	assert.Len(t, logs, 1)
}

func TestPurchaseLogService_ExportReportExcel(t *testing.T) {
	purchaseLogService, testDB := setupPurchaseLogServiceTest(t)

	product := &model.Product{Title: "Report Shirt", Price: 45, BuyPrice: 18, StockQuantity: 2}
	require.NoError(t, testDB.Create(product).Error)

	data, err := purchaseLogService.ExportReportExcel()
	assert.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Product ID", rows[0][0])
	assert.Equal(t, "Report Shirt", rows[1][1])
}
