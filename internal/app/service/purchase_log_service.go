package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
)

// StockReportEntry compares what the cost ledger says a product
// acquired against the stock it currently holds. A positive drift is
// stock that predates the ledger; it is reported, never auto-fixed.
type StockReportEntry struct {
	ProductID       uint    `json:"product_id"`
	Title           string  `json:"title"`
	CurrentQuantity int     `json:"current_quantity"`
	LoggedQuantity  int     `json:"logged_quantity"`
	Drift           int     `json:"drift"`
	TotalCost       float64 `json:"total_cost"`
}

type PurchaseLogService interface {
	GetLogs() ([]model.PurchaseLog, error)
	GetLogsByProduct(productID uint) ([]model.PurchaseLog, error)
	LegacyStockReport() ([]StockReportEntry, error)
	BackfillLegacyStock(defaultBuyPrice float64) (int, error)
	ExportReportExcel() ([]byte, error)
}

type purchaseLogService struct {
	purchaseLogRepo repository.PurchaseLogRepository
	productRepo     repository.ProductRepository
}

func NewPurchaseLogService(
	purchaseLogRepo repository.PurchaseLogRepository,
	productRepo repository.ProductRepository,
) PurchaseLogService {
	return &purchaseLogService{
		purchaseLogRepo: purchaseLogRepo,
		productRepo:     productRepo,
	}
}

func (s *purchaseLogService) GetLogs() ([]model.PurchaseLog, error) {
	return s.purchaseLogRepo.FindAll()
}

func (s *purchaseLogService) GetLogsByProduct(productID uint) ([]model.PurchaseLog, error) {
	return s.purchaseLogRepo.FindByProductID(productID)
}

func (s *purchaseLogService) LegacyStockReport() ([]StockReportEntry, error) {
	logger.Info("Building legacy stock report", nil)

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	totals, err := s.purchaseLogRepo.TotalsByProduct()
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint]repository.ProductCostTotal, len(totals))
	for _, t := range totals {
		byProduct[t.ProductID] = t
	}

	report := make([]StockReportEntry, 0, len(products))
	for _, product := range products {
		total := byProduct[product.ID]
		entry := StockReportEntry{
			ProductID:       product.ID,
			Title:           product.Title,
			CurrentQuantity: product.StockQuantity,
			LoggedQuantity:  total.TotalQuantity,
			Drift:           product.StockQuantity - total.TotalQuantity,
			TotalCost:       total.TotalCost,
		}
		report = append(report, entry)
		if entry.Drift > 0 {
			logger.Warn("Product holds stock with no purchase log entry", map[string]interface{}{
				"product_id": entry.ProductID,
				"current":    entry.CurrentQuantity,
				"logged":     entry.LoggedQuantity,
				"drift":      entry.Drift,
			})
		}
	}

	return report, nil
}

// BackfillLegacyStock writes one synthetic ledger entry per drifted
// product so pre-ledger stock gets a cost basis. The product's own buy
// price wins; the supplied default covers products without one.
func (s *purchaseLogService) BackfillLegacyStock(defaultBuyPrice float64) (int, error) {
	logger.Info("Backfilling purchase log for legacy stock", map[string]interface{}{
		"default_buy_price": defaultBuyPrice,
	})

	report, err := s.LegacyStockReport()
	if err != nil {
		return 0, err
	}

	backfilled := 0
	for _, entry := range report {
		if entry.Drift <= 0 {
			continue
		}

		product, err := s.productRepo.FindByID(entry.ProductID)
		if err != nil {
			logger.Error("Failed to load product during backfill", err, map[string]interface{}{
				"product_id": entry.ProductID,
			})
			continue
		}

		buyPrice := product.BuyPrice
		if buyPrice <= 0 {
			buyPrice = defaultBuyPrice
		}

		log := &model.PurchaseLog{
			ProductID: entry.ProductID,
			Quantity:  entry.Drift,
			BuyPrice:  buyPrice,
			TotalCost: float64(entry.Drift) * buyPrice,
			Note:      "legacy stock backfill",
		}
		if err := s.purchaseLogRepo.Create(log); err != nil {
			logger.Error("Failed to backfill purchase log entry", err, map[string]interface{}{
				"product_id": entry.ProductID,
			})
			continue
		}
		backfilled++
	}

	logger.Info("Legacy stock backfill finished", map[string]interface{}{
		"backfilled": backfilled,
	})
	return backfilled, nil
}

func (s *purchaseLogService) ExportReportExcel() ([]byte, error) {
	report, err := s.LegacyStockReport()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close excel file", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sheet := "Stock Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Product ID", "Title", "Current Quantity", "Logged Quantity", "Drift", "Total Cost"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, entry := range report {
		values := []interface{}{
			entry.ProductID,
			entry.Title,
			entry.CurrentQuantity,
			entry.LoggedQuantity,
			entry.Drift,
			entry.TotalCost,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize stock report: %w", err)
	}

	logger.Info("Stock report exported to excel", map[string]interface{}{
		"rows": len(report),
	})
	return buf.Bytes(), nil
}
