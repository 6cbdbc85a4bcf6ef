package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type PurchaseController struct {
	purchaseLogService service.PurchaseLogService
}

func NewPurchaseController(purchaseLogService service.PurchaseLogService) *PurchaseController {
	return &PurchaseController{purchaseLogService: purchaseLogService}
}

type BackfillRequest struct {
	DefaultBuyPrice float64 `json:"default_buy_price" binding:"gte=0"`
}

// GetPurchaseLogs lists the cost ledger (admin)
// GET /api/v1/admin/purchase-logs
func (ctrl *PurchaseController) GetPurchaseLogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	logs, err := ctrl.purchaseLogService.GetLogs()
	if err != nil {
		log.Error("Failed to fetch purchase logs", err)
		apperrors.InternalError(c, "Failed to fetch purchase logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_logs": logs,
		"count":         len(logs),
	})
}

// GetProductPurchaseLogs lists one product's ledger entries (admin)
// GET /api/v1/admin/purchase-logs/products/:id
func (ctrl *PurchaseController) GetProductPurchaseLogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := ctrl.purchaseLogService.GetLogsByProduct(id)
	if err != nil {
		log.Error("Failed to fetch product purchase logs", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch purchase logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_logs": logs,
		"count":         len(logs),
	})
}

// StockReport compares logged acquisitions with current stock (admin)
// GET /api/v1/admin/purchase-logs/report
func (ctrl *PurchaseController) StockReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	report, err := ctrl.purchaseLogService.LegacyStockReport()
	if err != nil {
		log.Error("Failed to build stock report", err)
		apperrors.InternalError(c, "Failed to build stock report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"count":  len(report),
	})
}

// Backfill writes synthetic ledger entries for drifted products (admin)
// POST /api/v1/admin/purchase-logs/backfill
func (ctrl *PurchaseController) Backfill(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid backfill data")
		return
	}

	backfilled, err := ctrl.purchaseLogService.BackfillLegacyStock(req.DefaultBuyPrice)
	if err != nil {
		log.Error("Failed to backfill legacy stock", err)
		apperrors.InternalError(c, "Failed to backfill legacy stock")
		return
	}

	log.Info("Legacy stock backfilled", map[string]interface{}{
		"backfilled": backfilled,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Legacy stock backfilled",
		"backfilled": backfilled,
	})
}

// ExportReport streams the stock report as an Excel workbook (admin)
// GET /api/v1/admin/purchase-logs/report/export
func (ctrl *PurchaseController) ExportReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.purchaseLogService.ExportReportExcel()
	if err != nil {
		log.Error("Failed to export stock report", err)
		apperrors.InternalError(c, "Failed to export stock report")
		return
	}

	filename := fmt.Sprintf("stock-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
