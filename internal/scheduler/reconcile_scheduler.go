package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/ttmai/velora-backend/internal/app/service"
	"github.com/ttmai/velora-backend/pkg/logger"
)

// ReconcileScheduler re-runs inventory reconciliation every night and
// logs purchase-log drift so aggregates that slipped out of step with
// warehouse records heal within a day.
type ReconcileScheduler struct {
	cron               *cron.Cron
	inventoryService   service.InventoryService
	purchaseLogService service.PurchaseLogService
}

func NewReconcileScheduler(
	inventoryService service.InventoryService,
	purchaseLogService service.PurchaseLogService,
) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:               cron.New(),
		inventoryService:   inventoryService,
		purchaseLogService: purchaseLogService,
	}
}

func (s *ReconcileScheduler) Start() error {
	// Nightly at 02:00, when order traffic is lowest.
	_, err := s.cron.AddFunc("0 2 * * *", func() {
		logger.Info("Starting scheduled inventory reconciliation", nil)

		reconciled, err := s.inventoryService.ReconcileAll()
		if err != nil {
			logger.Error("Scheduled inventory reconciliation failed", err)
		} else {
			logger.Info("Scheduled inventory reconciliation finished", map[string]interface{}{
				"reconciled": reconciled,
			})
		}

		report, err := s.purchaseLogService.LegacyStockReport()
		if err != nil {
			logger.Error("Scheduled stock drift report failed", err)
			return
		}

		drifted := 0
		for _, entry := range report {
			if entry.Drift != 0 {
				drifted++
			}
		}
		logger.Info("Scheduled stock drift report finished", map[string]interface{}{
			"products": len(report),
			"drifted":  drifted,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for inventory reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Inventory reconciliation scheduler started (daily at 2:00 AM)", nil)
	return nil
}

func (s *ReconcileScheduler) Stop() {
	logger.Info("Stopping inventory reconciliation scheduler...", nil)
	s.cron.Stop()
	logger.Info("Inventory reconciliation scheduler stopped", nil)
}
