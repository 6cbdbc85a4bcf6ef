package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type WarehouseController struct {
	warehouseService service.WarehouseService
	inventoryService service.InventoryService
}

func NewWarehouseController(
	warehouseService service.WarehouseService,
	inventoryService service.InventoryService,
) *WarehouseController {
	return &WarehouseController{
		warehouseService: warehouseService,
		inventoryService: inventoryService,
	}
}

type WarehouseRequest struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

type UpdateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type AdjustInventoryRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Delta       *int   `json:"delta"`
	SetTo       *int   `json:"set_to"`
	Note        string `json:"note"`
}

// GetWarehouses lists warehouses (admin)
// GET /api/v1/admin/warehouses
func (ctrl *WarehouseController) GetWarehouses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	warehouses, err := ctrl.warehouseService.GetWarehouses()
	if err != nil {
		log.Error("Failed to fetch warehouses", err)
		apperrors.InternalError(c, "Failed to fetch warehouses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warehouses": warehouses,
	})
}

// CreateWarehouse creates a warehouse (admin)
// POST /api/v1/admin/warehouses
func (ctrl *WarehouseController) CreateWarehouse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid warehouse data")
		return
	}

	warehouse, err := ctrl.warehouseService.CreateWarehouse(req.Name, req.Code, req.Address, req.Phone, req.IsDefault)
	if err != nil {
		if errors.Is(err, service.ErrWarehouseCodeTaken) {
			apperrors.Conflict(c, apperrors.WarehouseCodeExists, "Warehouse code is already in use")
			return
		}
		log.Error("Failed to create warehouse", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "Failed to create warehouse")
		return
	}

	log.Info("Warehouse created", map[string]interface{}{
		"warehouse_id": warehouse.ID,
		"code":         warehouse.Code,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Warehouse created successfully",
		"warehouse": warehouse,
	})
}

// UpdateWarehouse updates warehouse details (admin)
// PUT /api/v1/admin/warehouses/:id
func (ctrl *WarehouseController) UpdateWarehouse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid warehouse data")
		return
	}

	warehouse, err := ctrl.warehouseService.UpdateWarehouse(id, req.Name, req.Address, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			apperrors.NotFound(c, apperrors.WarehouseNotFound, "Warehouse not found")
			return
		}
		log.Error("Failed to update warehouse", err, map[string]interface{}{
			"warehouse_id": id,
		})
		apperrors.InternalError(c, "Failed to update warehouse")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Warehouse updated successfully",
		"warehouse": warehouse,
	})
}

// SetDefaultWarehouse marks one warehouse as default (admin)
// PUT /api/v1/admin/warehouses/:id/default
func (ctrl *WarehouseController) SetDefaultWarehouse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.warehouseService.SetDefaultWarehouse(id); err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			apperrors.NotFound(c, apperrors.WarehouseNotFound, "Warehouse not found")
			return
		}
		log.Error("Failed to set default warehouse", err, map[string]interface{}{
			"warehouse_id": id,
		})
		apperrors.InternalError(c, "Failed to set default warehouse")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default warehouse updated",
	})
}

// DeleteWarehouse soft-deletes a warehouse (admin)
// DELETE /api/v1/admin/warehouses/:id
func (ctrl *WarehouseController) DeleteWarehouse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.warehouseService.DeleteWarehouse(id); err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			apperrors.NotFound(c, apperrors.WarehouseNotFound, "Warehouse not found")
			return
		}
		log.Error("Failed to delete warehouse", err, map[string]interface{}{
			"warehouse_id": id,
		})
		apperrors.InternalError(c, "Failed to delete warehouse")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse deleted",
	})
}

// GetWarehouseInventory lists a warehouse's inventory records (admin)
// GET /api/v1/admin/warehouses/:id/inventory
func (ctrl *WarehouseController) GetWarehouseInventory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	records, err := ctrl.inventoryService.ListByWarehouse(id)
	if err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			apperrors.NotFound(c, apperrors.WarehouseNotFound, "Warehouse not found")
			return
		}
		log.Error("Failed to fetch warehouse inventory", err, map[string]interface{}{
			"warehouse_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch warehouse inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inventory": records,
		"count":     len(records),
	})
}

// GetProductInventory lists a product's records across warehouses (admin)
// GET /api/v1/admin/inventory/products/:id
func (ctrl *WarehouseController) GetProductInventory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	records, err := ctrl.inventoryService.ListByProduct(id)
	if err != nil {
		log.Error("Failed to fetch product inventory", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inventory": records,
		"count":     len(records),
	})
}

// AdjustInventory changes one record and reconciles the product (admin)
// POST /api/v1/admin/inventory/adjust
func (ctrl *WarehouseController) AdjustInventory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid adjustment data")
		return
	}

	record, err := ctrl.inventoryService.Adjust(service.InventoryAdjustment{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Size:        req.Size,
		Color:       req.Color,
		Delta:       req.Delta,
		SetTo:       req.SetTo,
		Note:        req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAdjustment):
			apperrors.BadRequest(c, apperrors.InventoryAdjustment, "Set either a delta or an absolute quantity, not both")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrWarehouseNotFound):
			apperrors.NotFound(c, apperrors.WarehouseNotFound, "Warehouse not found")
		default:
			log.Error("Failed to adjust inventory", err, map[string]interface{}{
				"product_id":   req.ProductID,
				"warehouse_id": req.WarehouseID,
			})
			apperrors.InternalError(c, "Failed to adjust inventory")
		}
		return
	}

	log.Info("Inventory adjusted", map[string]interface{}{
		"inventory_id": record.ID,
		"quantity":     record.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Inventory adjusted",
		"inventory": record,
	})
}

// Reconcile re-runs the aggregate reconciliation sweep (admin)
// POST /api/v1/admin/inventory/reconcile
func (ctrl *WarehouseController) Reconcile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	reconciled, err := ctrl.inventoryService.ReconcileAll()
	if err != nil {
		log.Error("Reconciliation sweep failed", err)
		apperrors.InternalError(c, "Reconciliation sweep failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Reconciliation finished",
		"reconciled": reconciled,
	})
}
