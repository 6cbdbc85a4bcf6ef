package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
	"github.com/ttmai/velora-backend/pkg/payment/card"
)

type OrderController struct {
	orderService    service.OrderService
	checkoutService service.CheckoutService
}

func NewOrderController(orderService service.OrderService, checkoutService service.CheckoutService) *OrderController {
	return &OrderController{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

type CheckoutRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type CardCheckoutRequest struct {
	CheckoutRequest
	CardToken string `json:"card_token" binding:"required"`
}

// Checkout materializes the cart into a cash-on-delivery order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	order, err := ctrl.checkoutService.CheckoutCash(userID, service.CheckoutInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	log.Info("Cash order created", map[string]interface{}{
		"user_id":    userID,
		"order_id":   order.ID,
		"order_code": order.OrderCode,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// CheckoutCard charges the card first, then materializes the order
// POST /api/v1/orders/checkout/card
func (ctrl *OrderController) CheckoutCard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CardCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	order, err := ctrl.checkoutService.CheckoutCard(c.Request.Context(), userID, service.CheckoutInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}, req.CardToken)
	if err != nil {
		if errors.Is(err, card.ErrChargeDeclined) {
			log.Warn("Card charge declined", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.PaymentDeclined, "Card payment was declined")
			return
		}
		ctrl.respondCheckoutError(c, err)
		return
	}

	log.Info("Card order created", map[string]interface{}{
		"user_id":    userID,
		"order_id":   order.ID,
		"order_code": order.OrderCode,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetMyOrders lists the user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order, owner or admin only
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	order, err := ctrl.orderService.GetOrderByID(userID, id, role == model.RoleAdmin)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetAllOrders lists every order (admin)
// GET /api/v1/admin/orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.GetAllOrders()
	if err != nil {
		log.Error("Failed to fetch all orders", err)
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// MarkDelivered transitions an order to Delivered and settles payment (admin)
// PUT /api/v1/orders/:id/deliver
func (ctrl *OrderController) MarkDelivered(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.MarkDelivered(id); err != nil {
		ctrl.respondLifecycleError(c, err, id)
		return
	}

	log.Info("Order marked delivered", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as delivered",
	})
}

// CancelOrder cancels an order and restores its stock (admin)
// PUT /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.CancelOrder(id); err != nil {
		ctrl.respondLifecycleError(c, err, id)
		return
	}

	log.Info("Order cancelled", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled and stock restored",
	})
}

// DeleteOrderItem removes one line, restoring its stock (admin)
// DELETE /api/v1/orders/:id/items/:itemId
func (ctrl *OrderController) DeleteOrderItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrderItem(orderID, itemID); err != nil {
		if errors.Is(err, service.ErrOrderItemNotFound) {
			apperrors.NotFound(c, apperrors.OrderLineNotFound, "Order line not found")
			return
		}
		ctrl.respondLifecycleError(c, err, orderID)
		return
	}

	log.Info("Order line deleted", map[string]interface{}{
		"order_id":      orderID,
		"order_item_id": itemID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order line deleted",
	})
}

// DeleteOrder purges an order without restoring stock (admin)
// DELETE /api/v1/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		ctrl.respondLifecycleError(c, err, id)
		return
	}

	log.Info("Order hard deleted", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted",
	})
}

func (ctrl *OrderController) respondCheckoutError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
	case errors.Is(err, service.ErrInvalidRecipientName):
		apperrors.BadRequest(c, apperrors.ValidationInvalidName, "Recipient name must contain only letters and spaces")
	case errors.Is(err, service.ErrInvalidOrderTotal):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Order total must be positive")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.BadRequest(c, apperrors.ProductNotFound, "A product in the cart no longer exists")
	default:
		log.Error("Checkout failed", err)
		apperrors.InternalError(c, "Checkout failed")
	}
}

func (ctrl *OrderController) respondLifecycleError(c *gin.Context, err error, orderID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrOrderAlreadyCancelled):
		apperrors.Conflict(c, apperrors.OrderAlreadyCancelled, "Order is already cancelled")
	case errors.Is(err, service.ErrOrderAlreadyDelivered):
		apperrors.Conflict(c, apperrors.OrderAlreadyDelivered, "Order is already delivered")
	default:
		log.Error("Order lifecycle operation failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "Order operation failed")
	}
}
