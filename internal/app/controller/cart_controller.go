package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/internal/app/service"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type QuickAddRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the user's cart with prices reconciled
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	var total float64
	for _, item := range cartItems {
		total += item.TotalPrice
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"count":      len(cartItems),
		"total":      total,
	})
}

// AddToCart reserves stock and adds a line to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, req.ProductID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": item.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to cart successfully",
		"cart_item": item,
	})
}

// QuickAdd is the storefront one-click add: a single unit of a variant
// POST /api/v1/cart/quick-add
func (ctrl *CartController) QuickAdd(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req QuickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Size, req.Color, 1)
	if err != nil {
		ctrl.respondCartError(c, err, req.ProductID)
		return
	}

	log.Info("Quick add to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": item.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to cart successfully",
		"cart_item": item,
	})
}

// UpdateCartItem changes a line's quantity; zero removes the line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
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

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.cartService.UpdateCartItem(userID, id, *req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, "Quantity must not be negative")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.InsufficientStock, "Insufficient stock")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": id,
			})
			apperrors.InternalError(c, "Failed to update cart item")
		}
		return
	}

	log.Info("Cart item updated", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
	})
}

// RemoveFromCart releases a line's stock and deletes it
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
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

	if err := ctrl.cartService.RemoveFromCart(userID, id); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"cart_item_id": id,
		})
		apperrors.InternalError(c, "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
	})
}

// ClearCart releases and removes every line
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, productID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrVariantNotFound):
		apperrors.BadRequest(c, apperrors.VariantNotFound, "Product variant not found")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.InsufficientStock, "Insufficient stock")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, "Quantity must be positive")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Cart operation failed")
	}
}
