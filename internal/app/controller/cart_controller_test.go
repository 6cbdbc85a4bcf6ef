package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/app/service"
	"github.com/ttmai/velora-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, service.CartService, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	stockService := service.NewStockService(testDB)
	cartService := service.NewCartService(cartRepo, productRepo, stockService)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Title:         "Test Shirt",
		Price:         75,
		StockQuantity: 10,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, cartService, router, testDB, user, product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func TestCartController_GetCart_Success(t *testing.T) {
	controller, cartService, router, _, user, product := setupCartControllerTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "", "", 2)
	require.NoError(t, err)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, float64(150), response["total"]) // 75 * 2
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, float64(0), response["total"])
}

func TestCartController_GetCart_Unauthorized(t *testing.T) {
	controller, _, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Authentication required", response["message"])
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, _, router, testDB, user, product := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: product.ID,
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Item added to cart successfully", response["message"])

	// Adding to the cart reserves the stock
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 8, updated.StockQuantity)
}

func TestCartController_AddToCart_Unauthorized(t *testing.T) {
	controller, _, router, _, _, product := setupCartControllerTest(t)

	router.POST("/cart", controller.AddToCart)

	reqBody := AddToCartRequest{
		ProductID: product.ID,
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: 9999,
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Product not found", response["message"])
}

func TestCartController_AddToCart_InsufficientStock(t *testing.T) {
	controller, _, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: product.ID,
		Quantity:  100, // Exceeds stock
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Insufficient stock", response["message"])
}

func TestCartController_AddToCart_InvalidRequest(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	tests := []struct {
		name    string
		reqBody map[string]interface{}
	}{
		{
			name:    "Missing product_id",
			reqBody: map[string]interface{}{"quantity": 2},
		},
		{
			name:    "Missing quantity",
			reqBody: map[string]interface{}{"product_id": 1},
		},
		{
			name:    "Zero quantity",
			reqBody: map[string]interface{}{"product_id": 1, "quantity": 0},
		},
		{
			name:    "Negative quantity",
			reqBody: map[string]interface{}{"product_id": 1, "quantity": -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, "Invalid request data", response["message"])
		})
	}
}

func TestCartController_QuickAdd_SingleUnit(t *testing.T) {
	controller, _, router, testDB, user, product := setupCartControllerTest(t)

	router.POST("/cart/quick-add", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.QuickAdd(c)
	})

	reqBody := QuickAddRequest{ProductID: product.ID}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart/quick-add", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var item model.CartItem
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&item).Error)
	assert.Equal(t, 1, item.Quantity)
}

func TestCartController_UpdateCartItem_Success(t *testing.T) {
	controller, cartService, router, _, user, product := setupCartControllerTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "", "", 2)
	require.NoError(t, err)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	quantity := 5
	reqBody := UpdateCartRequest{Quantity: &quantity}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item updated successfully", response["message"])
}

func TestCartController_UpdateCartItem_NotFound(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	quantity := 5
	reqBody := UpdateCartRequest{Quantity: &quantity}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/cart/9999", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item not found", response["message"])
}

func TestCartController_UpdateCartItem_InvalidID(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	quantity := 5
	reqBody := UpdateCartRequest{Quantity: &quantity}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/cart/invalid", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateCartItem_InsufficientStock(t *testing.T) {
	controller, cartService, router, _, user, product := setupCartControllerTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "", "", 2)
	require.NoError(t, err)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	quantity := 100 // Exceeds stock
	reqBody := UpdateCartRequest{Quantity: &quantity}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Insufficient stock", response["message"])
}

func TestCartController_RemoveFromCart_Success(t *testing.T) {
	controller, cartService, router, testDB, user, product := setupCartControllerTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "", "", 2)
	require.NoError(t, err)

	router.DELETE("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveFromCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cart/%d", item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Removing the line releases the reservation
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestCartController_RemoveFromCart_NotFound(t *testing.T) {
	controller, _, router, _, user, _ := setupCartControllerTest(t)

	router.DELETE("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveFromCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_ClearCart_Success(t *testing.T) {
	controller, cartService, router, testDB, user, product := setupCartControllerTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "", "", 2)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, product.ID, "", "", 3)
	require.NoError(t, err)

	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ClearCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cartRepo := repository.NewCartRepository(testDB)
	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 0)

	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestCartController_ClearCart_Unauthorized(t *testing.T) {
	controller, _, router, _, _, _ := setupCartControllerTest(t)

	router.DELETE("/cart", controller.ClearCart)

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
