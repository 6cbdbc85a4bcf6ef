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

type orderFixture struct {
	orders   OrderService
	cart     CartService
	checkout CheckoutService
	user     *model.User
	product  *model.Product
	db       *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	stockService := NewStockService(testDB)
	cartService := NewCartService(cartRepo, productRepo, stockService)
	checkoutService := NewCheckoutService(cartRepo, orderRepo, nil, nil, testDB)
	orderService := NewOrderService(orderRepo, stockService, testDB)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Title:         "Canvas Tote",
		Price:         30,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return &orderFixture{
		orders:   orderService,
		cart:     cartService,
		checkout: checkoutService,
		user:     user,
		product:  product,
		db:       testDB,
	}
}

// placeOrder runs the reserve-then-materialize path so every order in
// these tests has real reservations behind its lines.
func (f *orderFixture) placeOrder(t *testing.T, quantity int) *model.Order {
	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, "", "", quantity)
	require.NoError(t, err)

	order, err := f.checkout.CheckoutCash(f.user.ID, CheckoutInput{
		Name:    "Buyer Name",
		Email:   "buyer@example.com",
		Phone:   "0123456789",
		Address: "1 Main Street",
	})
	require.NoError(t, err)
	return order
}

func TestOrderService_GetOrderByID_OwnershipEnforced(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 1)

	got, err := f.orders.GetOrderByID(f.user.ID, order.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another user cannot see it, an admin can
	_, err = f.orders.GetOrderByID(f.user.ID+1, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	got, err = f.orders.GetOrderByID(f.user.ID+1, order.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_MarkDelivered_SettlesPayment(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 2)

	err := f.orders.MarkDelivered(order.ID)
	assert.NoError(t, err)

	got, err := f.orders.GetOrderByID(f.user.ID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusDelivered, got.DeliveryStatus)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	// Delivered is terminal
	assert.ErrorIs(t, f.orders.MarkDelivered(order.ID), ErrOrderAlreadyDelivered)
}

func TestOrderService_CancelOrder_RestoresStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 4)
	require.Equal(t, 6, productStock(t, f.db, f.product.ID))

	err := f.orders.CancelOrder(order.ID)
	assert.NoError(t, err)

	got, _ := f.orders.GetOrderByID(f.user.ID, order.ID, false)
	assert.Equal(t, model.DeliveryStatusCancelled, got.DeliveryStatus)
	assert.Equal(t, 10, productStock(t, f.db, f.product.ID))
}

func TestOrderService_CancelOrder_ReCancelDoesNotDoubleRestore(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 4)

	require.NoError(t, f.orders.CancelOrder(order.ID))
	assert.ErrorIs(t, f.orders.CancelOrder(order.ID), ErrOrderAlreadyCancelled)

	// Stock restored exactly once
	assert.Equal(t, 10, productStock(t, f.db, f.product.ID))
}

func TestOrderService_CancelOrder_BlocksDelivery(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 1)

	require.NoError(t, f.orders.CancelOrder(order.ID))
	assert.ErrorIs(t, f.orders.MarkDelivered(order.ID), ErrOrderAlreadyCancelled)
}

func TestOrderService_DeleteOrderItem_RestoresAndRecomputes(t *testing.T) {
	f := setupOrderServiceTest(t)

	other := &model.Product{Title: "Baseball Cap", Price: 15, StockQuantity: 5}
	require.NoError(t, f.db.Create(other).Error)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, "", "", 2)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(f.user.ID, other.ID, "", "", 1)
	require.NoError(t, err)

	order, err := f.checkout.CheckoutCash(f.user.ID, CheckoutInput{
		Name: "Buyer Name", Email: "buyer@example.com",
		Phone: "0123456789", Address: "1 Main Street",
	})
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 2)
	require.Equal(t, 75.0, order.TotalMoney)

	var target model.OrderItem
	require.NoError(t, f.db.
		Where("order_id = ? AND product_id = ?", order.ID, f.product.ID).
		First(&target).Error)

	err = f.orders.DeleteOrderItem(order.ID, target.ID)
	assert.NoError(t, err)

	// The removed line's stock is back, the total covers the survivor
	assert.Equal(t, 10, productStock(t, f.db, f.product.ID))

	got, err := f.orders.GetOrderByID(f.user.ID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.TotalMoney)
	assert.Len(t, got.OrderItems, 1)
}

func TestOrderService_DeleteOrderItem_LastLineDeletesOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 3)

	var item model.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&item).Error)

	err := f.orders.DeleteOrderItem(order.ID, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, productStock(t, f.db, f.product.ID))

	_, err = f.orders.GetOrderByID(f.user.ID, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_DeleteOrderItem_CancelledOrderSkipsRestore(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 2)

	require.NoError(t, f.orders.CancelOrder(order.ID))
	require.Equal(t, 10, productStock(t, f.db, f.product.ID))

	var item model.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&item).Error)

	err := f.orders.DeleteOrderItem(order.ID, item.ID)
	assert.NoError(t, err)

	// Cancellation already restored these units; no double restore
	assert.Equal(t, 10, productStock(t, f.db, f.product.ID))
}

func TestOrderService_DeleteOrderItem_WrongOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	first := f.placeOrder(t, 1)
	second := f.placeOrder(t, 1)

	var item model.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", first.ID).First(&item).Error)

	err := f.orders.DeleteOrderItem(second.ID, item.ID)
	assert.ErrorIs(t, err, ErrOrderItemNotFound)
}

func TestOrderService_DeleteOrder_NoRestore(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.placeOrder(t, 3)
	require.Equal(t, 7, productStock(t, f.db, f.product.ID))

	err := f.orders.DeleteOrder(order.ID)
	assert.NoError(t, err)

	// Purge, not cancel: stock stays consumed
	assert.Equal(t, 7, productStock(t, f.db, f.product.ID))

	_, err = f.orders.GetOrderByID(f.user.ID, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var itemCount int64
	f.db.Unscoped().Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)
}
