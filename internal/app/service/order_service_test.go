package service

import (
	"testing"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *model.Profile, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.Profile{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "test@example.com",
		FullName: "Test User",
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{
		Name: "Classics",
		Slug: "classics",
	}
	testDB.Create(category)

	product := &model.Product{
		Name:        "Old Fashioned",
		Price:       13.0,
		CategoryID:  category.ID,
		Stock:       20,
		IsAvailable: true,
	}
	testDB.Create(product)

	return orderService, cartService, user, product, testDB
}

func testCheckoutInput() CheckoutInput {
	return CheckoutInput{
		ShippingAddress: "12 Mixology Lane",
		City:            "Lisbon",
		PostalCode:      "1000-001",
		Country:         "PT",
		Phone:           "+351912345678",
	}
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	_, err := orderService.Checkout(user.ID, testCheckoutInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_Success(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	order, err := orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 39.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.Name, order.Items[0].ProductName)
	assert.Equal(t, product.Price, order.Items[0].ProductPrice)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 39.0, order.Items[0].Subtotal)

	// Cart is emptied in the same transaction
	items, err := cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 0)

	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOrderService_Checkout_PriceSnapshot(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	order, err := orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	// A later catalog price change does not touch the order
	testDB.Model(product).Update("price", 99.0)

	fetched, err := orderService.GetOrder(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 13.0, fetched.Items[0].ProductPrice)
	assert.Equal(t, 13.0, fetched.TotalAmount)
}

func TestOrderService_Checkout_UnavailableProduct(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	testDB.Model(product).Update("is_available", false)

	_, err = orderService.Checkout(user.ID, testCheckoutInput())
	assert.ErrorIs(t, err, ErrProductUnavailable)

	// Cart survives a failed checkout
	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	orders, err := orderService.GetUserOrders(user.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 0)

	cartService.AddToCart(user.ID, product.ID, 1)
	_, err = orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	orders, err = orderService.GetUserOrders(user.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	_, err := orderService.GetOrder(user.ID, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetOrder_WrongUser(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	cartService.AddToCart(user.ID, product.ID, 1)
	order, err := orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	_, err = orderService.GetOrder("22222222-2222-2222-2222-222222222222", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_CancelOrder_Success(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	cartService.AddToCart(user.ID, product.ID, 1)
	order, err := orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	cancelled, err := orderService.CancelOrder(user.ID, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
}

func TestOrderService_CancelOrder_AlreadyPaid(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	cartService.AddToCart(user.ID, product.ID, 1)
	order, err := orderService.Checkout(user.ID, testCheckoutInput())
	require.NoError(t, err)

	testDB.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
		"status":         model.OrderStatusProcessing,
	})

	_, err = orderService.CancelOrder(user.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)
}
