package repository

import (
	"testing"
	"time"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (OrderRepository, *model.Profile, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := NewOrderRepository(testDB)

	user := &model.Profile{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "test@example.com",
		FullName: "Test User",
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	return orderRepo, user, testDB
}

func newTestOrder(userID string) *model.Order {
	return &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		TotalAmount:     14.5,
		ShippingAddress: "12 Mixology Lane",
		City:            "Lisbon",
		PostalCode:      "1000-001",
		Country:         "PT",
		Phone:           "+351912345678",
		Items: []model.OrderItem{
			{ProductName: "Negroni", ProductPrice: 14.5, Quantity: 1, Subtotal: 14.5},
		},
	}
}

func TestOrderRepository_CreateWithCartClear(t *testing.T) {
	orderRepo, user, testDB := setupOrderRepositoryTest(t)

	category := &model.Category{Name: "Classics", Slug: "classics"}
	testDB.Create(category)
	product := &model.Product{Name: "Negroni", Price: 14.5, CategoryID: category.ID, IsAvailable: true}
	testDB.Create(product)
	testDB.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	order := newTestOrder(user.ID)
	require.NoError(t, orderRepo.CreateWithCartClear(order))
	assert.NotZero(t, order.ID)

	var cartCount int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)
}

func TestOrderRepository_FindByID_PreloadsItemProducts(t *testing.T) {
	orderRepo, user, testDB := setupOrderRepositoryTest(t)

	category := &model.Category{Name: "Classics", Slug: "classics"}
	testDB.Create(category)
	product := &model.Product{Name: "Negroni", Price: 14.5, CategoryID: category.ID, IsAvailable: true}
	testDB.Create(product)

	order := newTestOrder(user.ID)
	order.Items[0].ProductID = &product.ID
	require.NoError(t, testDB.Create(order).Error)

	found, err := orderRepo.FindByID(order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Negroni", found.Items[0].Product.Name)
}

func TestOrderRepository_CancelStalePending(t *testing.T) {
	orderRepo, user, testDB := setupOrderRepositoryTest(t)

	stale := newTestOrder(user.ID)
	require.NoError(t, testDB.Create(stale).Error)
	testDB.Model(&model.Order{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-2*time.Hour))

	fresh := newTestOrder(user.ID)
	require.NoError(t, testDB.Create(fresh).Error)

	paid := newTestOrder(user.ID)
	require.NoError(t, testDB.Create(paid).Error)
	testDB.Model(&model.Order{}).Where("id = ?", paid.ID).Updates(map[string]interface{}{
		"created_at":     time.Now().Add(-2 * time.Hour),
		"payment_status": model.PaymentStatusPaid,
		"status":         model.OrderStatusProcessing,
	})

	cancelled, err := orderRepo.CancelStalePending(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	var staleStored, freshStored, paidStored model.Order
	testDB.First(&staleStored, stale.ID)
	testDB.First(&freshStored, fresh.ID)
	testDB.First(&paidStored, paid.ID)

	assert.Equal(t, model.OrderStatusCancelled, staleStored.Status)
	assert.Equal(t, model.OrderStatusPending, freshStored.Status)
	assert.Equal(t, model.OrderStatusProcessing, paidStored.Status)
}

func TestOrderRepository_FindByPaymentIntentID(t *testing.T) {
	orderRepo, user, testDB := setupOrderRepositoryTest(t)

	order := newTestOrder(user.ID)
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, orderRepo.AttachPaymentIntent(order.ID, "pi_abc"))

	found, err := orderRepo.FindByPaymentIntentID("pi_abc")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = orderRepo.FindByPaymentIntentID("pi_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_SetPaymentResult(t *testing.T) {
	orderRepo, user, testDB := setupOrderRepositoryTest(t)

	order := newTestOrder(user.ID)
	require.NoError(t, testDB.Create(order).Error)

	require.NoError(t, orderRepo.SetPaymentResult(order.ID, model.PaymentStatusPaid, model.OrderStatusProcessing))

	var stored model.Order
	testDB.First(&stored, order.ID)
	assert.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, stored.Status)
}
