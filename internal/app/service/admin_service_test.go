package service

import (
	"bytes"
	"testing"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (AdminService, *model.Profile, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)
	adminService := NewAdminService(orderRepo, productRepo, profileRepo)

	user := &model.Profile{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "customer@example.com",
		FullName: "Customer One",
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	return adminService, user, testDB
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID string, status model.OrderStatus, paymentStatus model.PaymentStatus, amount float64) *model.Order {
	order := &model.Order{
		UserID:          userID,
		Status:          status,
		PaymentStatus:   paymentStatus,
		TotalAmount:     amount,
		ShippingAddress: "12 Mixology Lane",
		City:            "Lisbon",
		PostalCode:      "1000-001",
		Country:         "PT",
		Phone:           "+351912345678",
		Items: []model.OrderItem{
			{ProductName: "Negroni", ProductPrice: amount, Quantity: 1, Subtotal: amount},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestAdminService_ListOrders(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	seedOrder(t, testDB, user.ID, model.OrderStatusPending, model.PaymentStatusPending, 14.5)
	seedOrder(t, testDB, user.ID, model.OrderStatusProcessing, model.PaymentStatusPaid, 29.0)

	orders, total, err := adminService.ListOrders(repository.OrderFilter{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}

func TestAdminService_ListOrders_StatusFilter(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	seedOrder(t, testDB, user.ID, model.OrderStatusPending, model.PaymentStatusPending, 14.5)
	seedOrder(t, testDB, user.ID, model.OrderStatusProcessing, model.PaymentStatusPaid, 29.0)

	orders, total, err := adminService.ListOrders(repository.OrderFilter{
		Status: model.OrderStatusProcessing,
		Page:   1,
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusProcessing, orders[0].Status)
}

func TestAdminService_ListOrders_InvalidStatus(t *testing.T) {
	adminService, _, _ := setupAdminServiceTest(t)

	_, _, err := adminService.ListOrders(repository.OrderFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestAdminService_GetOrder_NotFound(t *testing.T) {
	adminService, _, _ := setupAdminServiceTest(t)

	_, err := adminService.GetOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	order := seedOrder(t, testDB, user.ID, model.OrderStatusProcessing, model.PaymentStatusPaid, 14.5)

	updated, err := adminService.UpdateOrderStatus(order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
}

func TestAdminService_UpdateOrderStatus_IllegalJump(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	order := seedOrder(t, testDB, user.ID, model.OrderStatusPending, model.PaymentStatusPending, 14.5)

	// Pending cannot jump straight to delivered
	_, err := adminService.UpdateOrderStatus(order.ID, model.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestAdminService_UpdateOrderStatus_TerminalState(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	order := seedOrder(t, testDB, user.ID, model.OrderStatusDelivered, model.PaymentStatusPaid, 14.5)

	_, err := adminService.UpdateOrderStatus(order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestAdminService_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	order := seedOrder(t, testDB, user.ID, model.OrderStatusPending, model.PaymentStatusPending, 14.5)

	_, err := adminService.UpdateOrderStatus(order.ID, "teleported")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestAdminService_GetStats(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	seedOrder(t, testDB, user.ID, model.OrderStatusPending, model.PaymentStatusPending, 14.5)
	seedOrder(t, testDB, user.ID, model.OrderStatusProcessing, model.PaymentStatusPaid, 29.0)

	category := &model.Category{Name: "Classics", Slug: "classics"}
	testDB.Create(category)
	testDB.Create(&model.Product{Name: "Negroni", Price: 14.5, CategoryID: category.ID, IsAvailable: true})

	stats, err := adminService.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats["total_orders"])
	// Revenue counts paid orders only
	assert.Equal(t, 29.0, stats["total_revenue"])
	assert.Equal(t, int64(1), stats["total_products"])
	assert.Equal(t, int64(1), stats["total_customers"])
	assert.Contains(t, stats, "orders_by_status")
	assert.Contains(t, stats, "top_products")

	recent := stats["recent_orders"].([]model.Order)
	assert.Len(t, recent, 2)
}

func TestAdminService_ListUsers(t *testing.T) {
	adminService, _, testDB := setupAdminServiceTest(t)

	testDB.Create(&model.Profile{
		ID:    "22222222-2222-2222-2222-222222222222",
		Email: "second@example.com",
		Role:  model.RoleUser,
	})

	users, total, err := adminService.ListUsers(1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)
}

func TestAdminService_UpdateUserRole(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	profile, err := adminService.UpdateUserRole(user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, profile.Role)

	var stored model.Profile
	testDB.First(&stored, "id = ?", user.ID)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestAdminService_UpdateUserRole_InvalidRole(t *testing.T) {
	adminService, user, _ := setupAdminServiceTest(t)

	_, err := adminService.UpdateUserRole(user.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminService_UpdateUserRole_UnknownUser(t *testing.T) {
	adminService, _, _ := setupAdminServiceTest(t)

	_, err := adminService.UpdateUserRole("ghost-uuid", model.RoleAdmin)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAdminService_ExportOrders(t *testing.T) {
	adminService, user, testDB := setupAdminServiceTest(t)

	seedOrder(t, testDB, user.ID, model.OrderStatusProcessing, model.PaymentStatusPaid, 29.0)

	data, err := adminService.ExportOrders(repository.OrderFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// The workbook opens and carries a header plus one data row
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Customer One", rows[1][2])
	assert.Equal(t, "paid", rows[1][5])
}

func TestAdminService_ExportOrders_InvalidStatus(t *testing.T) {
	adminService, _, _ := setupAdminServiceTest(t)

	_, err := adminService.ExportOrders(repository.OrderFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
