package repository

import (
	"time"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows back-office order listings.
type OrderFilter struct {
	Status model.OrderStatus
	UserID string
	Page   int
	Limit  int
}

type OrderRepository interface {
	CreateWithCartClear(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID string) ([]model.Order, error)
	FindByPaymentIntentID(paymentIntentID string) (*model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, int64, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	SetPaymentResult(id uint, paymentStatus model.PaymentStatus, orderStatus model.OrderStatus) error
	AttachPaymentIntent(id uint, paymentIntentID string) error
	CancelStalePending(before time.Time) (int64, error)
	GetStats() (map[string]interface{}, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items").Preload("Items.Product")
}

// CreateWithCartClear inserts the order with its items and empties the
// owner's cart in a single transaction. Either both happen or neither does.
func (r *orderRepository) CreateWithCartClear(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", order.UserID).
			Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID string) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindByPaymentIntentID(paymentIntentID string) (*model.Order, error) {
	logger.Debug("Finding order by payment intent in database", map[string]interface{}{
		"payment_intent_id": paymentIntentID,
	})

	var order model.Order
	if err := r.preloadOrder().Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error; err != nil {
		logger.Error("Failed to find order by payment intent in database", err, map[string]interface{}{
			"payment_intent_id": paymentIntentID,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"status": filter.Status,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	query := r.db.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err, nil)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var orders []model.Order
	if err := query.Preload("Items").Preload("Items.Product").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	return nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	return nil
}

// SetPaymentResult writes payment and fulfillment status together, as one
// update, so a webhook outcome can never land half applied.
func (r *orderRepository) SetPaymentResult(id uint, paymentStatus model.PaymentStatus, orderStatus model.OrderStatus) error {
	logger.Debug("Setting order payment result in database", map[string]interface{}{
		"order_id":       id,
		"payment_status": paymentStatus,
		"status":         orderStatus,
	})

	// An empty order status means the payment result does not move the
	// fulfillment state.
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
	}
	if orderStatus != "" {
		updates["status"] = orderStatus
	}

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Updates(updates).Error; err != nil {
		logger.Error("Failed to set order payment result in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	return nil
}

func (r *orderRepository) AttachPaymentIntent(id uint, paymentIntentID string) error {
	logger.Debug("Attaching payment intent to order in database", map[string]interface{}{
		"order_id":          id,
		"payment_intent_id": paymentIntentID,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("payment_intent_id", paymentIntentID).Error; err != nil {
		logger.Error("Failed to attach payment intent to order in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	return nil
}

// CancelStalePending cancels unpaid pending orders created before the
// cutoff and reports how many rows changed.
func (r *orderRepository) CancelStalePending(before time.Time) (int64, error) {
	logger.Debug("Cancelling stale pending orders in database", map[string]interface{}{
		"before": before,
	})

	result := r.db.Model(&model.Order{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			model.OrderStatusPending, model.PaymentStatusPending, before).
		Update("status", model.OrderStatusCancelled)
	if result.Error != nil {
		logger.Error("Failed to cancel stale pending orders in database", result.Error, nil)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *orderRepository) GetStats() (map[string]interface{}, error) {
	logger.Debug("Getting order statistics in database", nil)

	var totalOrders int64
	if err := r.db.Model(&model.Order{}).Count(&totalOrders).Error; err != nil {
		logger.Error("Failed to count total orders", err, nil)
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err, nil)
		return nil, err
	}

	ordersByStatus := map[string]int64{}
	for _, sc := range statusCounts {
		ordersByStatus[string(sc.Status)] = sc.Count
	}

	// Revenue counts paid orders only
	var revenueResult struct {
		TotalRevenue float64
	}
	if err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total_revenue").
		Where("payment_status = ?", model.PaymentStatusPaid).
		Scan(&revenueResult).Error; err != nil {
		logger.Error("Failed to calculate total revenue", err, nil)
		return nil, err
	}

	topProducts := []struct {
		ProductName string  `json:"product_name"`
		UnitsSold   int64   `json:"units_sold"`
		Revenue     float64 `json:"revenue"`
	}{}
	if err := r.db.Model(&model.OrderItem{}).
		Select("order_items.product_name, SUM(order_items.quantity) as units_sold, SUM(order_items.subtotal) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", model.PaymentStatusPaid).
		Group("order_items.product_name").
		Order("units_sold DESC").
		Limit(5).
		Scan(&topProducts).Error; err != nil {
		logger.Error("Failed to rank top products", err, nil)
		return nil, err
	}

	var recentOrders []model.Order
	if err := r.db.Model(&model.Order{}).
		Preload("User").
		Order("created_at DESC").
		Limit(10).
		Find(&recentOrders).Error; err != nil {
		logger.Error("Failed to fetch recent orders", err, nil)
		return nil, err
	}

	stats := map[string]interface{}{
		"total_orders":     totalOrders,
		"orders_by_status": ordersByStatus,
		"total_revenue":    revenueResult.TotalRevenue,
		"top_products":     topProducts,
		"recent_orders":    recentOrders,
	}

	logger.Debug("Order statistics retrieved in database", map[string]interface{}{
		"total_orders":  totalOrders,
		"total_revenue": revenueResult.TotalRevenue,
	})

	return stats, nil
}
