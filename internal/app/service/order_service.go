package service

import (
	"errors"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
)

// CheckoutInput carries the shipping details collected at checkout.
type CheckoutInput struct {
	ShippingAddress string
	City            string
	PostalCode      string
	Country         string
	Phone           string
	Notes           string
}

type OrderService interface {
	Checkout(userID string, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID string) ([]model.Order, error)
	GetOrder(userID string, orderID uint) (*model.Order, error)
	CancelOrder(userID string, orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Checkout converts the user's cart into a pending order. Prices are read
// from the catalog at this moment and snapshotted onto the order items, so
// the client never supplies an amount. Order creation and cart clearing
// happen in one transaction.
func (s *orderService) Checkout(userID string, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	var totalAmount float64
	items := make([]model.OrderItem, 0, len(cartItems))

	for _, cartItem := range cartItems {
		product, err := s.productRepo.FindByID(cartItem.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Checkout rejected: product no longer exists", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product for checkout", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if !product.IsAvailable {
			logger.Warn("Checkout rejected: product unavailable", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, ErrProductUnavailable
		}

		productID := product.ID
		subtotal := product.Price * float64(cartItem.Quantity)
		totalAmount += subtotal

		items = append(items, model.OrderItem{
			ProductID:    &productID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     cartItem.Quantity,
			Subtotal:     subtotal,
		})
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		TotalAmount:     totalAmount,
		ShippingAddress: input.ShippingAddress,
		City:            input.City,
		PostalCode:      input.PostalCode,
		Country:         input.Country,
		Phone:           input.Phone,
		Notes:           input.Notes,
		Items:           items,
	}

	if err := s.orderRepo.CreateWithCartClear(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID string) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrder(userID string, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// CancelOrder lets the owner cancel an order that has not been paid or
// entered fulfillment.
func (s *orderService) CancelOrder(userID string, orderID uint) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.OrderStatusPending || order.PaymentStatus == model.PaymentStatusPaid {
		logger.Warn("Order cancellation rejected", map[string]interface{}{
			"order_id":       orderID,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		})
		return nil, ErrOrderNotCancelable
	}

	if err := s.orderRepo.UpdateStatus(orderID, model.OrderStatusCancelled); err != nil {
		logger.Error("Failed to cancel order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	order.Status = model.OrderStatusCancelled

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
	})
	return order, nil
}
