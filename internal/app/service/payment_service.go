package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"github.com/mixtales/mixtales-backend/pkg/payment/stripe"
	"gorm.io/gorm"
)

var (
	ErrOrderAlreadyPaid    = errors.New("order is already paid")
	ErrOrderNotPayable     = errors.New("order is not payable")
	ErrUnknownPaymentEvent = errors.New("unhandled payment event type")
)

type PaymentService interface {
	CreateIntent(ctx context.Context, userID string, orderID uint) (*stripe.PaymentIntent, error)
	HandleWebhookEvent(event *stripe.Event) error
}

type paymentService struct {
	orderRepo repository.OrderRepository
	stripe    *stripe.Client
}

func NewPaymentService(orderRepo repository.OrderRepository, stripeClient *stripe.Client) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		stripe:    stripeClient,
	}
}

// CreateIntent creates a payment intent for an unpaid pending order owned
// by userID. The amount is taken from the order, never from the client.
func (s *paymentService) CreateIntent(ctx context.Context, userID string, orderID uint) (*stripe.PaymentIntent, error) {
	logger.Info("Creating payment intent", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found for payment", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for payment", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Payment intent denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	if order.PaymentStatus == model.PaymentStatusPaid {
		logger.Warn("Payment intent rejected: order already paid", map[string]interface{}{
			"order_id": orderID,
		})
		return nil, ErrOrderAlreadyPaid
	}
	if order.Status == model.OrderStatusCancelled {
		logger.Warn("Payment intent rejected: order cancelled", map[string]interface{}{
			"order_id": orderID,
		})
		return nil, ErrOrderNotPayable
	}

	// Minor units, rounded to guard against float representation drift
	amount := int64(math.Round(order.TotalAmount * 100))

	intent, err := s.stripe.CreatePaymentIntent(ctx, stripe.CreateIntentRequest{
		Amount: amount,
		Metadata: map[string]string{
			"order_id": strconv.FormatUint(uint64(order.ID), 10),
			"user_id":  order.UserID,
		},
	})
	if err != nil {
		logger.Error("Failed to create payment intent", err, map[string]interface{}{
			"order_id": orderID,
			"amount":   amount,
		})
		return nil, err
	}

	if err := s.orderRepo.AttachPaymentIntent(order.ID, intent.ID); err != nil {
		logger.Error("Failed to attach payment intent to order", err, map[string]interface{}{
			"order_id":          orderID,
			"payment_intent_id": intent.ID,
		})
		return nil, err
	}

	logger.Info("Payment intent created", map[string]interface{}{
		"order_id":          orderID,
		"payment_intent_id": intent.ID,
		"amount":            amount,
	})
	return intent, nil
}

// HandleWebhookEvent applies a verified gateway event to the matching
// order. Status writes are absolute assignments, so replayed events settle
// on the same state.
func (s *paymentService) HandleWebhookEvent(event *stripe.Event) error {
	logger.Info("Handling payment webhook event", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	var paymentStatus model.PaymentStatus
	var orderStatus model.OrderStatus
	switch event.Type {
	case stripe.EventPaymentIntentSucceeded:
		paymentStatus = model.PaymentStatusPaid
		orderStatus = model.OrderStatusProcessing
	case stripe.EventPaymentIntentFailed:
		// Only the payment side moves. A late failed event must not
		// drag an already-processing order back to pending.
		paymentStatus = model.PaymentStatusFailed
	default:
		logger.Debug("Ignoring payment event type", map[string]interface{}{
			"event_type": event.Type,
		})
		return ErrUnknownPaymentEvent
	}

	order, err := s.findEventOrder(event)
	if err != nil {
		return err
	}

	if err := s.orderRepo.SetPaymentResult(order.ID, paymentStatus, orderStatus); err != nil {
		logger.Error("Failed to apply payment result", err, map[string]interface{}{
			"order_id": order.ID,
			"event_id": event.ID,
		})
		return err
	}

	logger.Info("Payment webhook applied", map[string]interface{}{
		"order_id":       order.ID,
		"event_id":       event.ID,
		"payment_status": paymentStatus,
		"status":         orderStatus,
	})
	return nil
}

// findEventOrder resolves the order by stored intent ID first, falling
// back to the order_id metadata the intent was created with.
func (s *paymentService) findEventOrder(event *stripe.Event) (*model.Order, error) {
	intent := event.Data.Object

	order, err := s.orderRepo.FindByPaymentIntentID(intent.ID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up order by payment intent", err, map[string]interface{}{
			"payment_intent_id": intent.ID,
		})
		return nil, err
	}

	rawOrderID := intent.Metadata["order_id"]
	orderID, parseErr := strconv.ParseUint(rawOrderID, 10, 64)
	if parseErr != nil || orderID == 0 {
		logger.Warn("Webhook event matches no order", map[string]interface{}{
			"event_id":          event.ID,
			"payment_intent_id": intent.ID,
		})
		return nil, ErrOrderNotFound
	}

	order, err = s.orderRepo.FindByID(uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
