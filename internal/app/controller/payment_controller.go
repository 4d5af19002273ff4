package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
	"github.com/mixtales/mixtales-backend/pkg/payment/stripe"
)

type PaymentController struct {
	paymentService service.PaymentService
	stripeClient   *stripe.Client
}

func NewPaymentController(paymentService service.PaymentService, stripeClient *stripe.Client) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		stripeClient:   stripeClient,
	}
}

type CreateIntentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreateIntent creates a payment intent for an order and returns its
// client secret for the frontend to confirm.
// POST /api/payments/intent
func (ctrl *PaymentController) CreateIntent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized payment intent attempt", nil)
		appErrors.Unauthorized(c, "")
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid payment intent request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	intent, err := ctrl.paymentService.CreateIntent(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			appErrors.NotFound(c, appErrors.OrderNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrOrderAlreadyPaid) {
			appErrors.BadRequest(c, appErrors.OrderAlreadyPaid, "Order is already paid")
			return
		}
		if errors.Is(err, service.ErrOrderNotPayable) {
			appErrors.BadRequest(c, appErrors.OrderInvalidTransition, "Order is not payable")
			return
		}
		log.Error("Failed to create payment intent", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": req.OrderID,
		})
		appErrors.RespondWithError(c, http.StatusBadGateway, appErrors.PaymentIntentFailed, "Failed to create payment intent")
		return
	}

	log.Info("Payment intent created", map[string]interface{}{
		"user_id":           userID,
		"order_id":          req.OrderID,
		"payment_intent_id": intent.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"payment_intent_id": intent.ID,
			"client_secret":     intent.ClientSecret,
			"amount":            intent.Amount,
			"currency":          intent.Currency,
		},
	})
}

// Webhook receives gateway events. The raw body is verified against the
// webhook secret before anything is parsed.
// POST /api/payments/webhook
func (ctrl *PaymentController) Webhook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn("Failed to read webhook body", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid webhook payload")
		return
	}

	event, err := ctrl.stripeClient.VerifyAndParse(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Warn("Webhook verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.PaymentSignatureInvalid, "Webhook verification failed")
		return
	}

	if err := ctrl.paymentService.HandleWebhookEvent(event); err != nil {
		if errors.Is(err, service.ErrUnknownPaymentEvent) {
			// Acknowledge event types we do not act on so the gateway
			// stops retrying them.
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			// Acknowledge so the gateway stops retrying; there is no
			// order this event could ever apply to.
			log.Warn("Webhook event matches no order", map[string]interface{}{
				"event_id": event.ID,
			})
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Error("Failed to handle webhook event", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		appErrors.InternalError(c, "Failed to process webhook")
		return
	}

	log.Info("Webhook event processed", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	c.JSON(http.StatusOK, gin.H{"received": true})
}
