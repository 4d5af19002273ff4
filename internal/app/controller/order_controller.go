package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	City            string `json:"city" binding:"required"`
	PostalCode      string `json:"postal_code" binding:"required"`
	Country         string `json:"country" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Notes           string `json:"notes"`
}

// Checkout converts the cart into a pending order
// POST /api/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized checkout attempt", nil)
		appErrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		Phone:           req.Phone,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			log.Warn("Checkout rejected: empty cart", map[string]interface{}{
				"user_id": userID,
			})
			appErrors.BadRequest(c, appErrors.CartEmpty, "Cart is empty")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) || errors.Is(err, service.ErrProductUnavailable) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "A cart item is no longer available")
			return
		}
		log.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
		})
		appErrors.InternalError(c, "Failed to create order")
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"data": order,
	})
}

// ListOrders returns the user's order history
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		appErrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		appErrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"count": len(orders),
	})
}

// GetOrder returns a single order owned by the user
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		appErrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			appErrors.NotFound(c, appErrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		appErrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}

// CancelOrder cancels an unpaid pending order
// POST /api/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		appErrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			appErrors.NotFound(c, appErrors.OrderNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrOrderNotCancelable) {
			log.Warn("Order cancellation rejected", map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			appErrors.BadRequest(c, appErrors.OrderInvalidTransition, "Order can no longer be cancelled")
			return
		}
		log.Error("Failed to cancel order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		appErrors.InternalError(c, "Failed to cancel order")
		return
	}

	log.Info("Order cancelled", map[string]interface{}{
		"user_id":  userID,
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}
