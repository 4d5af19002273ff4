package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
)

type AdminController struct {
	adminService   service.AdminService
	productService service.ProductService
}

func NewAdminController(adminService service.AdminService, productService service.ProductService) *AdminController {
	return &AdminController{
		adminService:   adminService,
		productService: productService,
	}
}

type ProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	ImageURL       string   `json:"image_url"`
	CategoryID     uint     `json:"category_id" binding:"required"`
	Ingredients    []string `json:"ingredients"`
	AlcoholContent float64  `json:"alcohol_content"`
	VolumeML       int      `json:"volume_ml"`
	Stock          int      `json:"stock" binding:"gte=0"`
	IsFeatured     bool     `json:"is_featured"`
	IsAvailable    *bool    `json:"is_available"`
}

func (r ProductRequest) toInput() service.ProductInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return service.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		ImageURL:       r.ImageURL,
		CategoryID:     r.CategoryID,
		Ingredients:    r.Ingredients,
		AlcoholContent: r.AlcoholContent,
		VolumeML:       r.VolumeML,
		Stock:          r.Stock,
		IsFeatured:     r.IsFeatured,
		IsAvailable:    available,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListOrders returns all orders, filterable by status
// GET /api/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePagination(c)
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		UserID: c.Query("user_id"),
		Page:   page,
		Limit:  limit,
	}

	orders, total, err := ctrl.adminService.ListOrders(filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid status filter")
			return
		}
		log.Error("Failed to list orders", err, nil)
		appErrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetOrder returns any order by ID
// GET /api/admin/orders/:id
func (ctrl *AdminController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.adminService.GetOrder(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			appErrors.NotFound(c, appErrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		appErrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}

// UpdateOrderStatus moves an order along the fulfillment flow
// PUT /api/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.adminService.UpdateOrderStatus(uint(id), model.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			appErrors.NotFound(c, appErrors.OrderNotFound, "Order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid order status")
			return
		}
		if errors.Is(err, service.ErrInvalidStatusChange) {
			log.Warn("Order status change rejected", map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			appErrors.BadRequest(c, appErrors.OrderInvalidTransition, "Status change not allowed")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
		})
		appErrors.InternalError(c, "Failed to update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": order,
	})
}

// ExportOrders streams the filtered order list as an XLSX file
// GET /api/admin/orders/export
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
	}

	data, err := ctrl.adminService.ExportOrders(filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid status filter")
			return
		}
		log.Error("Failed to export orders", err, nil)
		appErrors.InternalError(c, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListUsers returns all registered profiles
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePagination(c)

	users, total, err := ctrl.adminService.ListUsers(page, limit)
	if err != nil {
		log.Error("Failed to list users", err, nil)
		appErrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       users,
		"pagination": paginationMeta(page, limit, total),
	})
}

// UpdateUserRole grants or revokes the admin role
// PUT /api/admin/users/:id/role
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID := c.Param("id")

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	profile, err := ctrl.adminService.UpdateUserRole(userID, model.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Role must be user or admin")
			return
		}
		if errors.Is(err, service.ErrProfileNotFound) {
			appErrors.NotFound(c, appErrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
		})
		appErrors.InternalError(c, "Failed to update user role")
		return
	}

	log.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    req.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}

// GetStats returns back office analytics
// GET /api/admin/analytics
func (ctrl *AdminController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetStats()
	if err != nil {
		log.Error("Failed to collect statistics", err, nil)
		appErrors.InternalError(c, "Failed to fetch statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}

// CreateProduct adds a product to the catalog
// POST /api/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			appErrors.BadRequest(c, appErrors.CategoryNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrInvalidPrice) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Price must be greater than zero")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		appErrors.InternalError(c, "Failed to create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"data": product,
	})
}

// UpdateProduct edits an existing product
// PUT /api/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			appErrors.NotFound(c, appErrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			appErrors.BadRequest(c, appErrors.CategoryNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrInvalidPrice) {
			appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Price must be greater than zero")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		appErrors.InternalError(c, "Failed to update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			appErrors.NotFound(c, appErrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		appErrors.InternalError(c, "Failed to delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// CreateCategory adds a catalog category
// POST /api/admin/categories
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category := &model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := ctrl.productService.CreateCategory(category); err != nil {
		log.Error("Failed to create category", err, map[string]interface{}{
			"slug": req.Slug,
		})
		appErrors.InternalError(c, "Failed to create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"data": category,
	})
}

// DeleteCategory removes a category
// DELETE /api/admin/categories/:id
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.productService.DeleteCategory(uint(id)); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			appErrors.NotFound(c, appErrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		appErrors.InternalError(c, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
