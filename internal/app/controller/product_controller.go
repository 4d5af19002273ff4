package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
)

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// parsePagination reads page/limit query params with sane bounds
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) gin.H {
	return gin.H{
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	}
}

// ListProducts returns the paginated catalog
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePagination(c)

	filter := repository.ProductFilter{
		CategorySlug:  c.Query("category"),
		Search:        c.Query("search"),
		Sort:          c.Query("sort"),
		OnlyAvailable: true,
		Page:          page,
		Limit:         limit,
	}
	if featured := c.Query("featured"); featured != "" {
		isFeatured := featured == "true"
		filter.Featured = &isFeatured
	}

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		appErrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       products,
		"pagination": paginationMeta(page, limit, total),
	})
}

// SearchProducts looks up available products by name
// GET /api/products/search?q=
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	if query == "" {
		appErrors.BadRequest(c, appErrors.ValidationRequired, "Search query is required")
		return
	}

	page, limit := parsePagination(c)

	products, total, err := ctrl.productService.ListProducts(repository.ProductFilter{
		Search:        query,
		Sort:          "name_asc",
		OnlyAvailable: true,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		log.Error("Failed to search products", err, map[string]interface{}{
			"query": query,
		})
		appErrors.InternalError(c, "Failed to search products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       products,
		"pagination": paginationMeta(page, limit, total),
	})
}

// ListByCategory returns available products of one category
// GET /api/products/category/:id
func (ctrl *ProductController) ListByCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	page, limit := parsePagination(c)

	products, total, err := ctrl.productService.ListProducts(repository.ProductFilter{
		CategoryID:    uint(id),
		Sort:          c.Query("sort"),
		OnlyAvailable: true,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		log.Error("Failed to list products by category", err, map[string]interface{}{
			"category_id": id,
		})
		appErrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       products,
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetProduct returns a single product
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			appErrors.NotFound(c, appErrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		appErrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}

// ListCategories returns all categories
// GET /api/products/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		appErrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": categories,
	})
}
