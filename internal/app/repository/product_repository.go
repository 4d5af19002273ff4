package repository

import (
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID    uint
	CategorySlug  string
	Search        string
	Featured      *bool
	OnlyAvailable bool
	Sort          string
	Page          int
	Limit         int
}

// sortClauses maps the public sort keys onto ORDER BY clauses. Anything
// else falls back to newest first.
var sortClauses = map[string]string{
	"price_asc":  "products.price ASC",
	"price_desc": "products.price DESC",
	"name_asc":   "products.name ASC",
	"name_desc":  "products.name DESC",
	"newest":     "products.created_at DESC",
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	Count() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
		"price":       product.Price,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":        product.Name,
			"category_id": product.CategoryID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"category_slug": filter.CategorySlug,
		"search":        filter.Search,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})

	query := r.db.Model(&model.Product{}).Preload("Category")

	if filter.CategoryID != 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on
		// Postgres, where plain LIKE is not.
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}
	if filter.OnlyAvailable {
		query = query.Where("products.is_available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, nil)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = "products.created_at DESC"
	}

	var products []model.Product
	if err := query.Order(orderBy).Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count products in database", err, nil)
		return 0, err
	}
	return count, nil
}
