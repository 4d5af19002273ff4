package service

import (
	"testing"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *model.Category, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productService := NewProductService(productRepo, categoryRepo)

	category := &model.Category{
		Name: "Classics",
		Slug: "classics",
	}
	testDB.Create(category)

	return productService, category, testDB
}

func seedProduct(t *testing.T, testDB *gorm.DB, categoryID uint, name string, price float64, featured bool) *model.Product {
	product := &model.Product{
		Name:        name,
		Price:       price,
		CategoryID:  categoryID,
		Stock:       10,
		IsFeatured:  featured,
		IsAvailable: true,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestProductService_ListProducts(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	seedProduct(t, testDB, category.ID, "Martini", 15.0, true)

	products, total, err := productService.ListProducts(repository.ProductFilter{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)
}

func TestProductService_ListProducts_CategoryFilter(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	other := &model.Category{Name: "Tiki", Slug: "tiki"}
	testDB.Create(other)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	seedProduct(t, testDB, other.ID, "Mai Tai", 16.0, false)

	products, total, err := productService.ListProducts(repository.ProductFilter{
		CategorySlug: "tiki",
		Page:         1,
		Limit:        10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Mai Tai", products[0].Name)
}

func TestProductService_ListProducts_Search(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	seedProduct(t, testDB, category.ID, "Negroni Sbagliato", 15.5, false)
	seedProduct(t, testDB, category.ID, "Martini", 15.0, false)

	products, total, err := productService.ListProducts(repository.ProductFilter{
		Search: "negroni",
		Page:   1,
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)
}

func TestProductService_ListProducts_SearchIgnoresCase(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	seedProduct(t, testDB, category.ID, "Martini", 15.0, false)

	products, total, err := productService.ListProducts(repository.ProductFilter{
		Search: "NEGRONI",
		Page:   1,
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Negroni", products[0].Name)
}

func TestProductService_ListProducts_FeaturedFilter(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	featured := seedProduct(t, testDB, category.ID, "Martini", 15.0, true)

	isFeatured := true
	products, total, err := productService.ListProducts(repository.ProductFilter{
		Featured: &isFeatured,
		Page:     1,
		Limit:    10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, featured.ID, products[0].ID)
}

func TestProductService_ListProducts_Sorted(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Zombie", 18.0, false)
	seedProduct(t, testDB, category.ID, "Americano", 11.0, false)
	seedProduct(t, testDB, category.ID, "Martini", 15.0, false)

	products, _, err := productService.ListProducts(repository.ProductFilter{
		Sort:  "price_asc",
		Page:  1,
		Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Americano", products[0].Name)
	assert.Equal(t, "Zombie", products[2].Name)

	products, _, err = productService.ListProducts(repository.ProductFilter{
		Sort:  "name_desc",
		Page:  1,
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Zombie", products[0].Name)
}

func TestProductService_ListProducts_CategoryIDFilter(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	other := &model.Category{Name: "Tiki", Slug: "tiki"}
	testDB.Create(other)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	seedProduct(t, testDB, other.ID, "Mai Tai", 16.0, false)

	products, total, err := productService.ListProducts(repository.ProductFilter{
		CategoryID: other.ID,
		Page:       1,
		Limit:      10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Mai Tai", products[0].Name)
}

func TestProductService_ListProducts_Pagination(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	for i := 0; i < 5; i++ {
		seedProduct(t, testDB, category.ID, "Cocktail", 10.0+float64(i), false)
	}

	products, total, err := productService.ListProducts(repository.ProductFilter{Page: 2, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, products, 2)
}

func TestProductService_ListProducts_OnlyAvailable(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)
	hidden := seedProduct(t, testDB, category.ID, "Martini", 15.0, false)
	testDB.Model(hidden).Update("is_available", false)

	products, total, err := productService.ListProducts(repository.ProductFilter{
		OnlyAvailable: true,
		Page:          1,
		Limit:         10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Negroni", products[0].Name)
}

func TestProductService_GetProduct(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	created := seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)

	product, err := productService.GetProduct(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Negroni", product.Name)
	assert.Equal(t, "classics", product.Category.Slug)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	_, err := productService.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ListCategories(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)

	testDB.Create(&model.Category{Name: "Tiki", Slug: "tiki"})

	categories, err := productService.ListCategories()
	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	// Sorted by name
	assert.Equal(t, "Classics", categories[0].Name)
	assert.Equal(t, "Tiki", categories[1].Name)
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, category, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(ProductInput{
		Name:           "Whiskey Sour",
		Description:    "Bourbon, lemon, sugar",
		Price:          12.5,
		CategoryID:     category.ID,
		Ingredients:    []string{"bourbon", "lemon juice", "sugar syrup"},
		AlcoholContent: 20.0,
		VolumeML:       120,
		Stock:          15,
		IsAvailable:    true,
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Whiskey Sour", product.Name)
}

func TestProductService_CreateProduct_InvalidPrice(t *testing.T) {
	productService, category, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(ProductInput{
		Name:       "Free Drink",
		Price:      0,
		CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(ProductInput{
		Name:       "Orphan",
		Price:      10.0,
		CategoryID: 9999,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_UpdateProduct(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	created := seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)

	updated, err := productService.UpdateProduct(created.ID, ProductInput{
		Name:        "Negroni Bianco",
		Price:       16.0,
		CategoryID:  category.ID,
		Stock:       5,
		IsAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Negroni Bianco", updated.Name)
	assert.Equal(t, 16.0, updated.Price)
	assert.Equal(t, 5, updated.Stock)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, category, _ := setupProductServiceTest(t)

	_, err := productService.UpdateProduct(9999, ProductInput{
		Name:       "Ghost",
		Price:      10.0,
		CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, category, testDB := setupProductServiceTest(t)

	created := seedProduct(t, testDB, category.ID, "Negroni", 14.5, false)

	err := productService.DeleteProduct(created.ID)
	assert.NoError(t, err)

	_, err = productService.GetProduct(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteCategory_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	err := productService.DeleteCategory(9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
