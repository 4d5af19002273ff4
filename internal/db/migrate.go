package db

import (
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the default categories when the table is empty. Product
// data comes from cmd/seed.
func Seed() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding default categories...")

	categories := []model.Category{
		{Name: "Classics", Slug: "classics", Description: "Timeless cocktails everyone should know"},
		{Name: "Tiki", Slug: "tiki", Description: "Rum-forward tropical drinks"},
		{Name: "Sours", Slug: "sours", Description: "Citrus-balanced shaken drinks"},
		{Name: "Highballs", Slug: "highballs", Description: "Long drinks over ice"},
		{Name: "Zero Proof", Slug: "zero-proof", Description: "Non-alcoholic mixes"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}
