package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mixtales/mixtales-backend/config"
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the cocktail catalog from an XLSX workbook. Expected columns:
// name, description, price, category slug, ingredients (semicolon
// separated), abv, volume ml, stock, featured (yes/no), image url.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	imported := 0
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 8 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		categorySlug := strings.TrimSpace(row[3])
		ingredientsRaw := strings.TrimSpace(row[4])
		abvStr := strings.TrimSpace(row[5])
		volumeStr := strings.TrimSpace(row[6])
		stockStr := strings.TrimSpace(row[7])

		featured := false
		if len(row) > 8 {
			featured = strings.EqualFold(strings.TrimSpace(row[8]), "yes")
		}
		imageURL := ""
		if len(row) > 9 {
			imageURL = strings.TrimSpace(row[9])
		}

		if name == "" || priceStr == "" || categorySlug == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		category, err := categoryRepo.FindBySlug(categorySlug)
		if err != nil {
			fmt.Printf("Row %d: unknown category %q, skipping\n", i+1, categorySlug)
			skipped++
			continue
		}

		var ingredients []string
		for _, ingredient := range strings.Split(ingredientsRaw, ";") {
			if trimmed := strings.TrimSpace(ingredient); trimmed != "" {
				ingredients = append(ingredients, trimmed)
			}
		}

		abv, _ := strconv.ParseFloat(abvStr, 64)
		volume, _ := strconv.Atoi(volumeStr)
		stock, _ := strconv.Atoi(stockStr)

		product := &model.Product{
			Name:           name,
			Description:    description,
			Price:          price,
			ImageURL:       imageURL,
			CategoryID:     category.ID,
			Ingredients:    ingredients,
			AlcoholContent: abv,
			VolumeML:       volume,
			Stock:          stock,
			IsFeatured:     featured,
			IsAvailable:    true,
		}

		if err := productRepo.Create(product); err != nil {
			fmt.Printf("Row %d: failed to create product %q: %v\n", i+1, name, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Imported products: %d\n", imported)
	fmt.Printf("  Skipped rows: %d\n", skipped)
}

func readRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	return rows, nil
}
