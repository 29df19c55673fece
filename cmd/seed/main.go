package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/mstavrou/epresent-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports a catalog workbook into the database. The workbook carries two
// sheets:
//
//	Categories: slug | name_en | name_el | parent_slug | sort_order
//	Products:   sku | name_en | name_el | category_slug | price | moq |
//	            tags (comma separated) | featured | new_arrival |
//	            description_en | description_el
//
// Categories are created before products so category_slug references
// resolve. Rows that fail validation are skipped and counted.
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

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	categoriesBySlug, err := importCategories(f, categoryRepo)
	if err != nil {
		log.Fatal("Failed to import categories:", err)
	}

	imported, skipped, err := importProducts(f, productRepo, categoriesBySlug)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Categories: %d\n", len(categoriesBySlug))
	fmt.Printf("  Products imported: %d\n", imported)
	fmt.Printf("  Products skipped: %d\n", skipped)
}

func importCategories(f *excelize.File, repo repository.CategoryRepository) (map[string]uint, error) {
	rows, err := f.GetRows("Categories")
	if err != nil {
		return nil, fmt.Errorf("failed to read Categories sheet: %w", err)
	}

	type pending struct {
		category   model.Category
		parentSlug string
	}

	var entries []pending
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			continue
		}

		slug := strings.TrimSpace(cell(row, 0))
		nameEN := strings.TrimSpace(cell(row, 1))
		nameEL := strings.TrimSpace(cell(row, 2))
		if nameEN == "" || nameEL == "" {
			continue
		}
		if slug == "" {
			slug = util.Slugify(nameEN)
		}

		sortOrder, _ := strconv.Atoi(strings.TrimSpace(cell(row, 4)))
		entries = append(entries, pending{
			category: model.Category{
				Slug:      slug,
				NameEN:    nameEN,
				NameEL:    nameEL,
				SortOrder: sortOrder,
			},
			parentSlug: strings.TrimSpace(cell(row, 3)),
		})
	}

	// First pass creates every category, second pass wires parents so
	// forward references within the sheet work.
	bySlug := make(map[string]uint, len(entries))
	for i := range entries {
		if err := repo.Create(&entries[i].category); err != nil {
			return nil, fmt.Errorf("category %q: %w", entries[i].category.Slug, err)
		}
		bySlug[entries[i].category.Slug] = entries[i].category.ID
	}
	for i := range entries {
		if entries[i].parentSlug == "" {
			continue
		}
		parentID, ok := bySlug[entries[i].parentSlug]
		if !ok {
			fmt.Printf("  Warning: category %q references unknown parent %q\n",
				entries[i].category.Slug, entries[i].parentSlug)
			continue
		}
		entries[i].category.ParentID = &parentID
		if err := repo.Update(&entries[i].category); err != nil {
			return nil, fmt.Errorf("category %q parent: %w", entries[i].category.Slug, err)
		}
	}

	return bySlug, nil
}

func importProducts(f *excelize.File, repo repository.ProductRepository, categories map[string]uint) (int, int, error) {
	rows, err := f.GetRows("Products")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read Products sheet: %w", err)
	}

	imported, skipped := 0, 0
	seenSKU := make(map[string]bool)

	for i, row := range rows {
		if i == 0 {
			continue
		}

		sku := util.NormalizeSKU(cell(row, 0))
		nameEN := strings.TrimSpace(cell(row, 1))
		nameEL := strings.TrimSpace(cell(row, 2))
		price, priceErr := strconv.ParseFloat(strings.TrimSpace(cell(row, 4)), 64)

		if !util.ValidSKU(sku) || nameEN == "" || nameEL == "" || priceErr != nil || price <= 0 {
			skipped++
			continue
		}
		if seenSKU[sku] {
			skipped++
			continue
		}
		seenSKU[sku] = true

		moq, _ := strconv.Atoi(strings.TrimSpace(cell(row, 5)))
		if moq < 1 {
			moq = 1
		}

		product := model.Product{
			SKU:          sku,
			NameEN:       nameEN,
			NameEL:       nameEL,
			Price:        price,
			MOQ:          moq,
			Tags:         parseTags(cell(row, 6)),
			IsFeatured:   parseFlag(cell(row, 7)),
			IsNewArrival: parseFlag(cell(row, 8)),
			IsActive:     true,
		}

		if categorySlug := strings.TrimSpace(cell(row, 3)); categorySlug != "" {
			if id, ok := categories[categorySlug]; ok {
				product.CategoryID = &id
			} else {
				fmt.Printf("  Warning: product %s references unknown category %q\n", sku, categorySlug)
			}
		}
		if desc := strings.TrimSpace(cell(row, 9)); desc != "" {
			product.DescriptionEN = &desc
		}
		if desc := strings.TrimSpace(cell(row, 10)); desc != "" {
			product.DescriptionEL = &desc
		}

		if err := repo.Create(&product); err != nil {
			return imported, skipped, fmt.Errorf("product %s: %w", sku, err)
		}
		imported++

		if imported%500 == 0 {
			fmt.Printf("Processed %d products...\n", imported)
		}
	}

	return imported, skipped, nil
}

// cell reads a column that may be absent on short rows
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseTags(raw string) model.StringList {
	var tags model.StringList
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
