package service

import (
	"fmt"
	"testing"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/cache"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryService := NewCategoryService(categoryRepo, cache.NewCatalogCache(nil))
	productService := NewProductService(productRepo, categoryService)
	return productService, categoryService, testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, sku string, price float64, mutate func(*model.Product)) *model.Product {
	product := &model.Product{
		SKU:      sku,
		NameEN:   "Product " + sku,
		NameEL:   "Προϊόν " + sku,
		Price:    price,
		MOQ:      1,
		IsActive: true,
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestProductService_Query_Pagination(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)

	for i := 1; i <= 30; i++ {
		createProduct(t, testDB, fmt.Sprintf("SKU-%03d", i), float64(i), nil)
	}

	page, err := productService.Query(ProductQuery{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, PublicPageSize)
	assert.Equal(t, int64(30), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page2, err := productService.Query(ProductQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 6)
	assert.Equal(t, 2, page2.Page)
}

func TestProductService_Query_PageBeyondRange(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "SKU-001", 10, nil)

	page, err := productService.Query(ProductQuery{Page: 7})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 7, page.Page)
}

func TestProductService_Query_PriceSort(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "MID", 20, nil)
	createProduct(t, testDB, "CHEAP", 5, nil)
	createProduct(t, testDB, "DEAR", 90, nil)

	page, err := productService.Query(ProductQuery{SortBy: repository.ProductSortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "CHEAP", page.Items[0].SKU)
	assert.Equal(t, "DEAR", page.Items[2].SKU)

	desc, err := productService.Query(ProductQuery{SortBy: repository.ProductSortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, "DEAR", desc.Items[0].SKU)
}

func TestProductService_Query_BilingualSearch(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "BOWL-1", 10, func(p *model.Product) {
		p.NameEN = "Olive Wood Bowl"
		p.NameEL = "Μπολ από ξύλο ελιάς"
	})
	createProduct(t, testDB, "MUG-1", 8, func(p *model.Product) {
		p.NameEN = "Ceramic Mug"
		p.NameEL = "Κεραμική κούπα"
	})

	english, err := productService.Query(ProductQuery{Search: "olive"})
	require.NoError(t, err)
	require.Len(t, english.Items, 1)
	assert.Equal(t, "BOWL-1", english.Items[0].SKU)

	greek, err := productService.Query(ProductQuery{Search: "κούπα"})
	require.NoError(t, err)
	require.Len(t, greek.Items, 1)
	assert.Equal(t, "MUG-1", greek.Items[0].SKU)
}

func TestProductService_Query_CategorySubtree(t *testing.T) {
	productService, categoryService, testDB := setupProductServiceTest(t)

	root := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)
	child := createCategory(t, testDB, "mugs", "Mugs", &root.ID, 1)
	other := createCategory(t, testDB, "textiles", "Textiles", nil, 2)

	createProduct(t, testDB, "ROOT-1", 10, func(p *model.Product) { p.CategoryID = &root.ID })
	createProduct(t, testDB, "CHILD-1", 10, func(p *model.Product) { p.CategoryID = &child.ID })
	createProduct(t, testDB, "OTHER-1", 10, func(p *model.Product) { p.CategoryID = &other.ID })

	page, err := productService.Query(ProductQuery{CategoryID: &root.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	ids, err := categoryService.DescendantIDs(root.ID)
	require.NoError(t, err)
	for _, item := range page.Items {
		require.NotNil(t, item.CategoryID)
		assert.Contains(t, ids, *item.CategoryID)
	}
}

func TestProductService_Query_TagOverlap(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "A-1", 10, func(p *model.Product) {
		p.Tags = model.StringList{"handmade", "wood"}
	})
	createProduct(t, testDB, "B-1", 10, func(p *model.Product) {
		p.Tags = model.StringList{"ceramic"}
	})

	page, err := productService.Query(ProductQuery{Tags: []string{"wood", "leather"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A-1", page.Items[0].SKU)
}

func TestProductService_Query_PriceRange(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "A-1", 5, nil)
	createProduct(t, testDB, "B-1", 15, nil)
	createProduct(t, testDB, "C-1", 50, nil)

	minPrice, maxPrice := 10.0, 20.0
	page, err := productService.Query(ProductQuery{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B-1", page.Items[0].SKU)
}

func TestProductService_Query_InactiveHiddenFromPublic(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "LIVE-1", 10, nil)
	createProduct(t, testDB, "DEAD-1", 10, func(p *model.Product) { p.IsActive = false })

	public, err := productService.Query(ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, public.Items, 1)

	admin, err := productService.Query(ProductQuery{AdminView: true})
	require.NoError(t, err)
	assert.Len(t, admin.Items, 2)
}

func TestProductService_GetByID_InactiveIsNotFoundForPublic(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	product := createProduct(t, testDB, "DEAD-1", 10, func(p *model.Product) { p.IsActive = false })

	_, err := productService.GetByID(product.ID, false)
	assert.ErrorIs(t, err, ErrProductNotFound)

	found, err := productService.GetByID(product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "DEAD-1", found.SKU)
}

func TestProductService_Create_NormalizesAndValidatesSKU(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	product, err := productService.Create(&model.Product{
		SKU:    "  bag-001 ",
		NameEN: "Leather Tote",
		NameEL: "Δερμάτινη τσάντα",
		Price:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, "BAG-001", product.SKU)
	assert.Equal(t, 1, product.MOQ)

	_, err = productService.Create(&model.Product{
		SKU:    "bad sku!",
		NameEN: "X",
		NameEL: "X",
		Price:  10,
	})
	assert.ErrorIs(t, err, ErrInvalidSKU)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	createProduct(t, testDB, "BAG-001", 10, nil)

	_, err := productService.Create(&model.Product{
		SKU:    "bag-001",
		NameEN: "Duplicate",
		NameEL: "Διπλό",
		Price:  10,
	})
	assert.ErrorIs(t, err, ErrSKUExists)
}

func TestProductService_Featured(t *testing.T) {
	productService, _, testDB := setupProductServiceTest(t)
	for i := 1; i <= 10; i++ {
		createProduct(t, testDB, fmt.Sprintf("FEAT-%d", i), 10, func(p *model.Product) {
			p.IsFeatured = true
		})
	}
	createProduct(t, testDB, "PLAIN-1", 10, nil)

	featured, err := productService.Featured()
	require.NoError(t, err)
	assert.Len(t, featured, CarouselPageSize)
	for _, p := range featured {
		assert.True(t, p.IsFeatured)
	}
}
