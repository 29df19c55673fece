package service

import (
	"context"
	"testing"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/cache"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	categoryService := NewCategoryService(categoryRepo, cache.NewCatalogCache(nil))
	return categoryService, testDB
}

func createCategory(t *testing.T, testDB *gorm.DB, slug, nameEN string, parentID *uint, sortOrder int) *model.Category {
	category := &model.Category{
		Slug:      slug,
		NameEN:    nameEN,
		NameEL:    nameEN + " (el)",
		ParentID:  parentID,
		SortOrder: sortOrder,
	}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func TestCategoryService_BuildTree(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	root := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)
	child := createCategory(t, testDB, "mugs", "Mugs", &root.ID, 1)
	createCategory(t, testDB, "bowls", "Bowls", &root.ID, 2)
	createCategory(t, testDB, "textiles", "Textiles", nil, 2)
	createCategory(t, testDB, "espresso-mugs", "Espresso Mugs", &child.ID, 1)

	tree, err := categoryService.BuildTree(context.Background())
	require.NoError(t, err)

	require.Len(t, tree, 2)
	assert.Equal(t, "ceramics", tree[0].Slug)
	assert.Equal(t, "textiles", tree[1].Slug)

	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "mugs", tree[0].Children[0].Slug)
	assert.Equal(t, "bowls", tree[0].Children[1].Slug)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "espresso-mugs", tree[0].Children[0].Children[0].Slug)
}

func TestCategoryService_BuildTree_SiblingOrder(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	// Same sort order resolves alphabetically by English name.
	createCategory(t, testDB, "b", "Bags", nil, 5)
	createCategory(t, testDB, "a", "Art", nil, 5)
	createCategory(t, testDB, "c", "Candles", nil, 1)

	tree, err := categoryService.BuildTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "Candles", tree[0].NameEN)
	assert.Equal(t, "Art", tree[1].NameEN)
	assert.Equal(t, "Bags", tree[2].NameEN)
}

func TestCategoryService_BuildTree_DanglingParentPromotedToRoot(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	missing := uint(999)
	createCategory(t, testDB, "orphan", "Orphan", &missing, 1)

	tree, err := categoryService.BuildTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "orphan", tree[0].Slug)
}

func TestCategoryService_Ancestors(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	root := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)
	mid := createCategory(t, testDB, "mugs", "Mugs", &root.ID, 1)
	leaf := createCategory(t, testDB, "espresso-mugs", "Espresso Mugs", &mid.ID, 1)

	chain, err := categoryService.Ancestors(leaf.ID)
	require.NoError(t, err)

	// Root first, immediate parent last, target excluded.
	require.Len(t, chain, 2)
	assert.Equal(t, root.ID, chain[0].ID)
	assert.Equal(t, mid.ID, chain[1].ID)
}

func TestCategoryService_Ancestors_CycleTerminates(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	a := createCategory(t, testDB, "a", "A", nil, 1)
	b := createCategory(t, testDB, "b", "B", &a.ID, 1)
	require.NoError(t, testDB.Model(a).Update("parent_id", b.ID).Error)

	chain, err := categoryService.Ancestors(b.ID)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, a.ID, chain[0].ID)
}

func TestCategoryService_Ancestors_UnknownCategory(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.Ancestors(42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DescendantIDs(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	root := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)
	child := createCategory(t, testDB, "mugs", "Mugs", &root.ID, 1)
	grandchild := createCategory(t, testDB, "espresso-mugs", "Espresso Mugs", &child.ID, 1)
	createCategory(t, testDB, "textiles", "Textiles", nil, 2)

	ids, err := categoryService.DescendantIDs(root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{root.ID, child.ID, grandchild.ID}, ids)

	leafIDs, err := categoryService.DescendantIDs(grandchild.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{grandchild.ID}, leafIDs)
}

func TestCategoryService_DescendantIDs_UnknownCategoryIsEmpty(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	ids, err := categoryService.DescendantIDs(42)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCategoryService_Create_DuplicateSlug(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)

	_, err := categoryService.Create(&model.Category{
		Slug:   "ceramics",
		NameEN: "Other Ceramics",
		NameEL: "Άλλα Κεραμικά",
	})
	assert.ErrorIs(t, err, ErrCategorySlugExists)
}

func TestCategoryService_Create_SlugGeneratedFromName(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	category, err := categoryService.Create(&model.Category{
		NameEN: "Olive Wood Products",
		NameEL: "Προϊόντα από ξύλο ελιάς",
	})
	require.NoError(t, err)
	assert.Equal(t, "olive-wood-products", category.Slug)
}

func TestCategoryService_Update_SelfParentRejected(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)
	category := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)

	_, err := categoryService.Update(category.ID, CategoryMutation{ParentID: &category.ID})
	assert.ErrorIs(t, err, ErrCategorySelfParent)
}

func TestCategoryService_Delete_ChildrenSurvive(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	root := createCategory(t, testDB, "ceramics", "Ceramics", nil, 1)
	child := createCategory(t, testDB, "mugs", "Mugs", &root.ID, 1)

	product := &model.Product{
		SKU:        "MUG-001",
		NameEN:     "Ceramic Mug",
		NameEL:     "Κεραμική κούπα",
		Price:      6.8,
		MOQ:        1,
		IsActive:   true,
		CategoryID: &root.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	require.NoError(t, categoryService.Delete(root.ID))

	var survivor model.Category
	require.NoError(t, testDB.First(&survivor, child.ID).Error)
	assert.Nil(t, survivor.ParentID)

	var orphan model.Product
	require.NoError(t, testDB.First(&orphan, product.ID).Error)
	assert.Nil(t, orphan.CategoryID)
}
