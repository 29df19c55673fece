package service

import (
	"bytes"
	"testing"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/cache"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/mstavrou/epresent-backend/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSelectionServiceTest(t *testing.T) (SelectionService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryService := NewCategoryService(categoryRepo, cache.NewCatalogCache(nil))
	productService := NewProductService(productRepo, categoryService)

	manager := selection.NewManager(selection.NewStore(t.TempDir()))
	return NewSelectionService(manager, productService), testDB
}

func TestSelectionService_Add_ClampsToMOQ(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "BAG-001", 24.5, func(p *model.Product) {
		p.MOQ = 6
	})

	state, err := selectionService.Add("session-a", AddToSelectionInput{
		ProductID: product.ID,
		Qty:       2,
	})
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 6, state.Lines[0].Qty)
	assert.Equal(t, "BAG-001", state.Lines[0].SKU)
	assert.Equal(t, 24.5, state.Lines[0].Price)
}

func TestSelectionService_Add_ResolvesVariantAndSize(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "BAG-001", 24.5, nil)

	hex := "#6b4226"
	suffix := "-BRN"
	variant := &model.ColorVariant{
		ProductID:   product.ID,
		SKUSuffix:   &suffix,
		ColorNameEN: "Brown",
		ColorNameEL: "Καφέ",
		HexColor:    &hex,
	}
	require.NoError(t, testDB.Create(variant).Error)
	size := &model.SizeVariant{
		ProductID: product.ID,
		LabelEN:   "Large",
		LabelEL:   "Μεγάλο",
	}
	require.NoError(t, testDB.Create(size).Error)

	state, err := selectionService.Add("session-a", AddToSelectionInput{
		ProductID: product.ID,
		VariantID: &variant.ID,
		SizeID:    &size.ID,
		Qty:       10,
	})
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)

	line := state.Lines[0]
	assert.Equal(t, "BAG-001-BRN", line.SKU)
	require.NotNil(t, line.Variant)
	assert.Equal(t, "Brown", line.Variant.ColorNameEN)
	assert.Equal(t, "Καφέ", line.Variant.ColorNameEL)
	require.NotNil(t, line.Size)
	assert.Equal(t, "Μεγάλο", line.Size.LabelEL)
}

func TestSelectionService_Add_ForeignOptionRejected(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "BAG-001", 24.5, nil)
	other := createProduct(t, testDB, "MUG-014", 6.8, nil)

	foreign := &model.ColorVariant{
		ProductID:   other.ID,
		ColorNameEN: "Blue",
		ColorNameEL: "Μπλε",
	}
	require.NoError(t, testDB.Create(foreign).Error)

	_, err := selectionService.Add("session-a", AddToSelectionInput{
		ProductID: product.ID,
		VariantID: &foreign.ID,
		Qty:       1,
	})
	assert.ErrorIs(t, err, ErrSelectionInvalidOption)
}

func TestSelectionService_Add_InactiveProductRejected(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "DEAD-1", 10, func(p *model.Product) {
		p.IsActive = false
	})

	_, err := selectionService.Add("session-a", AddToSelectionInput{
		ProductID: product.ID,
		Qty:       1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = selectionService.Add("session-a", AddToSelectionInput{
		ProductID: 9999,
		Qty:       1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSelectionService_UpdateRemoveClear(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "BAG-001", 24.5, func(p *model.Product) {
		p.MOQ = 6
	})

	state, err := selectionService.Add("session-a", AddToSelectionInput{
		ProductID: product.ID,
		Qty:       10,
	})
	require.NoError(t, err)
	key := state.Lines[0].Key

	state = selectionService.UpdateQty("session-a", key, 3)
	assert.Equal(t, 6, state.Lines[0].Qty)

	state = selectionService.Remove("session-a", key)
	assert.Empty(t, state.Lines)

	_, err = selectionService.Add("session-a", AddToSelectionInput{ProductID: product.ID, Qty: 6})
	require.NoError(t, err)
	state = selectionService.Clear("session-a")
	assert.Empty(t, state.Lines)
}

func TestSelectionService_ExportPDF(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)

	var buf bytes.Buffer
	err := selectionService.ExportPDF(&buf, "session-a", "en")
	assert.ErrorIs(t, err, ErrSelectionEmpty)

	product := createProduct(t, testDB, "BAG-001", 24.5, nil)
	_, err = selectionService.Add("session-a", AddToSelectionInput{ProductID: product.ID, Qty: 3})
	require.NoError(t, err)

	require.NoError(t, selectionService.ExportPDF(&buf, "session-a", "el"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestSelectionService_EnquiryLines(t *testing.T) {
	selectionService, testDB := setupSelectionServiceTest(t)
	product := createProduct(t, testDB, "BAG-001", 24.5, nil)

	_, err := selectionService.Add("session-a", AddToSelectionInput{ProductID: product.ID, Qty: 12})
	require.NoError(t, err)

	lines := selectionService.EnquiryLines("session-a")
	require.Len(t, lines, 1)
	assert.Equal(t, model.EnquiryLine{
		ProductID: product.ID,
		SKU:       "BAG-001",
		NameEN:    product.NameEN,
		NameEL:    product.NameEL,
		Qty:       12,
		Price:     24.5,
	}, lines[0])
}
