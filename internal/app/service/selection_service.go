package service

import (
	"errors"
	"io"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/export"
	"github.com/mstavrou/epresent-backend/internal/selection"
	"github.com/mstavrou/epresent-backend/pkg/logger"
)

var (
	ErrSelectionInvalidOption = errors.New("option does not belong to this product")
	ErrSelectionEmpty         = errors.New("selection is empty")
)

// AddToSelectionInput identifies what the customer picked. VariantID and
// SizeID are optional; when set they must belong to the product.
type AddToSelectionInput struct {
	ProductID uint
	VariantID *uint
	SizeID    *uint
	Qty       int
}

type SelectionService interface {
	Get(sessionKey string) selection.State
	Add(sessionKey string, input AddToSelectionInput) (selection.State, error)
	UpdateQty(sessionKey, lineKey string, qty int) selection.State
	Remove(sessionKey, lineKey string) selection.State
	Clear(sessionKey string) selection.State
	ExportPDF(w io.Writer, sessionKey, locale string) error
	EnquiryLines(sessionKey string) []model.EnquiryLine
}

type selectionService struct {
	manager        *selection.Manager
	productService ProductService
}

func NewSelectionService(manager *selection.Manager, productService ProductService) SelectionService {
	return &selectionService{
		manager:        manager,
		productService: productService,
	}
}

func (s *selectionService) Get(sessionKey string) selection.State {
	return s.manager.Get(sessionKey)
}

// Add resolves the product and its chosen options into a denormalized
// selection line and dispatches it. The quantity is clamped up to the
// product's MOQ before the line enters the selection.
func (s *selectionService) Add(sessionKey string, input AddToSelectionInput) (selection.State, error) {
	product, err := s.productService.GetByID(input.ProductID, false)
	if err != nil {
		return selection.State{}, err
	}

	line := selection.Line{
		Key:       selection.LineKey(product.ID, input.VariantID, input.SizeID),
		ProductID: product.ID,
		SKU:       product.SKU,
		NameEN:    product.NameEN,
		NameEL:    product.NameEL,
		Price:     product.Price,
		MOQ:       product.MOQ,
		Qty:       input.Qty,
	}
	if line.Qty < product.MOQ {
		line.Qty = product.MOQ
	}
	if img := product.PrimaryImage(); img != nil {
		line.PrimaryImagePath = img.StoragePath
	}

	if input.VariantID != nil {
		variant := findVariant(product, *input.VariantID)
		if variant == nil {
			return selection.State{}, ErrSelectionInvalidOption
		}
		if variant.SKUSuffix != nil {
			line.SKU = product.SKU + *variant.SKUSuffix
		}
		line.Variant = &selection.VariantInfo{
			ID:          variant.ID,
			SKUSuffix:   variant.SKUSuffix,
			ColorNameEN: variant.ColorNameEN,
			ColorNameEL: variant.ColorNameEL,
			HexColor:    variant.HexColor,
		}
		if img := variant.PrimaryImage(); img != nil {
			line.PrimaryImagePath = img.StoragePath
		}
	}

	if input.SizeID != nil {
		size := findSize(product, *input.SizeID)
		if size == nil {
			return selection.State{}, ErrSelectionInvalidOption
		}
		line.Size = &selection.SizeInfo{
			ID:        size.ID,
			LabelEN:   size.LabelEN,
			LabelEL:   size.LabelEL,
			SKUSuffix: size.SKUSuffix,
		}
	}

	state := s.manager.Dispatch(sessionKey, selection.Add{Line: line})
	logger.Debug("Selection line added", map[string]interface{}{
		"session":  sessionKey,
		"line_key": line.Key,
		"qty":      line.Qty,
	})
	return state, nil
}

// UpdateQty sets a line's quantity, clamped to its MOQ. Unknown keys are a
// no-op and return the unchanged state.
func (s *selectionService) UpdateQty(sessionKey, lineKey string, qty int) selection.State {
	return s.manager.Dispatch(sessionKey, selection.UpdateQty{Key: lineKey, Qty: qty})
}

// Remove drops a line. Unknown keys are a no-op.
func (s *selectionService) Remove(sessionKey, lineKey string) selection.State {
	return s.manager.Dispatch(sessionKey, selection.Remove{Key: lineKey})
}

func (s *selectionService) Clear(sessionKey string) selection.State {
	return s.manager.Dispatch(sessionKey, selection.Clear{})
}

// ExportPDF renders the current selection as a quotation-style document.
func (s *selectionService) ExportPDF(w io.Writer, sessionKey, locale string) error {
	state := s.manager.Get(sessionKey)
	if len(state.Lines) == 0 {
		return ErrSelectionEmpty
	}
	return export.RenderSelectionPDF(w, state.Lines, locale)
}

// EnquiryLines converts the selection into the denormalized snapshot rows
// an enquiry carries.
func (s *selectionService) EnquiryLines(sessionKey string) []model.EnquiryLine {
	return export.ToEnquiryPayload(s.manager.Get(sessionKey).Lines)
}

func findVariant(product *model.Product, id uint) *model.ColorVariant {
	for i := range product.Variants {
		if product.Variants[i].ID == id {
			return &product.Variants[i]
		}
	}
	return nil
}

func findSize(product *model.Product, id uint) *model.SizeVariant {
	for i := range product.Sizes {
		if product.Sizes[i].ID == id {
			return &product.Sizes[i]
		}
	}
	return nil
}
