// Package selection implements the wholesale selection (cart): a pure
// reducer over selection lines, a best-effort local persistence layer, and
// a session manager tying the two together. The reducer itself performs no
// I/O so it can be tested and reasoned about in isolation.
package selection

import (
	"fmt"
	"time"
)

// baseKeyPart stands in for a missing variant or size in a line key
const baseKeyPart = "base"

// VariantInfo is the color-variant summary carried on a line. Both the id
// and the resolved localized labels are kept so exports stay meaningful if
// the variant is later deleted from the catalog.
type VariantInfo struct {
	ID          uint    `json:"id"`
	SKUSuffix   *string `json:"sku_suffix,omitempty"`
	ColorNameEN string  `json:"color_name_en"`
	ColorNameEL string  `json:"color_name_el"`
	HexColor    *string `json:"hex_color,omitempty"`
}

// SizeInfo is the size-variant summary carried on a line
type SizeInfo struct {
	ID        uint    `json:"id"`
	LabelEN   string  `json:"label_en"`
	LabelEL   string  `json:"label_el"`
	SKUSuffix *string `json:"sku_suffix,omitempty"`
}

// Line is one entry of the selection, uniquely identified by Key.
// Qty is always >= MOQ.
type Line struct {
	Key              string       `json:"key"`
	ProductID        uint         `json:"product_id"`
	SKU              string       `json:"sku"`
	NameEN           string       `json:"name_en"`
	NameEL           string       `json:"name_el"`
	Price            float64      `json:"price"`
	MOQ              int          `json:"moq"`
	Qty              int          `json:"qty"`
	Variant          *VariantInfo `json:"variant,omitempty"`
	Size             *SizeInfo    `json:"size,omitempty"`
	PrimaryImagePath string       `json:"primary_image_path,omitempty"`
}

// State is the whole selection. UpdatedAt is advisory metadata stamped on
// every transition; it is not used for conflict resolution.
type State struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineKey builds the composite key identifying a line: product id plus
// variant and size ids, with "base" standing in for absent options.
func LineKey(productID uint, variantID, sizeID *uint) string {
	variant := baseKeyPart
	if variantID != nil {
		variant = fmt.Sprintf("%d", *variantID)
	}
	size := baseKeyPart
	if sizeID != nil {
		size = fmt.Sprintf("%d", *sizeID)
	}
	return fmt.Sprintf("%d:%s:%s", productID, variant, size)
}

// Action is a selection transition. The concrete types below are the only
// implementations.
type Action interface {
	isAction()
}

// Hydrate replaces the whole collection, used once at startup with
// previously persisted lines.
type Hydrate struct {
	Lines []Line
}

// Add appends a line, or merges it into an existing line with the same key
// by summing quantities. The incoming Qty is expected to be pre-clamped to
// the line's MOQ by the caller.
type Add struct {
	Line Line
}

// UpdateQty sets the quantity of the line with the given key, clamped to
// the line's MOQ. No-op when the key is absent.
type UpdateQty struct {
	Key string
	Qty int
}

// Remove drops the line with the given key. No-op when the key is absent.
type Remove struct {
	Key string
}

// Clear empties the collection
type Clear struct{}

func (Hydrate) isAction()   {}
func (Add) isAction()       {}
func (UpdateQty) isAction() {}
func (Remove) isAction()    {}
func (Clear) isAction()     {}

// Reduce applies an action to a state and returns the next state. It is a
// pure function: the input state is never mutated, and every transition
// stamps a fresh UpdatedAt.
func Reduce(state State, action Action) State {
	now := time.Now()

	switch a := action.(type) {
	case Hydrate:
		lines := make([]Line, len(a.Lines))
		copy(lines, a.Lines)
		return State{Lines: lines, UpdatedAt: now}

	case Add:
		lines := make([]Line, 0, len(state.Lines)+1)
		merged := false
		for _, l := range state.Lines {
			if l.Key == a.Line.Key {
				next := a.Line
				next.Qty = l.Qty + a.Line.Qty
				lines = append(lines, next)
				merged = true
				continue
			}
			lines = append(lines, l)
		}
		if !merged {
			lines = append(lines, a.Line)
		}
		return State{Lines: lines, UpdatedAt: now}

	case UpdateQty:
		lines := make([]Line, len(state.Lines))
		for i, l := range state.Lines {
			if l.Key == a.Key {
				qty := a.Qty
				if qty < l.MOQ {
					qty = l.MOQ
				}
				l.Qty = qty
			}
			lines[i] = l
		}
		return State{Lines: lines, UpdatedAt: now}

	case Remove:
		lines := make([]Line, 0, len(state.Lines))
		for _, l := range state.Lines {
			if l.Key != a.Key {
				lines = append(lines, l)
			}
		}
		return State{Lines: lines, UpdatedAt: now}

	case Clear:
		return State{Lines: []Line{}, UpdatedAt: now}
	}

	return state
}

// Contains reports whether the state holds a line with the given key
func (s State) Contains(key string) bool {
	for _, l := range s.Lines {
		if l.Key == key {
			return true
		}
	}
	return false
}

// QuantityOf returns the quantity of the line with the given key, or zero
func (s State) QuantityOf(key string) int {
	for _, l := range s.Lines {
		if l.Key == key {
			return l.Qty
		}
	}
	return 0
}

// TotalQuantity sums the quantities of all lines
func (s State) TotalQuantity() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Qty
	}
	return total
}

// Subtotal sums unit price times quantity over all lines, in full floating
// precision. Rounding happens only when a document is rendered.
func (s State) Subtotal() float64 {
	var sum float64
	for _, l := range s.Lines {
		sum += l.Price * float64(l.Qty)
	}
	return sum
}
