package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLine(productID uint, qty int) Line {
	return Line{
		Key:       LineKey(productID, nil, nil),
		ProductID: productID,
		SKU:       "SKU-1",
		NameEN:    "Olive Wood Bowl",
		NameEL:    "Μπολ από ξύλο ελιάς",
		Price:     12.50,
		MOQ:       6,
		Qty:       qty,
	}
}

func TestLineKey(t *testing.T) {
	variantID := uint(4)
	sizeID := uint(9)

	assert.Equal(t, "7:base:base", LineKey(7, nil, nil))
	assert.Equal(t, "7:4:base", LineKey(7, &variantID, nil))
	assert.Equal(t, "7:base:9", LineKey(7, nil, &sizeID))
	assert.Equal(t, "7:4:9", LineKey(7, &variantID, &sizeID))
}

func TestReduce_AddNewLine(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 6, state.Lines[0].Qty)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestReduce_AddMergesSameKey(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})
	state = Reduce(state, Add{Line: testLine(1, 10)})

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 16, state.Lines[0].Qty)
}

func TestReduce_AddDistinctOptionsAreDistinctLines(t *testing.T) {
	variantID := uint(3)
	withVariant := testLine(1, 6)
	withVariant.Key = LineKey(1, &variantID, nil)

	state := Reduce(State{}, Add{Line: testLine(1, 6)})
	state = Reduce(state, Add{Line: withVariant})

	assert.Len(t, state.Lines, 2)
}

func TestReduce_UpdateQtyClampsToMOQ(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})

	state = Reduce(state, UpdateQty{Key: state.Lines[0].Key, Qty: 2})
	assert.Equal(t, 6, state.Lines[0].Qty, "quantity below MOQ clamps up")

	state = Reduce(state, UpdateQty{Key: state.Lines[0].Key, Qty: 50})
	assert.Equal(t, 50, state.Lines[0].Qty)
}

func TestReduce_UpdateQtyUnknownKeyIsNoop(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})
	next := Reduce(state, UpdateQty{Key: "99:base:base", Qty: 10})

	require.Len(t, next.Lines, 1)
	assert.Equal(t, 6, next.Lines[0].Qty)
}

func TestReduce_RemoveIsIdempotent(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})
	key := state.Lines[0].Key

	state = Reduce(state, Remove{Key: key})
	assert.Empty(t, state.Lines)

	state = Reduce(state, Remove{Key: key})
	assert.Empty(t, state.Lines)
}

func TestReduce_Clear(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})
	state = Reduce(state, Add{Line: testLine(2, 12)})

	state = Reduce(state, Clear{})
	assert.Empty(t, state.Lines)
	assert.NotNil(t, state.Lines)
}

func TestReduce_HydrateReplacesWholesale(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})

	state = Reduce(state, Hydrate{Lines: []Line{testLine(2, 12), testLine(3, 6)}})
	require.Len(t, state.Lines, 2)
	assert.False(t, state.Contains("1:base:base"))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	original := Reduce(State{}, Add{Line: testLine(1, 6)})

	_ = Reduce(original, UpdateQty{Key: original.Lines[0].Key, Qty: 40})
	assert.Equal(t, 6, original.Lines[0].Qty)

	_ = Reduce(original, Clear{})
	assert.Len(t, original.Lines, 1)
}

func TestState_Subtotal(t *testing.T) {
	a := testLine(1, 3)
	a.Price = 10.00
	b := testLine(2, 2)
	b.Price = 5.50

	state := Reduce(State{}, Add{Line: a})
	state = Reduce(state, Add{Line: b})

	assert.InDelta(t, 41.00, state.Subtotal(), 1e-9)
	assert.Equal(t, 5, state.TotalQuantity())
}

func TestState_QuantityOf(t *testing.T) {
	state := Reduce(State{}, Add{Line: testLine(1, 6)})

	assert.Equal(t, 6, state.QuantityOf("1:base:base"))
	assert.Equal(t, 0, state.QuantityOf("2:base:base"))
}
