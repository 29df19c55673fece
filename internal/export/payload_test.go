package export

import (
	"testing"

	"github.com/mstavrou/epresent-backend/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []selection.Line {
	variantID := uint(4)
	sizeID := uint(9)
	return []selection.Line{
		{
			Key:       selection.LineKey(1, &variantID, &sizeID),
			ProductID: 1,
			SKU:       "BAG-001",
			NameEN:    "Leather Tote",
			NameEL:    "Δερμάτινη τσάντα",
			Price:     10.00,
			MOQ:       1,
			Qty:       3,
			Variant: &selection.VariantInfo{
				ID:          variantID,
				ColorNameEN: "Brown",
				ColorNameEL: "Καφέ",
			},
			Size: &selection.SizeInfo{
				ID:      sizeID,
				LabelEN: "Large",
				LabelEL: "Μεγάλο",
			},
		},
		{
			Key:       selection.LineKey(2, nil, nil),
			ProductID: 2,
			SKU:       "MUG-014",
			NameEN:    "Ceramic Mug",
			NameEL:    "Κεραμική κούπα",
			Price:     5.50,
			MOQ:       2,
			Qty:       2,
		},
	}
}

func TestToEnquiryPayload(t *testing.T) {
	records := ToEnquiryPayload(sampleLines())
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, uint(1), first.ProductID)
	assert.Equal(t, "BAG-001", first.SKU)
	assert.Equal(t, 3, first.Qty)
	require.NotNil(t, first.VariantID)
	assert.Equal(t, uint(4), *first.VariantID)
	assert.Equal(t, "Brown", first.VariantColorEN)
	assert.Equal(t, "Καφέ", first.VariantColorEL)
	require.NotNil(t, first.SizeID)
	assert.Equal(t, "Μεγάλο", first.SizeLabelEL)

	second := records[1]
	assert.Nil(t, second.VariantID)
	assert.Nil(t, second.SizeID)
	assert.Empty(t, second.VariantColorEN)
}

func TestToEnquiryPayload_Empty(t *testing.T) {
	records := ToEnquiryPayload(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
