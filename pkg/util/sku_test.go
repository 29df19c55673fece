package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Lowercase is uppercased",
			input: "bag-001",
			want:  "BAG-001",
		},
		{
			name:  "Whitespace is trimmed",
			input: "  mug-014 ",
			want:  "MUG-014",
		},
		{
			name:  "Already normalized",
			input: "TOTE-7",
			want:  "TOTE-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSKU(tt.input))
		})
	}
}

func TestValidSKU(t *testing.T) {
	tests := []struct {
		name string
		sku  string
		want bool
	}{
		{
			name: "Alphanumeric with hyphens",
			sku:  "BAG-001",
			want: true,
		},
		{
			name: "Single segment",
			sku:  "BAG001",
			want: true,
		},
		{
			name: "Lowercase rejected",
			sku:  "bag-001",
			want: false,
		},
		{
			name: "Spaces rejected",
			sku:  "BAG 001",
			want: false,
		},
		{
			name: "Leading hyphen rejected",
			sku:  "-BAG-001",
			want: false,
		},
		{
			name: "Trailing hyphen rejected",
			sku:  "BAG-001-",
			want: false,
		},
		{
			name: "Double hyphen rejected",
			sku:  "BAG--001",
			want: false,
		},
		{
			name: "Empty rejected",
			sku:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSKU(tt.sku))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Simple name",
			input: "Olive Wood Products",
			want:  "olive-wood-products",
		},
		{
			name:  "Punctuation collapses to single hyphen",
			input: "Bags & Totes",
			want:  "bags-totes",
		},
		{
			name:  "Leading and trailing noise",
			input: "  Ceramics!  ",
			want:  "ceramics",
		},
		{
			name:  "Digits survive",
			input: "Summer 2026",
			want:  "summer-2026",
		},
		{
			name:  "Non-latin characters drop out",
			input: "Κεραμικά",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
