package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleEnquiries() []model.Enquiry {
	company := "Tourist Shop Ltd"
	return []model.Enquiry{
		{
			ID:        1,
			Name:      "Maria Papadaki",
			Email:     "maria@example.gr",
			Company:   &company,
			Status:    model.EnquiryStatusNew,
			CreatedAt: time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
			CartSnapshot: model.EnquiryLines{
				{ProductID: 1, SKU: "BAG-001", NameEN: "Leather Tote", NameEL: "Δερμάτινη τσάντα", Qty: 3, Price: 10.00},
				{ProductID: 2, SKU: "MUG-014", NameEN: "Ceramic Mug", NameEL: "Κεραμική κούπα", Qty: 2, Price: 5.50},
			},
		},
		{
			ID:        2,
			Name:      "John Smith",
			Email:     "john@example.com",
			Status:    model.EnquiryStatusRead,
			CreatedAt: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteEnquiriesXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEnquiriesXLSX(&buf, sampleEnquiries())
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Enquiries")
	require.NoError(t, err)

	// Header + two snapshot lines + one snapshot-less enquiry row.
	require.Len(t, rows, 4)
	assert.Equal(t, "Enquiry ID", rows[0][0])
	assert.Equal(t, "BAG-001", rows[1][7])
	assert.Equal(t, "MUG-014", rows[2][7])

	// Contact fields repeat on every row of the same enquiry.
	assert.Equal(t, rows[1][3], rows[2][3])

	// Enquiry without lines still appears.
	assert.Equal(t, "2", rows[3][0])
	assert.Equal(t, "John Smith", rows[3][3])
}

func TestEnquiryExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "enquiries-2026-08-30.xlsx", EnquiryExportFilename(now))
}
