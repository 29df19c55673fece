package export

import (
	"fmt"
	"io"
	"time"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

var enquiryColumns = []string{
	"Enquiry ID", "Created", "Status", "Name", "Email", "Company", "Phone",
	"SKU", "Product (EN)", "Product (EL)", "Color", "Size", "Qty", "Unit Price", "Line Total",
}

// WriteEnquiriesXLSX writes a workbook with one row per snapshot line,
// enquiry contact fields repeated on each of its rows. Enquiries with an
// empty snapshot still get a single row.
func WriteEnquiriesXLSX(w io.Writer, enquiries []model.Enquiry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Enquiries"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range enquiryColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	row := 2
	for _, enquiry := range enquiries {
		lines := enquiry.CartSnapshot
		if len(lines) == 0 {
			if err := setRow(f, sheet, row, enquiryCells(&enquiry, nil)); err != nil {
				return err
			}
			row++
			continue
		}
		for i := range lines {
			if err := setRow(f, sheet, row, enquiryCells(&enquiry, &lines[i])); err != nil {
				return err
			}
			row++
		}
	}

	return f.Write(w)
}

func enquiryCells(enquiry *model.Enquiry, line *model.EnquiryLine) []interface{} {
	cells := []interface{}{
		enquiry.ID,
		enquiry.CreatedAt.Format("2006-01-02 15:04"),
		string(enquiry.Status),
		enquiry.Name,
		enquiry.Email,
		deref(enquiry.Company),
		deref(enquiry.Phone),
	}
	if line == nil {
		return append(cells, "", "", "", "", "", "", "", "")
	}
	return append(cells,
		line.SKU,
		line.NameEN,
		line.NameEL,
		line.VariantColorEN,
		line.SizeLabelEN,
		line.Qty,
		line.Price,
		line.Price*float64(line.Qty),
	)
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EnquiryExportFilename returns a dated attachment filename for an export.
func EnquiryExportFilename(now time.Time) string {
	return fmt.Sprintf("enquiries-%s.xlsx", now.Format("2006-01-02"))
}
