package export

import (
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/selection"
)

// ToEnquiryPayload maps selection lines to the denormalized snapshot records
// embedded in an enquiry. Each record carries variant/size identifiers for
// backend cross-reference and the resolved localized labels, so the snapshot
// stays readable even after the variant is deleted. Pure function of its
// input; the selection is never touched.
func ToEnquiryPayload(lines []selection.Line) []model.EnquiryLine {
	records := make([]model.EnquiryLine, 0, len(lines))
	for _, l := range lines {
		record := model.EnquiryLine{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			NameEN:    l.NameEN,
			NameEL:    l.NameEL,
			Qty:       l.Qty,
			Price:     l.Price,
		}
		if l.Variant != nil {
			id := l.Variant.ID
			record.VariantID = &id
			record.VariantColorEN = l.Variant.ColorNameEN
			record.VariantColorEL = l.Variant.ColorNameEL
		}
		if l.Size != nil {
			id := l.Size.ID
			record.SizeID = &id
			record.SizeLabelEN = l.Size.LabelEN
			record.SizeLabelEL = l.Size.LabelEL
		}
		records = append(records, record)
	}
	return records
}
