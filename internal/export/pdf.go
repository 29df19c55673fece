package export

import (
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/selection"
)

// pdfLabels holds the localized strings of the summary document
type pdfLabels struct {
	subtitle  string
	selection string
	products  string
	sku       string
	product   string
	color     string
	size      string
	qty       string
	price     string
	total     string
	note      string
}

var pdfLabelsByLocale = map[string]pdfLabels{
	model.LocaleEN: {
		subtitle:  "Wholesale Tourist Products",
		selection: "Product Selection",
		products:  "Selected Products",
		sku:       "SKU",
		product:   "Product",
		color:     "Color",
		size:      "Size",
		qty:       "Qty",
		price:     "Price",
		total:     "Estimated Total:",
		note:      "This selection was created via the ePresent catalog. Prices shown are indicative wholesale prices. Contact us to finalise your order.",
	},
	model.LocaleEL: {
		subtitle:  "Τουριστικά Προϊόντα Χονδρικής",
		selection: "Επιλογή Προϊόντων",
		products:  "Επιλεγμένα Προϊόντα",
		sku:       "Κωδικός",
		product:   "Προϊόν",
		color:     "Χρώμα",
		size:      "Μέγεθος",
		qty:       "Ποσ.",
		price:     "Τιμή",
		total:     "Εκτιμώμενο Σύνολο:",
		note:      "Αυτή η επιλογή δημιουργήθηκε μέσω του καταλόγου ePresent. Οι τιμές είναι ενδεικτικές τιμές χονδρικής. Επικοινωνήστε μαζί μας για να ολοκληρώσετε την παραγγελία σας.",
	},
}

// Column widths in mm; the A4 content width with 15mm margins is 180mm
var pdfColWidths = [6]float64{30, 58, 25, 25, 16, 26}

// RenderSelectionPDF writes an A4 summary document of the given selection
// lines: a header block, one table row per line with localized labels, and
// the EUR subtotal. Pure function of the snapshot handed in; the caller
// passes a copy so concurrent selection changes cannot tear the document.
func RenderSelectionPDF(w io.Writer, lines []selection.Line, locale string) error {
	labels, ok := pdfLabelsByLocale[locale]
	if !ok {
		labels = pdfLabelsByLocale[model.LocaleEN]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	// Core fonts are Latin-1; Greek text goes through the cp1253 translator
	tr := pdf.UnicodeTranslatorFromDescriptor("greek")
	pdf.AddPage()

	// Header block
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(28, 25, 23)
	pdf.CellFormat(0, 9, "ePresent", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 113, 108)
	pdf.CellFormat(0, 5, tr(labels.subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetDrawColor(28, 25, 23)
	pdf.SetLineWidth(0.6)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	// Title and date row
	dateStr := time.Now().Format("2 January 2006")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(90, 5, tr(labels.selection), "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 5, dateStr, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(28, 25, 23)
	pdf.CellFormat(0, 6, tr(labels.products), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	// Table header
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetTextColor(120, 113, 108)
	pdf.SetFillColor(245, 245, 244)
	headers := [6]string{labels.sku, labels.product, labels.color, labels.size, labels.qty, labels.price}
	aligns := [6]string{"L", "L", "L", "L", "R", "R"}
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(pdfColWidths[i], 7, tr(h), "", last, aligns[i], true, 0, "")
	}

	// Rows
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(28, 25, 23)
	pdf.SetDrawColor(231, 229, 228)
	pdf.SetLineWidth(0.2)
	for _, line := range lines {
		color := "-"
		if line.Variant != nil {
			if locale == model.LocaleEL {
				color = line.Variant.ColorNameEL
			} else {
				color = line.Variant.ColorNameEN
			}
		}
		size := "-"
		if line.Size != nil {
			if locale == model.LocaleEL {
				size = line.Size.LabelEL
			} else {
				size = line.Size.LabelEN
			}
		}
		name := line.NameEN
		if locale == model.LocaleEL {
			name = line.NameEL
		}

		cells := [6]string{
			line.SKU,
			name,
			color,
			size,
			strconv.Itoa(line.Qty),
			FormatEUR(line.Price * float64(line.Qty)),
		}
		for i, cell := range cells {
			last := 0
			if i == len(cells)-1 {
				last = 1
			}
			pdf.CellFormat(pdfColWidths[i], 6, tr(cell), "", last, aligns[i], false, 0, "")
		}
		pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	}

	// Subtotal: full precision sum, rounded only by the formatter
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Qty)
	}

	pdf.Ln(2)
	pdf.SetDrawColor(28, 25, 23)
	pdf.SetLineWidth(0.4)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(140, 7, tr(labels.total), "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(40, 7, tr(FormatEUR(subtotal)), "", 1, "R", false, 0, "")

	// Footer note
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 113, 108)
	pdf.SetFillColor(250, 250, 249)
	pdf.MultiCell(0, 4.5, tr(labels.note), "", "L", true)

	return pdf.Output(w)
}
