package report

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// branding is the per-pharmacy text printed on every report.
type branding struct {
	Pharmacy string
	Logo     string
	Footer   string
}

const (
	pdfRowHeight    = 7.0
	pdfHeaderHeight = 8.0
	pdfFont         = "Helvetica"
)

// renderPDF writes the table as a landscape A4 document.
func renderPDF(path string, t *table, brand branding, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator(brand.Pharmacy, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 6, tr(brand.Logo+" - "+t.Title), "B", 1, "L", false, 0, "")
		pdf.Ln(3)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		left, _, _, _ := pdf.GetMargins()
		pdf.CellFormat(0, 8, tr(brand.Footer), "", 0, "L", false, 0, "")
		pdf.SetX(left)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	// Cover.
	pdf.AddPage()
	pdf.SetY(60)
	pdf.SetFont(pdfFont, "B", 28)
	pdf.SetTextColor(20, 90, 60)
	pdf.CellFormat(0, 14, tr(brand.Logo), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "B", 20)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 12, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 12)
	pdf.CellFormat(0, 8, tr(brand.Pharmacy), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, tr("Period: "+t.Period), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, tr("Generated on "+generatedAt.Format(dateLayout)), "", 1, "C", false, 0, "")

	pdf.AddPage()
	writePDFTable(pdf, tr, t)
	writePDFSummary(pdf, tr, t.Summary)

	if pdf.Err() {
		return fmt.Errorf("failed to render PDF: %w", pdf.Error())
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func columnWidths(pdf *fpdf.Fpdf, cols []column) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	var total float64
	for _, c := range cols {
		total += c.Weight
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = usable * c.Weight / total
	}
	return widths
}

// fit truncates s so it renders within width, marking the cut with "...".
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func writePDFHeaderRow(pdf *fpdf.Fpdf, tr func(string) string, cols []column, widths []float64) {
	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetFillColor(20, 90, 60)
	pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		pdf.CellFormat(widths[i], pdfHeaderHeight, tr(c.Header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, t *table) {
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 10, tr(t.Title+" ("+t.Period+")"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(t.Rows) == 0 {
		pdf.SetFont(pdfFont, "I", 11)
		pdf.CellFormat(0, 8, "No data for this period.", "", 1, "L", false, 0, "")
		return
	}

	widths := columnWidths(pdf, t.Columns)
	writePDFHeaderRow(pdf, tr, t.Columns, widths)

	for n, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-bottom-15 {
			pdf.AddPage()
			writePDFHeaderRow(pdf, tr, t.Columns, widths)
		}
		pdf.SetFont(pdfFont, "", 9)
		pdf.SetTextColor(30, 30, 30)
		if n%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(238, 245, 240)
		}
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(cell), widths[i]-2), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writePDFSummary(pdf *fpdf.Fpdf, tr func(string) string, lines []summaryLine) {
	if len(lines) == 0 {
		return
	}
	pdf.Ln(6)
	pdf.SetFont(pdfFont, "B", 13)
	pdf.SetTextColor(20, 90, 60)
	pdf.CellFormat(0, 9, "Summary", "", 1, "L", false, 0, "")
	for _, l := range lines {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.SetTextColor(30, 30, 30)
		pdf.CellFormat(70, 7, tr(l.Label), "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.CellFormat(0, 7, tr(l.Value), "", 1, "L", false, 0, "")
	}
}
