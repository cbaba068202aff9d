package report

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	dataSheet    = "Report"
	summarySheet = "Summary"
	firstDataRow = 5 // rows 1-3 carry the title block, row 4 is blank
	maxColWidth  = 60.0
	minColWidth  = 10.0
)

// renderXLSX writes the table to a workbook with a data sheet and a summary sheet.
func renderXLSX(path string, t *table, brand branding, generatedAt time.Time) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), dataSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "145A3C"}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"145A3C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	title := [][]interface{}{
		{brand.Logo + " - " + t.Title},
		{brand.Pharmacy + " | Period: " + t.Period},
		{"Generated on " + generatedAt.Format(dateLayout)},
	}
	for i, row := range title {
		if err := f.SetSheetRow(dataSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write title: %w", err)
		}
	}
	if err := f.SetCellStyle(dataSheet, "A1", "A1", titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}

	widths := make([]int, len(t.Columns))
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Header
		widths[i] = utf8.RuneCountInString(c.Header)
	}
	if err := writeRow(f, dataSheet, firstDataRow, header); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, firstDataRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), firstDataRow)
		if err := f.SetCellStyle(dataSheet, first, last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for n, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cell
			if i < len(widths) {
				if w := utf8.RuneCountInString(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
		if err := writeRow(f, dataSheet, firstDataRow+1+n, values); err != nil {
			return err
		}
	}
	if err := autosize(f, dataSheet, widths); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRow(f, summarySheet, 1, []interface{}{"Indicator", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	summaryWidths := []int{len("Indicator"), len("Value")}
	for n, l := range t.Summary {
		if err := writeRow(f, summarySheet, n+2, []interface{}{l.Label, l.Value}); err != nil {
			return err
		}
		if w := utf8.RuneCountInString(l.Label); w > summaryWidths[0] {
			summaryWidths[0] = w
		}
		if w := utf8.RuneCountInString(l.Value); w > summaryWidths[1] {
			summaryWidths[1] = w
		}
	}
	if err := autosize(f, summarySheet, summaryWidths); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func autosize(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(w) + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if width < minColWidth {
			width = minColWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}
	return nil
}
