package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

const (
	stockSheet    = "Stock Data"
	templateSheet = "Template"
	reportTitle   = "Stock Data Report"
)

// Export writes rows to w in the given format. generatedAt is printed on PDF
// reports.
func Export(w io.Writer, format Format, rows []model.ProductView, generatedAt time.Time) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatPDF:
		return WritePDF(w, rows, generatedAt)
	default:
		_, err := ParseFormat(string(format))
		return err
	}
}

func record(row model.ProductView) []string {
	return []string{
		strconv.FormatInt(row.ID, 10),
		row.Name,
		row.Sku,
		row.Type,
		strconv.FormatInt(row.Quantity, 10),
		strconv.FormatInt(row.Wastage, 10),
		row.Price.StringFixed(2),
		row.Location,
		row.Notes,
	}
}

func WriteCSV(w io.Writer, rows []model.ProductView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func WriteXLSX(w io.Writer, rows []model.ProductView) error {
	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.ID,
			row.Name,
			row.Sku,
			row.Type,
			row.Quantity,
			row.Wastage,
			row.Price.InexactFloat64(),
			row.Location,
			row.Notes,
		})
	}
	return writeWorkbook(w, stockSheet, values)
}

// WriteTemplate writes an import template with two sample rows.
func WriteTemplate(w io.Writer) error {
	samples := [][]any{
		{"", "Product A", "SKU-A", "Raw Material", 100, 0, 25.50, "Warehouse A", "Sample note"},
		{"", "Product B", "SKU-B", "Finished Product", 50, 2, 45.75, "Store 1", ""},
	}
	return writeWorkbook(w, templateSheet, samples)
}

func writeWorkbook(w io.Writer, sheet string, values [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E7E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("new header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, row := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 30); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "H", 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "I", "I", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Widths of the PDF table columns in mm, landscape A4.
var pdfWidths = []float64{15, 55, 30, 30, 22, 20, 22, 30, 53}

func WritePDF(w io.Writer, rows []model.ProductView, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(231, 230, 230)
		for i, c := range Columns {
			pdf.CellFormat(pdfWidths[i], 7, tr(c), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on: "+generatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, cell := range record(row) {
			align := "L"
			if i == 0 || (i >= 4 && i <= 6) {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, fit(pdf, tr(cell), pdfWidths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit cuts s to its first line within width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if s == "" || pdf.GetStringWidth(s) <= width {
		return s
	}
	lines := pdf.SplitText(s, width)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
