// Package tabular renders the derived stock view as CSV, XLSX and PDF files
// and reads edited sheets back into grid rows.
package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Columns is the header row shared by every export, import and the template.
var Columns = []string{
	"ID",
	"Product Name",
	"SKU",
	"Type",
	"Current Stock",
	"Wastage",
	"Unit Price",
	"Location",
	"Notes",
}

// ParseFormat accepts a format name or a file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	case "excel", "xls":
		return FormatXLSX, nil
	default:
		return "", apperr.UnsupportedFormatErr.WithMsg(fmt.Sprintf("unsupported file format %q", s))
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Filename names an export taken at t, e.g. stock_data_20240301_0930.csv.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("stock_data_%s.%s", t.Format("20060102_1504"), f)
}

// Importable reports whether sheets of this format can be read back.
func (f Format) Importable() bool {
	return f == FormatCSV || f == FormatXLSX
}
