package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

type field int

const (
	fieldID field = iota
	fieldName
	fieldSku
	fieldType
	fieldQuantity
	fieldWastage
	fieldPrice
	fieldLocation
	fieldNotes
	fieldCount
)

// headerAliases maps normalised header text to a field. Headers are
// lower-cased with spaces turned into underscores before lookup.
var headerAliases = map[string]field{
	"id":            fieldID,
	"product_id":    fieldID,
	"product_name":  fieldName,
	"product":       fieldName,
	"name":          fieldName,
	"sku":           fieldSku,
	"type":          fieldType,
	"current_stock": fieldQuantity,
	"quantity":      fieldQuantity,
	"stock":         fieldQuantity,
	"wastage":       fieldWastage,
	"unit_price":    fieldPrice,
	"price":         fieldPrice,
	"location":      fieldLocation,
	"notes":         fieldNotes,
}

// Import reads grid rows from a CSV or XLSX sheet. Without headers the
// columns are taken in export order. Blank lines are skipped; cells that do
// not hold a number where one is expected fail the import.
func Import(r io.Reader, format Format, hasHeaders bool) ([]model.ProductView, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, apperr.UnsupportedFormatErr.WithMsg(fmt.Sprintf("cannot import %s files", format))
	}
	if err != nil {
		return nil, apperr.ValidationErr.WithMsg("unreadable sheet").WrapParent(err)
	}

	return mapRecords(records, hasHeaders)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func mapRecords(records [][]string, hasHeaders bool) ([]model.ProductView, error) {
	index := positional()
	if hasHeaders {
		if len(records) == 0 {
			return []model.ProductView{}, nil
		}
		index = fromHeader(records[0])
		if index[fieldName] < 0 {
			return nil, apperr.ValidationErr.WithMsg("sheet has no product name column")
		}
		records = records[1:]
	}

	rows := make([]model.ProductView, 0, len(records))
	for i, rec := range records {
		if blank(rec) {
			continue
		}
		line := i + 1
		if hasHeaders {
			line++
		}
		row, err := mapRecord(rec, index, hasHeaders)
		if err != nil {
			return nil, apperr.ValidationErr.WithMsg(fmt.Sprintf("line %d: %s", line, err)).WrapParent(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func positional() [fieldCount]int {
	var index [fieldCount]int
	for f := range fieldCount {
		index[f] = int(f)
	}
	return index
}

func fromHeader(header []string) [fieldCount]int {
	var index [fieldCount]int
	for f := range fieldCount {
		index[f] = -1
	}
	for col, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if f, ok := headerAliases[key]; ok && index[f] < 0 {
			index[f] = col
		}
	}
	return index
}

func mapRecord(rec []string, index [fieldCount]int, withID bool) (model.ProductView, error) {
	cell := func(f field) string {
		i := index[f]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := model.ProductView{
		Name:              cell(fieldName),
		Sku:               cell(fieldSku),
		Type:              cell(fieldType),
		Location:          cell(fieldLocation),
		Notes:             cell(fieldNotes),
		MinimumStockLevel: model.DefaultMinimumStockLevel,
	}
	if row.Type == "" {
		row.Type = model.DefaultProductType
	}

	var err error
	if withID {
		if row.ID, err = model.ParseQuantity(cell(fieldID)); err != nil {
			row.ID = 0
		}
	}
	if row.Quantity, err = model.ParseQuantity(cell(fieldQuantity)); err != nil {
		return model.ProductView{}, fmt.Errorf("current stock: %w", err)
	}
	if row.Wastage, err = model.ParseQuantity(cell(fieldWastage)); err != nil {
		return model.ProductView{}, fmt.Errorf("wastage: %w", err)
	}
	if row.Price, err = model.ParseDecimal(cell(fieldPrice)); err != nil {
		return model.ProductView{}, fmt.Errorf("unit price: %w", err)
	}
	row.PriceSet = cell(fieldPrice) != ""
	return row, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
