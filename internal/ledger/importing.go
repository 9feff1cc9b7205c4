package ledger

import (
	"strings"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

// MatchImported ties imported rows to existing products, by SKU first and
// then by name, case-insensitively. A matched row takes the product's id and
// details; the price and location from the sheet win when present. Unmatched
// rows get id 0 so that reconciling them creates new products. Rows without
// a name are dropped.
func (l *Ledger) MatchImported(rows []model.ProductView) []model.ProductView {
	bySku := make(map[string]model.Product, len(l.products))
	byName := make(map[string]model.Product, len(l.products))
	for _, p := range l.products {
		if k := matchKey(p.Sku); k != "" {
			if _, ok := bySku[k]; !ok {
				bySku[k] = p
			}
		}
		if k := matchKey(p.Name); k != "" {
			if _, ok := byName[k]; !ok {
				byName[k] = p
			}
		}
	}

	out := make([]model.ProductView, 0, len(rows))
	for _, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.Sku = strings.TrimSpace(row.Sku)
		if row.Name == "" {
			continue
		}

		p, ok := bySku[matchKey(row.Sku)]
		if !ok || row.Sku == "" {
			p, ok = byName[matchKey(row.Name)]
		}
		if !ok {
			row.ID = 0
			out = append(out, row)
			continue
		}

		matched := model.NewProductView(p)
		if row.HasPrice() {
			matched.Price = row.Price
		}
		if row.Location != "" {
			matched.Location = row.Location
		}
		matched.Quantity = row.Quantity
		matched.Wastage = row.Wastage
		matched.Notes = row.Notes
		out = append(out, matched)
	}

	return out
}

func matchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
