package model

import (
	"github.com/shopspring/decimal"
)

const (
	DefaultProductType       = "Raw Material"
	DefaultMinimumStockLevel = 5
)

// Product is a stock item of the ledger. Quantities are never stored on the
// product; they are derived from movements.
type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Sku               string          `json:"sku"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	Location          string          `json:"location"`
	MinimumStockLevel int64           `json:"min_stock_level"`
}

// SameDetails reports whether the descriptive fields shown in the stock grid match.
func (p Product) SameDetails(o Product) bool {
	return p.Name == o.Name &&
		p.Sku == o.Sku &&
		p.Type == o.Type &&
		p.Price.Equal(o.Price) &&
		p.Location == o.Location
}
