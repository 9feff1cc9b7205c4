package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductView is one row of the stock grid: the product details plus the
// values derived from its movements.
type ProductView struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Sku               string          `json:"sku"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	Location          string          `json:"location"`
	MinimumStockLevel int64           `json:"min_stock_level"`
	Quantity          int64           `json:"quantity"`
	Wastage           int64           `json:"wastage"`
	Notes             string          `json:"notes"`

	// PriceSet records that a decoded row carried a price cell, so that an
	// explicit zero can be told from a missing one.
	PriceSet bool `json:"-"`
}

// NewProductView seeds a zero-valued view of p.
func NewProductView(p Product) ProductView {
	return ProductView{
		ID:                p.ID,
		Name:              p.Name,
		Sku:               p.Sku,
		Type:              p.Type,
		Price:             p.Price,
		Location:          p.Location,
		MinimumStockLevel: p.MinimumStockLevel,
	}
}

// Product returns the descriptive part of the row.
func (v ProductView) Product() Product {
	return Product{
		ID:                v.ID,
		Name:              v.Name,
		Sku:               v.Sku,
		Type:              v.Type,
		Price:             v.Price,
		Location:          v.Location,
		MinimumStockLevel: v.MinimumStockLevel,
	}
}

// HasPrice reports whether the row states a price.
func (v ProductView) HasPrice() bool {
	return v.PriceSet || !v.Price.IsZero()
}

// IsLowStock reports whether the row is at or below its reorder threshold.
func (v ProductView) IsLowStock() bool {
	return v.Quantity <= v.MinimumStockLevel
}

// Activity is an entry of the ledger's activity log.
type Activity struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Summary aggregates a set of rows.
type Summary struct {
	Products      int             `json:"products"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalWastage  int64           `json:"total_wastage"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStock      int             `json:"low_stock"`
}

// Summarize folds rows into a Summary. Value is quantity times unit price.
func Summarize(rows []ProductView) Summary {
	s := Summary{TotalValue: decimal.Zero}
	for _, r := range rows {
		s.Products++
		s.TotalQuantity += r.Quantity
		s.TotalWastage += r.Wastage
		s.TotalValue = s.TotalValue.Add(r.Price.Mul(decimal.NewFromInt(r.Quantity)))
		if r.IsLowStock() {
			s.LowStock++
		}
	}
	return s
}
