package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shaikat-CSE/goldennicheims/internal/ledger"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

type CreateProductRequest struct {
	Name              string          `json:"name"`
	Sku               string          `json:"sku"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int64           `json:"quantity"`
	Location          string          `json:"location"`
	MinimumStockLevel *int64          `json:"min_stock_level,omitempty"`
	Notes             string          `json:"notes"`
}

func (r CreateProductRequest) params() ledger.AddProductParams {
	return ledger.AddProductParams{
		Name:              r.Name,
		Sku:               r.Sku,
		Type:              r.Type,
		Price:             r.Price,
		Quantity:          r.Quantity,
		Location:          r.Location,
		MinimumStockLevel: r.MinimumStockLevel,
		Notes:             r.Notes,
	}
}

type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Sku               *string          `json:"sku,omitempty"`
	Type              *string          `json:"type,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Location          *string          `json:"location,omitempty"`
	MinimumStockLevel *int64           `json:"min_stock_level,omitempty"`
}

func (r UpdateProductRequest) update() ledger.ProductUpdate {
	return ledger.ProductUpdate{
		Name:              r.Name,
		Sku:               r.Sku,
		Type:              r.Type,
		Price:             r.Price,
		Location:          r.Location,
		MinimumStockLevel: r.MinimumStockLevel,
	}
}

type BootstrapRequest struct {
	Products []model.Product `json:"products"`
}

type BootstrapResponse struct {
	Imported int `json:"imported"`
}

type RecordMovementRequest struct {
	Product         int64           `json:"product"`
	Quantity        int64           `json:"quantity"`
	Type            string          `json:"type"`
	IsWastage       bool            `json:"is_wastage"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Notes           string          `json:"notes"`
	ReferenceNumber string          `json:"reference_number"`
}

func (r RecordMovementRequest) params() ledger.RecordMovementParams {
	return ledger.RecordMovementParams{
		Product:         r.Product,
		Quantity:        r.Quantity,
		Type:            model.MovementType(r.Type),
		IsWastage:       r.IsWastage,
		UnitPrice:       r.UnitPrice,
		Notes:           r.Notes,
		ReferenceNumber: r.ReferenceNumber,
	}
}

// StockRowsRequest carries edited grid rows.
type StockRowsRequest struct {
	Rows []model.ProductView `json:"rows"`
}

type SyncResponse struct {
	Reconciliation ledger.Reconciliation `json:"reconciliation"`
	Result         ledger.ApplyResult    `json:"result"`
}

type StockResponse struct {
	From *time.Time          `json:"from,omitempty"`
	To   *time.Time          `json:"to,omitempty"`
	Rows []model.ProductView `json:"rows"`
}

type ImportResponse struct {
	Rows []model.ProductView `json:"rows"`
}
