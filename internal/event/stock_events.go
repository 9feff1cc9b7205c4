package event

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicProductCreated   = "stock.product.created"
	TopicMovementRecorded = "stock.movement.recorded"
)

type ProductCreatedEvent struct {
	Tenant            string          `json:"tenant"`
	ProductID         int64           `json:"product_id"`
	Name              string          `json:"name"`
	Sku               string          `json:"sku"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	MinimumStockLevel int64           `json:"min_stock_level"`
}

// MovementRecordedEvent carries the movement and the product's stock right
// after it was booked.
type MovementRecordedEvent struct {
	Tenant            string          `json:"tenant"`
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Type              string          `json:"type"`
	Quantity          int64           `json:"quantity"`
	IsWastage         bool            `json:"is_wastage"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ReferenceNumber   string          `json:"reference_number"`
	StockLevel        int64           `json:"stock_level"`
	MinimumStockLevel int64           `json:"min_stock_level"`
	Timestamp         time.Time       `json:"timestamp"`
	User              string          `json:"user"`
}

// IsLowStock reports whether the movement left the product at or below its
// minimum stock level. Movements of unknown products never are.
func (ev MovementRecordedEvent) IsLowStock() bool {
	return ev.ProductName != "" && ev.StockLevel <= ev.MinimumStockLevel
}
