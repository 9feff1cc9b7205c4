package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeIn  MovementType = "IN"
	MovementTypeOut MovementType = "OUT"
)

func (t MovementType) Validate() error {
	switch t {
	case MovementTypeIn, MovementTypeOut:
		return nil
	default:
		return fmt.Errorf("invalid movement type: %q", string(t))
	}
}

// ParseMovementType accepts the type case-insensitively.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// StockMovement is an immutable record of one stock quantity change.
type StockMovement struct {
	Product         int64           `json:"product"`
	Quantity        int64           `json:"quantity"`
	Type            MovementType    `json:"type"`
	IsWastage       bool            `json:"is_wastage"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Notes           string          `json:"notes"`
	ReferenceNumber string          `json:"reference_number"`
	Timestamp       time.Time       `json:"timestamp"`
	User            string          `json:"user"`
}

// Delta is the signed quantity the movement contributes to its product.
func (m StockMovement) Delta() int64 {
	if m.Type == MovementTypeIn {
		return m.Quantity
	}
	return -m.Quantity
}
