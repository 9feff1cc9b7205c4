package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Values coming from stored blobs, grid edits and imported sheets may carry
// numbers as strings ("1,250.50", "10") and older field names. They are
// coerced here and nowhere else.

var errInvalidNumber = errors.New("invalid number")

// ParseDecimal coerces a JSON-ish value to a decimal. nil and blank strings
// are zero. Plain and exponent forms parse as is; otherwise strings keep
// digits, '.' and a leading '-' only, so "1,250.50" and "$ 3" parse.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", errInvalidNumber, x.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, nil
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d, nil
		}
		neg := strings.HasPrefix(s, "-")
		var b strings.Builder
		b.Grow(len(s) + 1)
		if neg {
			b.WriteByte('-')
		}
		for _, r := range s {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		clean := b.String()
		if clean == "" || clean == "-" {
			return decimal.Zero, fmt.Errorf("%w: %q", errInvalidNumber, x)
		}
		d, err := decimal.NewFromString(clean)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", errInvalidNumber, x)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %T", errInvalidNumber, v)
	}
}

var (
	minQuantity = decimal.NewFromInt(math.MinInt64)
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
)

// ParseQuantity coerces a value to a whole quantity. Fractions and values
// outside int64 are rejected.
func ParseQuantity(v any) (int64, error) {
	d, err := ParseDecimal(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s is not a whole number", errInvalidNumber, d)
	}
	if d.LessThan(minQuantity) || d.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: %s is out of range", errInvalidNumber, d)
	}
	return d.IntPart(), nil
}

// ParseBool accepts JSON booleans, "true"/"1"/"yes" and non-zero numbers.
func ParseBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err == nil {
			return b
		}
		return strings.EqualFold(strings.TrimSpace(x), "yes")
	case nil:
		return false
	default:
		d, err := ParseDecimal(x)
		return err == nil && !d.IsZero()
	}
}

// ParseText renders scalars as text; nil is empty.
func ParseText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func firstPresent(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func decodeLoose(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(dst)
}

type looseProduct struct {
	ID                any `json:"id"`
	Name              any `json:"name"`
	Sku               any `json:"sku"`
	Type              any `json:"type"`
	Price             any `json:"price"`
	Location          any `json:"location"`
	MinStockLevel     any `json:"min_stock_level"`
	MinimumStockLevel any `json:"minimum_stock_level"`
}

// UnmarshalJSON accepts stored products with numbers encoded as strings.
func (p *Product) UnmarshalJSON(b []byte) error {
	var raw looseProduct
	if err := decodeLoose(b, &raw); err != nil {
		return err
	}

	id, err := ParseQuantity(raw.ID)
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	price, err := ParseDecimal(raw.Price)
	if err != nil {
		return fmt.Errorf("product price: %w", err)
	}
	minLevel := int64(DefaultMinimumStockLevel)
	if v := firstPresent(raw.MinStockLevel, raw.MinimumStockLevel); v != nil {
		if minLevel, err = ParseQuantity(v); err != nil {
			return fmt.Errorf("product min stock level: %w", err)
		}
	}

	*p = Product{
		ID:                id,
		Name:              ParseText(raw.Name),
		Sku:               ParseText(raw.Sku),
		Type:              ParseText(raw.Type),
		Price:             price,
		Location:          ParseText(raw.Location),
		MinimumStockLevel: minLevel,
	}
	return nil
}

type looseMovement struct {
	Product         any    `json:"product"`
	ProductID       any    `json:"product_id"`
	Quantity        any    `json:"quantity"`
	Type            string `json:"type"`
	IsWastage       any    `json:"is_wastage"`
	Wastage         any    `json:"wastage"`
	WastageAmount   any    `json:"wastage_amount"`
	UnitPrice       any    `json:"unit_price"`
	Notes           any    `json:"notes"`
	ReferenceNumber any    `json:"reference_number"`
	Timestamp       string `json:"timestamp"`
	User            any    `json:"user"`
}

// UnmarshalJSON accepts stored movements in every shape the stock blob has
// held: string quantities, product_id instead of product, and a wastage
// amount instead of the is_wastage flag.
func (m *StockMovement) UnmarshalJSON(b []byte) error {
	var raw looseMovement
	if err := decodeLoose(b, &raw); err != nil {
		return err
	}

	product, err := ParseQuantity(firstPresent(raw.Product, raw.ProductID))
	if err != nil {
		return fmt.Errorf("movement product: %w", err)
	}
	qty, err := ParseQuantity(raw.Quantity)
	if err != nil {
		return fmt.Errorf("movement quantity: %w", err)
	}
	unitPrice, err := ParseDecimal(raw.UnitPrice)
	if err != nil {
		return fmt.Errorf("movement unit price: %w", err)
	}
	typ, err := ParseMovementType(raw.Type)
	if err != nil {
		return fmt.Errorf("movement type: %w", err)
	}

	isWastage := ParseBool(raw.IsWastage)
	if raw.IsWastage == nil {
		isWastage = ParseBool(firstPresent(raw.WastageAmount, raw.Wastage))
	}

	var ts time.Time
	if raw.Timestamp != "" {
		if ts, err = time.Parse(time.RFC3339Nano, raw.Timestamp); err != nil {
			return fmt.Errorf("movement timestamp: %w", err)
		}
	}

	*m = StockMovement{
		Product:         product,
		Quantity:        qty,
		Type:            typ,
		IsWastage:       isWastage,
		UnitPrice:       unitPrice,
		Notes:           ParseText(raw.Notes),
		ReferenceNumber: ParseText(raw.ReferenceNumber),
		Timestamp:       ts,
		User:            ParseText(raw.User),
	}
	return nil
}

type looseView struct {
	looseProduct
	UnitPrice    any `json:"unit_price"`
	Quantity     any `json:"quantity"`
	CurrentStock any `json:"current_stock"`
	Wastage      any `json:"wastage"`
	Notes        any `json:"notes"`
}

// UnmarshalJSON accepts grid rows as a spreadsheet widget emits them: empty
// cells, numbers typed as text and unit_price/current_stock column names.
func (v *ProductView) UnmarshalJSON(b []byte) error {
	var raw looseView
	if err := decodeLoose(b, &raw); err != nil {
		return err
	}

	id, err := ParseQuantity(raw.ID)
	if err != nil {
		return fmt.Errorf("row id: %w", err)
	}
	rawPrice := firstPresent(raw.Price, raw.UnitPrice)
	price, err := ParseDecimal(rawPrice)
	if err != nil {
		return fmt.Errorf("row price: %w", err)
	}
	qty, err := ParseQuantity(firstPresent(raw.Quantity, raw.CurrentStock))
	if err != nil {
		return fmt.Errorf("row quantity: %w", err)
	}
	wastage, err := ParseQuantity(raw.Wastage)
	if err != nil {
		return fmt.Errorf("row wastage: %w", err)
	}
	minLevel := int64(DefaultMinimumStockLevel)
	if m := firstPresent(raw.MinStockLevel, raw.MinimumStockLevel); m != nil {
		if minLevel, err = ParseQuantity(m); err != nil {
			return fmt.Errorf("row min stock level: %w", err)
		}
	}

	*v = ProductView{
		ID:                id,
		Name:              strings.TrimSpace(ParseText(raw.Name)),
		Sku:               strings.TrimSpace(ParseText(raw.Sku)),
		Type:              ParseText(raw.Type),
		Price:             price,
		PriceSet:          strings.TrimSpace(ParseText(rawPrice)) != "",
		Location:          ParseText(raw.Location),
		MinimumStockLevel: minLevel,
		Quantity:          qty,
		Wastage:           wastage,
		Notes:             ParseText(raw.Notes),
	}
	return nil
}
