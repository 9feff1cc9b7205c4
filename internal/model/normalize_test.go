package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		err   bool
	}{
		{name: "nil", input: nil, want: "0"},
		{name: "blank string", input: "  ", want: "0"},
		{name: "plain string", input: "25.50", want: "25.5"},
		{name: "thousands separator", input: "1,250.75", want: "1250.75"},
		{name: "currency prefix", input: "$ 3", want: "3"},
		{name: "negative", input: "-4", want: "-4"},
		{name: "json number", input: json.Number("7.25"), want: "7.25"},
		{name: "json number exponent", input: json.Number("1e3"), want: "1000"},
		{name: "json number fraction exponent", input: json.Number("2.5e1"), want: "25"},
		{name: "json number small exponent", input: json.Number("1.2e-7"), want: "0.00000012"},
		{name: "exponent string", input: "2.5E+1", want: "25"},
		{name: "float", input: 2.5, want: "2.5"},
		{name: "int", input: 9, want: "9"},
		{name: "letters only", input: "abc", err: true},
		{name: "bool", input: true, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseDecimal(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
		err   bool
	}{
		{name: "blank", input: "", want: 0},
		{name: "formatted", input: "1,200", want: 1200},
		{name: "whole decimal", input: "12.0", want: 12},
		{name: "exponent", input: json.Number("1e3"), want: 1000},
		{name: "negative", input: json.Number("-4"), want: -4},
		{name: "fraction", input: "12.9", err: true},
		{name: "fraction json number", input: json.Number("0.5"), err: true},
		{name: "too large", input: json.Number("1e30"), err: true},
		{name: "too small", input: "-9223372036854775809", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseQuantity(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStockMovementUnmarshal(t *testing.T) {
	t.Run("Should read a current movement", func(t *testing.T) {
		var m model.StockMovement
		err := json.Unmarshal([]byte(`{
			"product": 3, "quantity": 4, "type": "OUT", "is_wastage": true,
			"unit_price": "2.50", "notes": "Wastage: broken", "reference_number": "WASTE-1",
			"timestamp": "2024-05-01T10:00:00Z", "user": "alice"
		}`), &m)
		require.NoError(t, err)

		assert.Equal(t, int64(3), m.Product)
		assert.Equal(t, int64(4), m.Quantity)
		assert.Equal(t, model.MovementTypeOut, m.Type)
		assert.True(t, m.IsWastage)
		assert.True(t, decimal.RequireFromString("2.5").Equal(m.UnitPrice))
		assert.Equal(t, "Wastage: broken", m.Notes)
		assert.Equal(t, "WASTE-1", m.ReferenceNumber)
		assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(m.Timestamp))
		assert.Equal(t, "alice", m.User)
		assert.Equal(t, int64(-4), m.Delta())
	})

	t.Run("Should normalize legacy shapes", func(t *testing.T) {
		var m model.StockMovement
		err := json.Unmarshal([]byte(`{"product_id": "5", "quantity": "10", "type": "in", "wastage_amount": 2, "notes": null}`), &m)
		require.NoError(t, err)

		assert.Equal(t, int64(5), m.Product)
		assert.Equal(t, int64(10), m.Quantity)
		assert.Equal(t, model.MovementTypeIn, m.Type)
		assert.True(t, m.IsWastage)
		assert.Empty(t, m.Notes)
		assert.True(t, m.Timestamp.IsZero())
	})

	t.Run("Should read numbers in exponent form", func(t *testing.T) {
		var m model.StockMovement
		err := json.Unmarshal([]byte(`{"product": 1, "quantity": 1e3, "type": "IN", "unit_price": 2.5e1}`), &m)
		require.NoError(t, err)

		assert.Equal(t, int64(1000), m.Quantity)
		assert.True(t, decimal.NewFromInt(25).Equal(m.UnitPrice), m.UnitPrice.String())
	})

	t.Run("Should reject fractional quantities", func(t *testing.T) {
		var m model.StockMovement
		err := json.Unmarshal([]byte(`{"product": 1, "quantity": "2.5", "type": "IN"}`), &m)
		assert.Error(t, err)
	})

	t.Run("Should reject unknown types", func(t *testing.T) {
		var m model.StockMovement
		err := json.Unmarshal([]byte(`{"product": 1, "quantity": 1, "type": "MOVE"}`), &m)
		assert.Error(t, err)
	})

	t.Run("Should survive a marshal round trip", func(t *testing.T) {
		in := model.StockMovement{
			Product: 1, Quantity: 2, Type: model.MovementTypeIn,
			UnitPrice: decimal.RequireFromString("1.5"),
			Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
		}
		b, err := json.Marshal(in)
		require.NoError(t, err)

		var out model.StockMovement
		require.NoError(t, json.Unmarshal(b, &out))
		assert.True(t, in.UnitPrice.Equal(out.UnitPrice))
		assert.True(t, in.Timestamp.Equal(out.Timestamp))
	})
}

func TestProductUnmarshal(t *testing.T) {
	var p model.Product
	err := json.Unmarshal([]byte(`{"id": "2", "name": "Flour", "sku": "FL-1", "price": 1.2, "quantity": 40}`), &p)
	require.NoError(t, err)

	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "Flour", p.Name)
	assert.Equal(t, int64(model.DefaultMinimumStockLevel), p.MinimumStockLevel)
	assert.Equal(t, "1.2", p.Price.String())
}

func TestProductViewUnmarshal(t *testing.T) {
	var v model.ProductView
	err := json.Unmarshal([]byte(`{"id": "", "name": " Sugar ", "unit_price": "3", "current_stock": "15", "wastage": null}`), &v)
	require.NoError(t, err)

	assert.Zero(t, v.ID)
	assert.Equal(t, "Sugar", v.Name)
	assert.Equal(t, int64(15), v.Quantity)
	assert.Zero(t, v.Wastage)
	assert.Equal(t, "3", v.Price.String())
	assert.True(t, v.HasPrice())
}

func TestProductViewPrice(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		hasPrice bool
	}{
		{name: "missing", row: `{"id": 1}`, hasPrice: false},
		{name: "null", row: `{"id": 1, "price": null}`, hasPrice: false},
		{name: "blank", row: `{"id": 1, "price": " "}`, hasPrice: false},
		{name: "zero", row: `{"id": 1, "price": 0}`, hasPrice: true},
		{name: "zero text", row: `{"id": 1, "unit_price": "0.00"}`, hasPrice: true},
		{name: "exponent", row: `{"id": 1, "price": 1.5e2}`, hasPrice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v model.ProductView
			require.NoError(t, json.Unmarshal([]byte(tt.row), &v))
			assert.Equal(t, tt.hasPrice, v.HasPrice())
		})
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.ProductView{
		{ID: 1, Price: decimal.RequireFromString("2.5"), Quantity: 10, Wastage: 1, MinimumStockLevel: 5},
		{ID: 2, Price: decimal.NewFromInt(4), Quantity: 3, MinimumStockLevel: 5},
	}

	s := model.Summarize(rows)

	assert.Equal(t, 2, s.Products)
	assert.Equal(t, int64(13), s.TotalQuantity)
	assert.Equal(t, int64(1), s.TotalWastage)
	assert.Equal(t, "37", s.TotalValue.String())
	assert.Equal(t, 1, s.LowStock)
}
