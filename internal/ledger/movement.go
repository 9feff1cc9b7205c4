package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

type RecordMovementParams struct {
	Product         int64              `validate:"gt=0"`
	Quantity        int64              `validate:"gt=0"`
	Type            model.MovementType `validate:"enum"`
	IsWastage       bool
	UnitPrice       decimal.Decimal `validate:"nonnegative"`
	Notes           string          `validate:"max=1000"`
	ReferenceNumber string          `validate:"max=100"`
}

// RecordMovement appends a movement to the log. The product does not have to
// exist; movements for unknown products are kept and skipped when deriving.
func (l *Ledger) RecordMovement(ctx context.Context, params RecordMovementParams) (model.StockMovement, error) {
	params.Notes = strings.TrimSpace(params.Notes)
	params.ReferenceNumber = strings.TrimSpace(params.ReferenceNumber)
	if err := l.validate(params); err != nil {
		return model.StockMovement{}, err
	}

	m := l.appendMovement(ctx, params)
	l.appendActivity(ctx, "Stock "+string(m.Type), movementDetails(m))

	return m, l.persist(ctx, blobMovements|blobActivity)
}

func (l *Ledger) appendMovement(ctx context.Context, params RecordMovementParams) model.StockMovement {
	m := model.StockMovement{
		Product:         params.Product,
		Quantity:        params.Quantity,
		Type:            params.Type,
		IsWastage:       params.IsWastage,
		UnitPrice:       params.UnitPrice,
		Notes:           params.Notes,
		ReferenceNumber: params.ReferenceNumber,
		Timestamp:       l.now().UTC(),
		User:            l.user(ctx),
	}
	l.movements = append(l.movements, m)
	l.highWater = max(l.highWater, m.Product)
	return m
}

func movementDetails(m model.StockMovement) string {
	kind := "in"
	if m.Type == model.MovementTypeOut {
		kind = "out"
	}
	if m.IsWastage {
		kind = "wasted"
	}
	return fmt.Sprintf("%d units %s for product %d", m.Quantity, kind, m.Product)
}

// History returns the movements of one product, newest first.
func (l *Ledger) History(productID int64) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range l.movements {
		if m.Product == productID {
			out = append(out, m)
		}
	}
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.StockMovement) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// MovementsBetween returns the movements with a timestamp in [from, to].
// A zero bound is open.
func (l *Ledger) MovementsBetween(from, to time.Time) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range l.movements {
		if inWindow(m.Timestamp, from, to) {
			out = append(out, m)
		}
	}
	return out
}

func inWindow(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}
