package ledger

import (
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

// DeriveView folds movements, in order, into one row per product. Movements
// for products that are not in the list are skipped.
func DeriveView(products []model.Product, movements []model.StockMovement) map[int64]model.ProductView {
	view := make(map[int64]model.ProductView, len(products))
	for _, p := range products {
		view[p.ID] = model.NewProductView(p)
	}

	for _, m := range movements {
		row, ok := view[m.Product]
		if !ok {
			continue
		}
		row.Quantity += m.Delta()
		if m.IsWastage {
			row.Wastage += m.Quantity
		}
		if m.Notes != "" {
			row.Notes = m.Notes
		}
		view[m.Product] = row
	}

	return view
}

// Snapshot returns the derived view as rows in product order.
func (l *Ledger) Snapshot() []model.ProductView {
	return ordered(l.products, DeriveView(l.products, l.movements))
}

// SnapshotBetween derives the view from movements in [from, to] only.
func (l *Ledger) SnapshotBetween(from, to time.Time) []model.ProductView {
	return ordered(l.products, DeriveView(l.products, l.MovementsBetween(from, to)))
}

// Summary aggregates the current snapshot.
func (l *Ledger) Summary() model.Summary {
	return model.Summarize(l.Snapshot())
}

// LowStock returns the rows at or below their minimum stock level.
func (l *Ledger) LowStock() []model.ProductView {
	var out []model.ProductView
	for _, row := range l.Snapshot() {
		if row.IsLowStock() {
			out = append(out, row)
		}
	}
	return out
}

func ordered(products []model.Product, view map[int64]model.ProductView) []model.ProductView {
	rows := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		rows = append(rows, view[p.ID])
	}
	return rows
}
