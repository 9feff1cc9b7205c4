package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
)

const (
	wastageRefPrefix    = "WASTE"
	adjustmentRefPrefix = "ADJ"
	wastageNotePrefix   = "Wastage: "
	adjustNotePrefix    = "Adjustment: "
	noNotes             = "No notes provided"
)

// Reconciliation is what it takes to turn the prior rows into the edited
// ones. Movements carry no timestamp, user or reference number yet; Apply
// assigns them.
type Reconciliation struct {
	Movements      []model.StockMovement `json:"movements"`
	ProductUpdates []model.Product       `json:"product_updates"`
	NewProducts    []model.ProductView   `json:"new_products"`
}

func (r Reconciliation) IsEmpty() bool {
	return len(r.Movements) == 0 && len(r.ProductUpdates) == 0 && len(r.NewProducts) == 0
}

// ApplyResult lists what Apply changed.
type ApplyResult struct {
	Created   []model.Product       `json:"created"`
	Updated   []model.Product       `json:"updated"`
	Movements []model.StockMovement `json:"movements"`
}

// Reconcile compares edited rows with prior rows by id. Per row:
//
//   - an id without a prior row and a non-blank name is a new product whose
//     quantity becomes its initial stock;
//   - a quantity decrease together with a wastage increase is one OUT
//     wastage movement of the decrease;
//   - any other quantity change is one IN or OUT adjustment of the difference;
//   - a change of name, sku, type, price or location is a product update.
//
// Blank text cells and a missing price keep the prior value. Rows that
// changed nothing produce nothing. When an id appears twice, only
// its first row counts.
func Reconcile(edited, prior []model.ProductView) Reconciliation {
	priorByID := make(map[int64]model.ProductView, len(prior))
	for _, row := range prior {
		if _, ok := priorByID[row.ID]; !ok {
			priorByID[row.ID] = row
		}
	}

	var rec Reconciliation
	seen := make(map[int64]struct{}, len(edited))
	for _, row := range edited {
		if row.ID > 0 {
			if _, dup := seen[row.ID]; dup {
				continue
			}
			seen[row.ID] = struct{}{}
		}

		old, ok := priorByID[row.ID]
		if !ok || row.ID <= 0 {
			if nr, ok := newProductRow(row); ok {
				rec.NewProducts = append(rec.NewProducts, nr)
			}
			continue
		}

		updated := editedProduct(row, old)
		if m, ok := quantityMovement(row, old, updated.Price); ok {
			rec.Movements = append(rec.Movements, m)
		}

		if !updated.SameDetails(old.Product()) {
			rec.ProductUpdates = append(rec.ProductUpdates, updated)
		}
	}

	return rec
}

// editedProduct merges the descriptive cells of row over old.
func editedProduct(row, old model.ProductView) model.Product {
	p := old.Product()
	if v := strings.TrimSpace(row.Name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(row.Sku); v != "" {
		p.Sku = v
	}
	if v := strings.TrimSpace(row.Type); v != "" {
		p.Type = v
	}
	if v := strings.TrimSpace(row.Location); v != "" {
		p.Location = v
	}
	if row.HasPrice() {
		p.Price = row.Price
	}
	return p
}

func newProductRow(row model.ProductView) (model.ProductView, bool) {
	row.Name = strings.TrimSpace(row.Name)
	if row.Name == "" {
		return model.ProductView{}, false
	}
	row.ID = 0
	row.Quantity = max(row.Quantity, 0)
	row.Wastage = 0
	return row, true
}

func minimumStockLevel(level int64) *int64 {
	if level <= 0 {
		return nil
	}
	return &level
}

func quantityMovement(row, old model.ProductView, price decimal.Decimal) (model.StockMovement, bool) {
	qtyDiff := row.Quantity - old.Quantity
	wasteDiff := row.Wastage - old.Wastage

	m := model.StockMovement{
		Product:   row.ID,
		UnitPrice: price,
	}
	notes := editedNotes(row, old)

	switch {
	case qtyDiff < 0 && wasteDiff > 0:
		m.Quantity = -qtyDiff
		m.Type = model.MovementTypeOut
		m.IsWastage = true
		m.Notes = wastageNotePrefix + notes
	case qtyDiff != 0:
		m.Quantity = qtyDiff
		m.Type = model.MovementTypeIn
		if qtyDiff < 0 {
			m.Quantity = -qtyDiff
			m.Type = model.MovementTypeOut
		}
		m.Notes = adjustNotePrefix + notes
	default:
		return model.StockMovement{}, false
	}

	if m.UnitPrice.IsNegative() {
		m.UnitPrice = old.Price
	}
	return m, true
}

// editedNotes returns the notes typed into the row. The notes column shows
// the last movement note, so an untouched column means no new note.
func editedNotes(row, old model.ProductView) string {
	notes := strings.TrimSpace(row.Notes)
	if notes == "" || notes == strings.TrimSpace(old.Notes) {
		return noNotes
	}
	return notes
}

// Apply books a reconciliation. Everything is validated before anything
// changes; the movement log is copied to the backup blob first.
func (l *Ledger) Apply(ctx context.Context, rec Reconciliation) (ApplyResult, error) {
	if rec.IsEmpty() {
		return ApplyResult{}, nil
	}

	newParams := make([]AddProductParams, 0, len(rec.NewProducts))
	for _, row := range rec.NewProducts {
		params := AddProductParams{
			Name:              row.Name,
			Sku:               row.Sku,
			Type:              row.Type,
			Price:             row.Price,
			Quantity:          row.Quantity,
			Location:          row.Location,
			MinimumStockLevel: minimumStockLevel(row.MinimumStockLevel),
			Notes:             row.Notes,
		}
		params.normalize()
		if err := l.validate(params); err != nil {
			return ApplyResult{}, fmt.Errorf("new product %q: %w", row.Name, err)
		}
		newParams = append(newParams, params)
	}

	updates := make([]ProductUpdate, 0, len(rec.ProductUpdates))
	for _, p := range rec.ProductUpdates {
		if l.productIndex(p.ID) < 0 {
			return ApplyResult{}, apperr.ProductNotFoundErr.WithMsg(fmt.Sprintf("product %d not found", p.ID))
		}
		u := ProductUpdateFrom(p).normalize()
		if err := l.validate(u); err != nil {
			return ApplyResult{}, fmt.Errorf("update product %d: %w", p.ID, err)
		}
		updates = append(updates, u)
	}

	moveParams := make([]RecordMovementParams, 0, len(rec.Movements))
	for _, m := range rec.Movements {
		params := RecordMovementParams{
			Product:         m.Product,
			Quantity:        m.Quantity,
			Type:            m.Type,
			IsWastage:       m.IsWastage,
			UnitPrice:       m.UnitPrice,
			Notes:           strings.TrimSpace(m.Notes),
			ReferenceNumber: strings.TrimSpace(m.ReferenceNumber),
		}
		if params.ReferenceNumber == "" {
			params.ReferenceNumber = l.reference(adjustmentRefPrefix)
			if params.IsWastage {
				params.ReferenceNumber = l.reference(wastageRefPrefix)
			}
		}
		if err := l.validate(params); err != nil {
			return ApplyResult{}, fmt.Errorf("movement for product %d: %w", m.Product, err)
		}
		moveParams = append(moveParams, params)
	}

	if err := l.repo.SaveMovementsBackup(ctx, l.movements); err != nil {
		return ApplyResult{}, apperr.PersistenceErr.WrapParent(fmt.Errorf("backup movements: %w", err))
	}

	var res ApplyResult
	for _, params := range newParams {
		p, m := l.addProduct(ctx, params)
		res.Created = append(res.Created, p)
		if m != nil {
			res.Movements = append(res.Movements, *m)
		}
	}
	for i, u := range updates {
		idx := l.productIndex(rec.ProductUpdates[i].ID)
		l.products[idx] = u.apply(l.products[idx])
		res.Updated = append(res.Updated, l.products[idx])
	}
	for _, params := range moveParams {
		res.Movements = append(res.Movements, l.appendMovement(ctx, params))
	}

	var parts []string
	if n := len(moveParams); n > 0 {
		parts = append(parts, fmt.Sprintf("%d stock transactions", n))
	}
	if n := len(res.Created); n > 0 {
		parts = append(parts, fmt.Sprintf("%d new products", n))
	}
	if n := len(res.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("%d product updates", n))
	}
	l.appendActivity(ctx, "Save", "Updated stock data: "+strings.Join(parts, ", "))

	return res, l.persist(ctx, blobProducts|blobMovements|blobActivity)
}

// Sync reconciles edited rows against the current snapshot and applies the
// result.
func (l *Ledger) Sync(ctx context.Context, edited []model.ProductView) (Reconciliation, ApplyResult, error) {
	rec := Reconcile(edited, l.Snapshot())
	res, err := l.Apply(ctx, rec)
	return rec, res, err
}
