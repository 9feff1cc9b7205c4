package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

const (
	initialStockNote = "Initial stock"
	initialRefPrefix = "INIT"
)

type AddProductParams struct {
	Name              string          `validate:"required"`
	Sku               string          `validate:"sku"`
	Type              string          `validate:"max=100"`
	Price             decimal.Decimal `validate:"nonnegative"`
	Quantity          int64           `validate:"gte=0"`
	Location          string          `validate:"max=200"`
	MinimumStockLevel *int64          `validate:"omitempty,gte=0"`
	Notes             string
}

func (p *AddProductParams) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Sku = strings.TrimSpace(p.Sku)
	p.Type = strings.TrimSpace(p.Type)
	p.Location = strings.TrimSpace(p.Location)
	p.Notes = strings.TrimSpace(p.Notes)
}

// ProductUpdate holds the descriptive fields to change; nil fields are kept.
type ProductUpdate struct {
	Name              *string          `validate:"omitempty,min=1"`
	Sku               *string          `validate:"omitempty,sku"`
	Type              *string          `validate:"omitempty,max=100"`
	Price             *decimal.Decimal `validate:"omitempty,nonnegative"`
	Location          *string          `validate:"omitempty,max=200"`
	MinimumStockLevel *int64           `validate:"omitempty,gte=0"`
}

// ProductUpdateFrom builds an update that sets every descriptive field of p.
func ProductUpdateFrom(p model.Product) ProductUpdate {
	return ProductUpdate{
		Name:              ptr.New(p.Name),
		Sku:               ptr.New(p.Sku),
		Type:              ptr.New(p.Type),
		Price:             ptr.New(p.Price),
		Location:          ptr.New(p.Location),
		MinimumStockLevel: ptr.New(p.MinimumStockLevel),
	}
}

func (u ProductUpdate) normalize() ProductUpdate {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		return ptr.New(strings.TrimSpace(*s))
	}
	u.Name = trim(u.Name)
	u.Sku = trim(u.Sku)
	u.Type = trim(u.Type)
	u.Location = trim(u.Location)
	return u
}

func (u ProductUpdate) apply(p model.Product) model.Product {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Sku != nil {
		p.Sku = strings.TrimSpace(*u.Sku)
	}
	if u.Type != nil {
		p.Type = strings.TrimSpace(*u.Type)
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Location != nil {
		p.Location = strings.TrimSpace(*u.Location)
	}
	if u.MinimumStockLevel != nil {
		p.MinimumStockLevel = *u.MinimumStockLevel
	}
	if p.Sku == "" {
		p.Sku = defaultSku(p.ID)
	}
	if p.Type == "" {
		p.Type = model.DefaultProductType
	}
	return p
}

func defaultSku(id int64) string {
	return fmt.Sprintf("SKU-%d", id)
}

func initialStockNotes(notes string) string {
	if notes == "" {
		return initialStockNote
	}
	return initialStockNote + ": " + notes
}

// AddProduct creates a product. A positive quantity is booked as an initial
// IN movement so the derived stock matches it.
func (l *Ledger) AddProduct(ctx context.Context, params AddProductParams) (model.Product, error) {
	params.normalize()
	if err := l.validate(params); err != nil {
		return model.Product{}, err
	}

	p, m := l.addProduct(ctx, params)

	which := blobProducts | blobActivity
	details := fmt.Sprintf("Added product %s (%s)", p.Name, p.Sku)
	if m != nil {
		which |= blobMovements
		details += fmt.Sprintf(" with %d in stock", m.Quantity)
	}
	l.appendActivity(ctx, "Add Product", details)

	return p, l.persist(ctx, which)
}

// addProduct mutates memory only; params must already be valid.
func (l *Ledger) addProduct(ctx context.Context, params AddProductParams) (model.Product, *model.StockMovement) {
	id := l.nextID()
	p := model.Product{
		ID:                id,
		Name:              params.Name,
		Sku:               params.Sku,
		Type:              params.Type,
		Price:             params.Price,
		Location:          params.Location,
		MinimumStockLevel: ptr.Deref(params.MinimumStockLevel, model.DefaultMinimumStockLevel),
	}
	if p.Sku == "" {
		p.Sku = defaultSku(id)
	}
	if p.Type == "" {
		p.Type = model.DefaultProductType
	}
	l.products = append(l.products, p)

	if params.Quantity <= 0 {
		return p, nil
	}

	m := l.appendMovement(ctx, RecordMovementParams{
		Product:         id,
		Quantity:        params.Quantity,
		Type:            model.MovementTypeIn,
		UnitPrice:       p.Price,
		Notes:           initialStockNotes(params.Notes),
		ReferenceNumber: l.reference(initialRefPrefix),
	})
	return p, &m
}

// UpdateProduct changes descriptive fields of a product. It never touches
// stock.
func (l *Ledger) UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (model.Product, error) {
	update = update.normalize()
	if err := l.validate(update); err != nil {
		return model.Product{}, err
	}
	i := l.productIndex(id)
	if i < 0 {
		return model.Product{}, apperr.ProductNotFoundErr.WithMsg(fmt.Sprintf("product %d not found", id))
	}

	p := update.apply(l.products[i])
	l.products[i] = p
	l.appendActivity(ctx, "Update Product", fmt.Sprintf("Updated product %s (%s)", p.Name, p.Sku))

	return p, l.persist(ctx, blobProducts|blobActivity)
}

// DeleteProduct removes a product. Its movements stay in the log and are
// skipped by DeriveView; the id is never reassigned.
func (l *Ledger) DeleteProduct(ctx context.Context, id int64) error {
	i := l.productIndex(id)
	if i < 0 {
		return apperr.ProductNotFoundErr.WithMsg(fmt.Sprintf("product %d not found", id))
	}

	p := l.products[i]
	l.highWater = max(l.highWater, p.ID)
	l.products = append(l.products[:i:i], l.products[i+1:]...)
	l.appendActivity(ctx, "Delete Product", fmt.Sprintf("Deleted product %s (%s)", p.Name, p.Sku))

	return l.persist(ctx, blobProducts|blobActivity)
}

// Bootstrap seeds an empty ledger with products from another source, with
// zero stock. It does nothing when the ledger already has products and
// reports how many products were imported.
func (l *Ledger) Bootstrap(ctx context.Context, products []model.Product) (int, error) {
	if len(l.products) > 0 || len(products) == 0 {
		return 0, nil
	}

	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		if _, dup := seen[p.ID]; p.ID <= 0 || dup {
			p.ID = 0
		}
		if p.ID > 0 {
			seen[p.ID] = struct{}{}
			l.highWater = max(l.highWater, p.ID)
		}
		l.products = append(l.products, p)
	}
	for i := range l.products {
		if l.products[i].ID == 0 {
			l.products[i].ID = l.nextID()
		}
		l.products[i] = ProductUpdate{}.apply(l.products[i])
		if l.products[i].MinimumStockLevel < 0 {
			l.products[i].MinimumStockLevel = model.DefaultMinimumStockLevel
		}
	}

	n := len(l.products)
	if n == 0 {
		return 0, nil
	}
	l.appendActivity(ctx, "Bootstrap", fmt.Sprintf("Imported %d products", n))

	return n, l.persist(ctx, blobProducts|blobActivity)
}

// IsNotFound reports whether err is a missing product error.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ProductNotFoundErr)
}
