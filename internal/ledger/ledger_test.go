package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/ledger"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/kv"
	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func openLedger(t *testing.T, store kv.Store, opts ...ledger.Option) *ledger.Ledger {
	t.Helper()
	c := newClock()
	opts = append([]ledger.Option{ledger.WithClock(c.now)}, opts...)
	l, err := ledger.Open(context.Background(), repository.NewLedgerRepository(store, "excel_stock_db"), opts...)
	require.NoError(t, err)
	return l
}

func rowOf(t *testing.T, l *ledger.Ledger, id int64) model.ProductView {
	t.Helper()
	for _, row := range l.Snapshot() {
		if row.ID == id {
			return row
		}
	}
	t.Fatalf("no row for product %d in %s", id, spew.Sdump(l.Snapshot()))
	return model.ProductView{}
}

func TestLedger_AddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should book initial stock as an IN movement", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		p, err := l.AddProduct(ctx, ledger.AddProductParams{
			Name:     "Widget",
			Quantity: 10,
			Price:    decimal.NewFromInt(5),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "SKU-1", p.Sku)
		assert.Equal(t, model.DefaultProductType, p.Type)
		assert.Equal(t, int64(model.DefaultMinimumStockLevel), p.MinimumStockLevel)

		movements := l.Movements()
		require.Len(t, movements, 1, spew.Sdump(movements))
		m := movements[0]
		assert.Equal(t, model.MovementTypeIn, m.Type)
		assert.Equal(t, int64(10), m.Quantity)
		assert.Equal(t, "Initial stock", m.Notes)
		assert.True(t, m.UnitPrice.Equal(decimal.NewFromInt(5)))
		assert.Regexp(t, `^INIT-\d+$`, m.ReferenceNumber)
		assert.Equal(t, ledger.DefaultUser, m.User)

		assert.Equal(t, int64(10), rowOf(t, l, 1).Quantity)
	})

	t.Run("Should not book a movement without initial stock", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Bolt", Sku: "B-1", Notes: "ignored"})
		require.NoError(t, err)

		assert.Empty(t, l.Movements())
	})

	t.Run("Should note initial stock with the given notes", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Nut", Quantity: 2, Notes: "from supplier"})
		require.NoError(t, err)

		assert.Equal(t, "Initial stock: from supplier", l.Movements()[0].Notes)
	})

	t.Run("Should reject invalid input without side effects", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		tests := []ledger.AddProductParams{
			{Name: "   "},
			{Name: "Widget", Price: decimal.NewFromInt(-1)},
			{Name: "Widget", Quantity: -3},
			{Name: "Widget", MinimumStockLevel: ptr.New(int64(-1))},
		}
		for _, params := range tests {
			_, err := l.AddProduct(ctx, params)
			assert.ErrorIs(t, err, apperr.ValidationErr, spew.Sdump(params))
		}

		assert.Empty(t, l.Products())
		assert.Empty(t, l.Movements())
		assert.Empty(t, l.Activities())
	})

	t.Run("Should never reuse ids after deletion", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		seen := map[int64]bool{}
		for i := range 5 {
			p, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "P", Quantity: int64(i)})
			require.NoError(t, err)
			assert.False(t, seen[p.ID], "id %d reused", p.ID)
			seen[p.ID] = true

			if i%2 == 1 {
				require.NoError(t, l.DeleteProduct(ctx, p.ID))
			}
		}

		p, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Last"})
		require.NoError(t, err)
		assert.Equal(t, int64(6), p.ID)
	})

	t.Run("Should not hand out ids still referenced by movements", func(t *testing.T) {
		store := kv.NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, "excel_stock_db_stock", `[{"product":7,"quantity":1,"type":"IN"}]`))
		l := openLedger(t, store)

		p, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Fresh"})
		require.NoError(t, err)

		assert.Equal(t, int64(8), p.ID)
		assert.Equal(t, int64(0), rowOf(t, l, 8).Quantity)
	})

	t.Run("Should record the user from the context", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		_, err := l.AddProduct(actor.WithUser(ctx, "alice"), ledger.AddProductParams{Name: "Widget", Quantity: 1})
		require.NoError(t, err)

		assert.Equal(t, "alice", l.Movements()[0].User)
		assert.Equal(t, "alice", l.Activities()[0].User)
	})
}

func TestLedger_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a zero quantity and leave the view alone", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 10})
		require.NoError(t, err)
		before := l.Snapshot()

		_, err = l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 1, Quantity: 0, Type: model.MovementTypeOut})
		assert.ErrorIs(t, err, apperr.ValidationErr)

		assert.Len(t, l.Movements(), 1)
		assert.Equal(t, before, l.Snapshot())
	})

	t.Run("Should reject an unknown movement type", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		_, err := l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 1, Quantity: 1, Type: "MOVE"})
		assert.ErrorIs(t, err, apperr.ValidationErr)
		assert.Empty(t, l.Movements())
	})

	t.Run("Should accept movements for unknown products", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		m, err := l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 42, Quantity: 3, Type: model.MovementTypeIn})
		require.NoError(t, err)

		assert.Equal(t, int64(42), m.Product)
		assert.False(t, m.Timestamp.IsZero())
		assert.Empty(t, l.Snapshot())
	})

	t.Run("Should conserve quantity across interleaved movements", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		for _, name := range []string{"A", "B", "C"} {
			_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: name})
			require.NoError(t, err)
		}

		moves := []ledger.RecordMovementParams{
			{Product: 1, Quantity: 10, Type: model.MovementTypeIn},
			{Product: 2, Quantity: 4, Type: model.MovementTypeIn},
			{Product: 1, Quantity: 3, Type: model.MovementTypeOut},
			{Product: 3, Quantity: 2, Type: model.MovementTypeOut, IsWastage: true},
			{Product: 2, Quantity: 1, Type: model.MovementTypeOut},
			{Product: 1, Quantity: 5, Type: model.MovementTypeIn},
		}
		want := map[int64]int64{}
		for _, p := range moves {
			m, err := l.RecordMovement(ctx, p)
			require.NoError(t, err)
			want[p.Product] += m.Delta()
		}

		for id, qty := range want {
			assert.Equal(t, qty, rowOf(t, l, id).Quantity, "product %d", id)
		}
		assert.Equal(t, int64(2), rowOf(t, l, 3).Wastage)
	})

	t.Run("Should list history newest first", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 10})
		require.NoError(t, err)
		_, err = l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 1, Quantity: 2, Type: model.MovementTypeOut, Notes: "sold"})
		require.NoError(t, err)
		_, err = l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 2, Quantity: 2, Type: model.MovementTypeIn})
		require.NoError(t, err)

		history := l.History(1)
		require.Len(t, history, 2)
		assert.Equal(t, "sold", history[0].Notes)
		assert.Equal(t, "Initial stock", history[1].Notes)
	})
}

func TestDeriveView(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Widget"},
		{ID: 2, Name: "Gadget"},
	}

	t.Run("Should skip movements of unknown products", func(t *testing.T) {
		movements := []model.StockMovement{
			{Product: 1, Quantity: 5, Type: model.MovementTypeIn},
			{Product: 99, Quantity: 5, Type: model.MovementTypeIn, Notes: "orphan"},
		}

		view := ledger.DeriveView(products, movements)

		assert.Len(t, view, 2)
		assert.NotContains(t, view, int64(99))
		assert.Equal(t, int64(5), view[1].Quantity)
		assert.Empty(t, view[1].Notes)
	})

	t.Run("Should keep the last non-empty note in insertion order", func(t *testing.T) {
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		movements := []model.StockMovement{
			{Product: 2, Quantity: 5, Type: model.MovementTypeIn, Notes: "first", Timestamp: ts.Add(time.Hour)},
			{Product: 2, Quantity: 1, Type: model.MovementTypeOut, Notes: "second", Timestamp: ts},
			{Product: 2, Quantity: 1, Type: model.MovementTypeOut, IsWastage: true},
		}

		view := ledger.DeriveView(products, movements)

		assert.Equal(t, model.ProductView{ID: 2, Name: "Gadget", Quantity: 3, Wastage: 1, Notes: "second"}, view[2])
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		movements := []model.StockMovement{
			{Product: 1, Quantity: 5, Type: model.MovementTypeIn, Notes: "a"},
			{Product: 2, Quantity: 3, Type: model.MovementTypeOut, IsWastage: true},
		}

		assert.Equal(t, ledger.DeriveView(products, movements), ledger.DeriveView(products, movements))
	})
}

func TestLedger_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reload the same state from the store", func(t *testing.T) {
		store := kv.NewMemoryStore(0)
		l := openLedger(t, store)
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 10, Price: decimal.RequireFromString("2.50")})
		require.NoError(t, err)
		_, err = l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 1, Quantity: 3, Type: model.MovementTypeOut, IsWastage: true})
		require.NoError(t, err)

		reloaded := openLedger(t, store)

		assert.Equal(t, len(l.Movements()), len(reloaded.Movements()))
		got := rowOf(t, reloaded, 1)
		assert.Equal(t, int64(7), got.Quantity)
		assert.Equal(t, int64(3), got.Wastage)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2.5")))
		assert.Len(t, reloaded.Activities(), 2)
	})

	t.Run("Should keep the change in memory when the store is full", func(t *testing.T) {
		store := kv.NewMemoryStore(64)
		l := openLedger(t, store)

		p, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "A product with a rather long name", Quantity: 4})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.PersistenceErr)
		assert.Equal(t, int64(1), p.ID)

		assert.Len(t, l.Products(), 1)
		assert.Equal(t, int64(4), rowOf(t, l, 1).Quantity)

		reloaded := openLedger(t, store)
		assert.Empty(t, reloaded.Products())
	})

	t.Run("Should cap the activity log newest first", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0), ledger.WithActivityLimit(3))
		for _, name := range []string{"A", "B", "C", "D", "E"} {
			_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: name, Sku: name})
			require.NoError(t, err)
		}

		activities := l.Activities()
		require.Len(t, activities, 3)
		assert.Equal(t, "Added product E (E)", activities[0].Details)
		assert.Equal(t, "Added product C (C)", activities[2].Details)
	})
}

func TestLedger_UpdateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should update details without touching stock", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 3})
		require.NoError(t, err)

		p, err := l.UpdateProduct(ctx, 1, ledger.ProductUpdate{
			Name:     ptr.New("Widget XL"),
			Price:    ptr.New(decimal.NewFromInt(9)),
			Location: ptr.New("Shelf 2"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Widget XL", p.Name)
		assert.Equal(t, "SKU-1", p.Sku)
		assert.Equal(t, "Shelf 2", p.Location)
		assert.Len(t, l.Movements(), 1)
		assert.Equal(t, int64(3), rowOf(t, l, 1).Quantity)
	})

	t.Run("Should refuse a blank name", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget"})
		require.NoError(t, err)

		for _, name := range []string{"", "   ", "\t"} {
			_, err := l.UpdateProduct(ctx, 1, ledger.ProductUpdate{Name: ptr.New(name)})
			assert.ErrorIs(t, err, apperr.ValidationErr, "%q", name)
		}

		p, ok := l.Product(1)
		require.True(t, ok)
		assert.Equal(t, "Widget", p.Name)
	})

	t.Run("Should trim updated text fields", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget"})
		require.NoError(t, err)

		p, err := l.UpdateProduct(ctx, 1, ledger.ProductUpdate{Name: ptr.New("  Widget XL "), Location: ptr.New(" Bin 2 ")})
		require.NoError(t, err)

		assert.Equal(t, "Widget XL", p.Name)
		assert.Equal(t, "Bin 2", p.Location)
	})

	t.Run("Should report unknown products", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		_, err := l.UpdateProduct(ctx, 5, ledger.ProductUpdate{Name: ptr.New("x")})
		assert.True(t, ledger.IsNotFound(err))
		assert.True(t, ledger.IsNotFound(l.DeleteProduct(ctx, 5)))
	})

	t.Run("Should keep movements of deleted products", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 3})
		require.NoError(t, err)

		require.NoError(t, l.DeleteProduct(ctx, 1))

		assert.Empty(t, l.Snapshot())
		assert.Len(t, l.Movements(), 1)
		assert.Len(t, l.History(1), 1)
	})
}

func TestLedger_Queries(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	l := openLedger(t, kv.NewMemoryStore(0), ledger.WithClock(c.now))

	_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget", Quantity: 10, Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	_, err = l.AddProduct(ctx, ledger.AddProductParams{Name: "Gadget", Quantity: 5, Price: decimal.NewFromInt(3)})
	require.NoError(t, err)
	cut := c.t
	_, err = l.RecordMovement(ctx, ledger.RecordMovementParams{Product: 1, Quantity: 4, Type: model.MovementTypeOut})
	require.NoError(t, err)

	t.Run("Should summarise the snapshot", func(t *testing.T) {
		s := l.Summary()

		assert.Equal(t, 2, s.Products)
		assert.Equal(t, int64(11), s.TotalQuantity)
		assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(27)), s.TotalValue.String())
		assert.Equal(t, 1, s.LowStock)

		low := l.LowStock()
		require.Len(t, low, 1)
		assert.Equal(t, "Gadget", low[0].Name)
	})

	t.Run("Should derive a view over a time window", func(t *testing.T) {
		before := l.SnapshotBetween(time.Time{}, cut)
		assert.Equal(t, int64(10), before[0].Quantity)

		after := l.SnapshotBetween(cut.Add(time.Nanosecond), time.Time{})
		assert.Equal(t, int64(-4), after[0].Quantity)
		assert.Equal(t, int64(0), after[1].Quantity)
	})

	t.Run("Should find products by id", func(t *testing.T) {
		p, ok := l.Product(2)
		assert.True(t, ok)
		assert.Equal(t, "Gadget", p.Name)

		_, ok = l.Product(3)
		assert.False(t, ok)
	})
}

func TestLedger_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("Should import products with zero stock into an empty ledger", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))

		n, err := l.Bootstrap(ctx, []model.Product{
			{ID: 4, Name: "Flour", Sku: "FL-1", MinimumStockLevel: 10},
			{Name: "Sugar"},
			{ID: 4, Name: "Salt"},
			{Name: " "},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		products := l.Products()
		require.Len(t, products, 3)
		assert.Equal(t, int64(4), products[0].ID)
		assert.Equal(t, int64(5), products[1].ID)
		assert.Equal(t, "SKU-5", products[1].Sku)
		assert.Equal(t, int64(6), products[2].ID)
		assert.Empty(t, l.Movements())
	})

	t.Run("Should do nothing when products exist", func(t *testing.T) {
		l := openLedger(t, kv.NewMemoryStore(0))
		_, err := l.AddProduct(ctx, ledger.AddProductParams{Name: "Widget"})
		require.NoError(t, err)

		n, err := l.Bootstrap(ctx, []model.Product{{Name: "Other"}})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Len(t, l.Products(), 1)
	})
}
