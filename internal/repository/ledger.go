package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shaikat-CSE/goldennicheims/internal/model"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/kv"
)

const (
	productsSuffix = "_products"
	stockSuffix    = "_stock"
	activitySuffix = "_activity"
	backupSuffix   = "_stock_backup"
)

// LedgerRepository reads and writes the ledger blobs. Each blob is a JSON array
// stored under <prefix><suffix>; a missing blob reads as an empty list.
type LedgerRepository interface {
	LoadProducts(ctx context.Context) ([]model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error
	LoadMovements(ctx context.Context) ([]model.StockMovement, error)
	SaveMovements(ctx context.Context, movements []model.StockMovement) error
	SaveMovementsBackup(ctx context.Context, movements []model.StockMovement) error
	LoadActivity(ctx context.Context) ([]model.Activity, error)
	SaveActivity(ctx context.Context, activity []model.Activity) error
}

type ledgerRepository struct {
	store  kv.Store
	prefix string
}

func NewLedgerRepository(store kv.Store, prefix string) LedgerRepository {
	return &ledgerRepository{
		store:  store,
		prefix: prefix,
	}
}

// TenantPrefix namespaces the blob prefix of a tenant.
func TenantPrefix(tenant, prefix string) string {
	return tenant + ":" + prefix
}

func (r ledgerRepository) LoadProducts(ctx context.Context) ([]model.Product, error) {
	return load[model.Product](ctx, r.store, r.prefix+productsSuffix)
}

func (r ledgerRepository) SaveProducts(ctx context.Context, products []model.Product) error {
	return save(ctx, r.store, r.prefix+productsSuffix, products)
}

func (r ledgerRepository) LoadMovements(ctx context.Context) ([]model.StockMovement, error) {
	return load[model.StockMovement](ctx, r.store, r.prefix+stockSuffix)
}

func (r ledgerRepository) SaveMovements(ctx context.Context, movements []model.StockMovement) error {
	return save(ctx, r.store, r.prefix+stockSuffix, movements)
}

func (r ledgerRepository) SaveMovementsBackup(ctx context.Context, movements []model.StockMovement) error {
	return save(ctx, r.store, r.prefix+backupSuffix, movements)
}

func (r ledgerRepository) LoadActivity(ctx context.Context) ([]model.Activity, error) {
	return load[model.Activity](ctx, r.store, r.prefix+activitySuffix)
}

func (r ledgerRepository) SaveActivity(ctx context.Context, activity []model.Activity) error {
	return save(ctx, r.store, r.prefix+activitySuffix, activity)
}

func load[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	items := []T{}
	if !ok || raw == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return items, nil
}

func save[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}
