package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/ledger"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/kv"
	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
)

// LedgerRegistry keeps one ledger per tenant, opened lazily from the store,
// and serialises access to each of them.
type LedgerRegistry struct {
	store  kv.Store
	cfg    config.Ledger
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	ledgers map[string]*tenantLedger
}

type tenantLedger struct {
	mu     sync.Mutex
	ledger *ledger.Ledger

	// guarded by LedgerRegistry.mu
	refs     int
	lastUsed time.Time
}

func NewLedgerRegistry(store kv.Store, cfg config.Ledger, logger *slog.Logger) *LedgerRegistry {
	return &LedgerRegistry{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		ledgers: make(map[string]*tenantLedger),
	}
}

// Tenant returns the tenant of ctx, or the default tenant.
func (r *LedgerRegistry) Tenant(ctx context.Context) string {
	if tenant, ok := actor.Tenant(ctx); ok {
		return tenant
	}
	return r.cfg.DefaultTenant
}

// With runs fn holding the lock of the ledger of the tenant in ctx.
func (r *LedgerRegistry) With(ctx context.Context, fn func(l *ledger.Ledger) error) error {
	tl, err := r.get(ctx, r.Tenant(ctx))
	if err != nil {
		return err
	}
	defer r.release(tl)

	tl.mu.Lock()
	defer tl.mu.Unlock()
	return fn(tl.ledger)
}

func (r *LedgerRegistry) get(ctx context.Context, tenant string) (*tenantLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tl, ok := r.ledgers[tenant]; ok {
		tl.refs++
		tl.lastUsed = r.now()
		return tl, nil
	}

	if !actor.ValidTenant(tenant) {
		return nil, apperr.InvalidTenantErr.WithMsg(fmt.Sprintf("invalid tenant id %q", tenant))
	}

	repo := repository.NewLedgerRepository(r.store, repository.TenantPrefix(tenant, r.cfg.KeyPrefix))
	l, err := ledger.Open(ctx, repo,
		ledger.WithClock(r.now),
		ledger.WithLogger(r.logger.With(slog.String("tenant", tenant))),
		ledger.WithDefaultUser(r.cfg.DefaultUser),
		ledger.WithActivityLimit(r.cfg.ActivityLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("open ledger of tenant %s: %w", tenant, err)
	}

	r.evictIdle()
	tl := &tenantLedger{ledger: l, refs: 1, lastUsed: r.now()}
	r.ledgers[tenant] = tl
	return tl, nil
}

func (r *LedgerRegistry) release(tl *tenantLedger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tl.refs--
}

// evictIdle closes the least recently used idle ledger while the registry
// is full. A closed ledger is reopened from the store on its next use.
// Callers hold r.mu.
func (r *LedgerRegistry) evictIdle() {
	if r.cfg.MaxTenants <= 0 {
		return
	}
	for len(r.ledgers) >= r.cfg.MaxTenants {
		var (
			victim string
			oldest *tenantLedger
		)
		for tenant, tl := range r.ledgers {
			if tl.refs > 0 {
				continue
			}
			if oldest == nil || tl.lastUsed.Before(oldest.lastUsed) {
				victim, oldest = tenant, tl
			}
		}
		if oldest == nil {
			return
		}
		delete(r.ledgers, victim)
		r.logger.Debug("closed idle ledger", slog.String("tenant", victim))
	}
}

// OpenLedgers reports how many ledgers are open.
func (r *LedgerRegistry) OpenLedgers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ledgers)
}
