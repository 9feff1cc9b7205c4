// Package ledger keeps the products and the append-only stock movements of
// one tenant and derives current stock from them.
//
// A Ledger is a single-writer value: it is not safe for concurrent use and
// callers sharing one must serialise access. Every operation updates memory
// first and then writes the affected blobs; when a write fails the in-memory
// change is kept and the operation returns an error wrapping
// apperr.PersistenceErr.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/log"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/validator"
)

const (
	DefaultUser          = "User"
	DefaultActivityLimit = 100
)

type Ledger struct {
	repo      repository.LedgerRepository
	logger    *slog.Logger
	validator validator.Validator
	now       func() time.Time

	defaultUser   string
	activityLimit int

	products  []model.Product
	movements []model.StockMovement
	activity  []model.Activity

	// highWater is the largest product id ever assigned or seen, so deleted
	// ids are never handed out again.
	highWater int64
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithDefaultUser sets the user recorded when the context carries none.
func WithDefaultUser(user string) Option {
	return func(l *Ledger) {
		if user != "" {
			l.defaultUser = user
		}
	}
}

func WithActivityLimit(limit int) Option {
	return func(l *Ledger) {
		if limit > 0 {
			l.activityLimit = limit
		}
	}
}

func WithValidator(v validator.Validator) Option {
	return func(l *Ledger) { l.validator = v }
}

// Open loads the ledger blobs from repo.
func Open(ctx context.Context, repo repository.LedgerRepository, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		repo:          repo,
		logger:        log.Discard(),
		now:           time.Now,
		defaultUser:   DefaultUser,
		activityLimit: DefaultActivityLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.validator == nil {
		v, err := validator.NewDefaultValidator()
		if err != nil {
			return nil, fmt.Errorf("new validator: %w", err)
		}
		l.validator = v
	}

	var err error
	if l.products, err = repo.LoadProducts(ctx); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if l.movements, err = repo.LoadMovements(ctx); err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}
	if l.activity, err = repo.LoadActivity(ctx); err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	l.highWater = l.maxKnownID()

	return l, nil
}

// Products returns a copy of the product list in insertion order.
func (l *Ledger) Products() []model.Product {
	return slices.Clone(l.products)
}

// Product returns the product with the given id.
func (l *Ledger) Product(id int64) (model.Product, bool) {
	i := l.productIndex(id)
	if i < 0 {
		return model.Product{}, false
	}
	return l.products[i], true
}

// Movements returns a copy of the movement log in insertion order.
func (l *Ledger) Movements() []model.StockMovement {
	return slices.Clone(l.movements)
}

// Activities returns the activity log, newest first.
func (l *Ledger) Activities() []model.Activity {
	return slices.Clone(l.activity)
}

// RecordActivity prepends an entry to the activity log and persists it.
func (l *Ledger) RecordActivity(ctx context.Context, action, details string) error {
	l.appendActivity(ctx, action, details)
	return l.persist(ctx, blobActivity)
}

func (l *Ledger) appendActivity(ctx context.Context, action, details string) {
	entry := model.Activity{
		Timestamp: l.now().UTC(),
		User:      l.user(ctx),
		Action:    action,
		Details:   details,
	}
	l.activity = slices.Insert(l.activity, 0, entry)
	if len(l.activity) > l.activityLimit {
		l.activity = l.activity[:l.activityLimit]
	}
}

func (l *Ledger) user(ctx context.Context) string {
	if u, ok := actor.User(ctx); ok {
		return u
	}
	return l.defaultUser
}

func (l *Ledger) productIndex(id int64) int {
	return slices.IndexFunc(l.products, func(p model.Product) bool { return p.ID == id })
}

func (l *Ledger) maxKnownID() int64 {
	maxID := l.highWater
	for _, p := range l.products {
		maxID = max(maxID, p.ID)
	}
	// Orphaned movements keep their id reserved so a new product never
	// inherits another product's history.
	for _, m := range l.movements {
		maxID = max(maxID, m.Product)
	}
	return maxID
}

func (l *Ledger) nextID() int64 {
	l.highWater = l.maxKnownID() + 1
	return l.highWater
}

func (l *Ledger) reference(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, l.now().UnixMilli())
}

type blob uint8

const (
	blobProducts blob = 1 << iota
	blobMovements
	blobActivity
)

// persist writes every requested blob, even after a failure, and reports all
// failures as one persistence error.
func (l *Ledger) persist(ctx context.Context, which blob) error {
	var errs []error
	if which&blobProducts != 0 {
		if err := l.repo.SaveProducts(ctx, l.products); err != nil {
			errs = append(errs, err)
		}
	}
	if which&blobMovements != 0 {
		if err := l.repo.SaveMovements(ctx, l.movements); err != nil {
			errs = append(errs, err)
		}
	}
	if which&blobActivity != 0 {
		if err := l.repo.SaveActivity(ctx, l.activity); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	err := errors.Join(errs...)
	l.logger.WarnContext(ctx, "ledger change kept in memory but not persisted", slog.Any("error", err))
	return apperr.PersistenceErr.WrapParent(err)
}

func (l *Ledger) validate(s any) error {
	if err := l.validator.Validate(s); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}
	return nil
}
