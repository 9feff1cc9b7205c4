package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/event"
	"github.com/Shaikat-CSE/goldennicheims/internal/ledger"
	"github.com/Shaikat-CSE/goldennicheims/internal/model"
	"github.com/Shaikat-CSE/goldennicheims/internal/tabular"
)

var tracer = otel.Tracer("internal/service")

type StockService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	AddProduct(ctx context.Context, params ledger.AddProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, update ledger.ProductUpdate) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	Bootstrap(ctx context.Context, products []model.Product) (int, error)

	History(ctx context.Context, productID int64) ([]model.StockMovement, error)
	ListMovements(ctx context.Context, from, to time.Time) ([]model.StockMovement, error)
	RecordMovement(ctx context.Context, params ledger.RecordMovementParams) (model.StockMovement, error)

	Snapshot(ctx context.Context, from, to time.Time) ([]model.ProductView, error)
	Summary(ctx context.Context) (model.Summary, error)
	Reconcile(ctx context.Context, rows []model.ProductView) (ledger.Reconciliation, error)
	Sync(ctx context.Context, rows []model.ProductView) (ledger.Reconciliation, ledger.ApplyResult, error)
	Activities(ctx context.Context) ([]model.Activity, error)

	Export(ctx context.Context, w io.Writer, format tabular.Format) error
	Import(ctx context.Context, r io.Reader, format tabular.Format, hasHeaders bool) ([]model.ProductView, error)
	Template(ctx context.Context, w io.Writer) error
}

type stockService struct {
	logger   *slog.Logger
	registry *LedgerRegistry
	events   EventSink
	now      func() time.Time
}

func NewStockService(
	logger *slog.Logger,
	registry *LedgerRegistry,
	events EventSink,
) StockService {
	return &stockService{
		logger:   logger.With(slog.String("service", "stock")),
		registry: registry,
		events:   events,
		now:      time.Now,
	}
}

func (s *stockService) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		products = l.Products()
		return nil
	})
	return products, err
}

func (s *stockService) AddProduct(ctx context.Context, params ledger.AddProductParams) (model.Product, error) {
	ctx, span := tracer.Start(ctx, "StockService.AddProduct")
	defer span.End()

	var product model.Product
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		var err error
		product, err = l.AddProduct(ctx, params)
		if applied(err) {
			s.publishCreated(ctx, l, []model.Product{product})
			s.publishMovements(ctx, l, l.History(product.ID))
		}
		return err
	})
	if err != nil {
		recordErr(span, err)
		return product, fmt.Errorf("ledger add product: %w", err)
	}

	span.SetAttributes(attribute.Int64("product_id", product.ID))
	return product, nil
}

func (s *stockService) UpdateProduct(ctx context.Context, id int64, update ledger.ProductUpdate) (model.Product, error) {
	ctx, span := tracer.Start(ctx, "StockService.UpdateProduct", trace.WithAttributes(attribute.Int64("product_id", id)))
	defer span.End()

	var product model.Product
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		var err error
		product, err = l.UpdateProduct(ctx, id, update)
		return err
	})
	if err != nil {
		recordErr(span, err)
		return product, fmt.Errorf("ledger update product: %w", err)
	}

	return product, nil
}

func (s *stockService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "StockService.DeleteProduct", trace.WithAttributes(attribute.Int64("product_id", id)))
	defer span.End()

	if err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		return l.DeleteProduct(ctx, id)
	}); err != nil {
		recordErr(span, err)
		return fmt.Errorf("ledger delete product: %w", err)
	}

	return nil
}

func (s *stockService) Bootstrap(ctx context.Context, products []model.Product) (int, error) {
	ctx, span := tracer.Start(ctx, "StockService.Bootstrap")
	defer span.End()

	var n int
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		var err error
		n, err = l.Bootstrap(ctx, products)
		if applied(err) && n > 0 {
			s.publishCreated(ctx, l, l.Products())
		}
		return err
	})
	if err != nil {
		recordErr(span, err)
		return n, fmt.Errorf("ledger bootstrap: %w", err)
	}

	span.SetAttributes(attribute.Int("imported", n))
	return n, nil
}

func (s *stockService) History(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	var history []model.StockMovement
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		history = l.History(productID)
		return nil
	})
	return history, err
}

func (s *stockService) ListMovements(ctx context.Context, from, to time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		movements = l.MovementsBetween(from, to)
		return nil
	})
	return movements, err
}

func (s *stockService) RecordMovement(ctx context.Context, params ledger.RecordMovementParams) (model.StockMovement, error) {
	ctx, span := tracer.Start(ctx, "StockService.RecordMovement", trace.WithAttributes(
		attribute.Int64("product_id", params.Product),
		attribute.String("type", string(params.Type)),
	))
	defer span.End()

	var movement model.StockMovement
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		var err error
		movement, err = l.RecordMovement(ctx, params)
		if applied(err) {
			s.publishMovements(ctx, l, []model.StockMovement{movement})
		}
		return err
	})
	if err != nil {
		recordErr(span, err)
		return movement, fmt.Errorf("ledger record movement: %w", err)
	}

	return movement, nil
}

func (s *stockService) Snapshot(ctx context.Context, from, to time.Time) ([]model.ProductView, error) {
	var rows []model.ProductView
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		if from.IsZero() && to.IsZero() {
			rows = l.Snapshot()
		} else {
			rows = l.SnapshotBetween(from, to)
		}
		return nil
	})
	return rows, err
}

func (s *stockService) Summary(ctx context.Context) (model.Summary, error) {
	var summary model.Summary
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		summary = l.Summary()
		return nil
	})
	return summary, err
}

func (s *stockService) Reconcile(ctx context.Context, rows []model.ProductView) (ledger.Reconciliation, error) {
	var rec ledger.Reconciliation
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		rec = ledger.Reconcile(rows, l.Snapshot())
		return nil
	})
	return rec, err
}

func (s *stockService) Sync(ctx context.Context, rows []model.ProductView) (ledger.Reconciliation, ledger.ApplyResult, error) {
	ctx, span := tracer.Start(ctx, "StockService.Sync", trace.WithAttributes(attribute.Int("rows", len(rows))))
	defer span.End()

	var (
		rec ledger.Reconciliation
		res ledger.ApplyResult
	)
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		var err error
		rec, res, err = l.Sync(ctx, rows)
		if applied(err) {
			s.publishCreated(ctx, l, res.Created)
			s.publishMovements(ctx, l, res.Movements)
		}
		return err
	})
	if err != nil {
		recordErr(span, err)
		return rec, res, fmt.Errorf("ledger sync: %w", err)
	}

	span.SetAttributes(
		attribute.Int("movements", len(res.Movements)),
		attribute.Int("created", len(res.Created)),
		attribute.Int("updated", len(res.Updated)),
	)
	return rec, res, nil
}

func (s *stockService) Activities(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		activities = l.Activities()
		return nil
	})
	return activities, err
}

func (s *stockService) Export(ctx context.Context, w io.Writer, format tabular.Format) error {
	ctx, span := tracer.Start(ctx, "StockService.Export", trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	rows, err := s.Snapshot(ctx, time.Time{}, time.Time{})
	if err != nil {
		recordErr(span, err)
		return err
	}

	if err := tabular.Export(w, format, rows, s.now()); err != nil {
		recordErr(span, err)
		return fmt.Errorf("export %s: %w", format, err)
	}

	s.recordActivity(ctx, "Export", "Exported stock data as "+strings.ToUpper(string(format)))
	return nil
}

func (s *stockService) Import(ctx context.Context, r io.Reader, format tabular.Format, hasHeaders bool) ([]model.ProductView, error) {
	ctx, span := tracer.Start(ctx, "StockService.Import", trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	imported, err := tabular.Import(r, format, hasHeaders)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("import %s: %w", format, err)
	}

	var rows []model.ProductView
	if err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		rows = l.MatchImported(imported)
		return nil
	}); err != nil {
		recordErr(span, err)
		return nil, err
	}

	s.recordActivity(ctx, "Import", fmt.Sprintf("Imported %d rows from file", len(rows)))
	return rows, nil
}

func (s *stockService) Template(ctx context.Context, w io.Writer) error {
	if err := tabular.WriteTemplate(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	s.recordActivity(ctx, "Template", "Downloaded stock template file")
	return nil
}

// recordActivity logs instead of failing: the file was already produced.
func (s *stockService) recordActivity(ctx context.Context, action, details string) {
	if err := s.registry.With(ctx, func(l *ledger.Ledger) error {
		return l.RecordActivity(ctx, action, details)
	}); err != nil {
		s.logger.WarnContext(ctx, "could not record activity",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

func (s *stockService) publishCreated(ctx context.Context, l *ledger.Ledger, products []model.Product) {
	tenant := s.registry.Tenant(ctx)
	for _, p := range products {
		s.publish(ctx, event.TopicProductCreated, p.ID, event.ProductCreatedEvent{
			Tenant:            tenant,
			ProductID:         p.ID,
			Name:              p.Name,
			Sku:               p.Sku,
			Type:              p.Type,
			Price:             p.Price,
			MinimumStockLevel: p.MinimumStockLevel,
		})
	}
}

// publishMovements reports each movement with the stock level the product
// had right after it.
func (s *stockService) publishMovements(ctx context.Context, l *ledger.Ledger, movements []model.StockMovement) {
	if len(movements) == 0 {
		return
	}

	tenant := s.registry.Tenant(ctx)
	view := ledger.DeriveView(l.Products(), l.Movements())
	after := make(map[int64]int64, len(movements))
	for _, m := range movements {
		after[m.Product] += m.Delta()
	}

	running := make(map[int64]int64, len(after))
	for id, total := range after {
		running[id] = view[id].Quantity - total
	}

	for _, m := range movements {
		running[m.Product] += m.Delta()
		row := view[m.Product]
		s.publish(ctx, event.TopicMovementRecorded, m.Product, event.MovementRecordedEvent{
			Tenant:            tenant,
			ProductID:         m.Product,
			ProductName:       row.Name,
			Type:              string(m.Type),
			Quantity:          m.Quantity,
			IsWastage:         m.IsWastage,
			UnitPrice:         m.UnitPrice,
			ReferenceNumber:   m.ReferenceNumber,
			StockLevel:        running[m.Product],
			MinimumStockLevel: row.MinimumStockLevel,
			Timestamp:         m.Timestamp,
			User:              m.User,
		})
	}
}

// publish never fails the ledger operation; the blobs are already written.
func (s *stockService) publish(ctx context.Context, topic string, key int64, payload any) {
	if err := s.events.Publish(ctx, topic, key, payload); err != nil {
		s.logger.ErrorContext(ctx, "error publishing stock event",
			slog.String("topic", topic),
			slog.Int64("product_id", key),
			slog.Any("error", err),
		)
	}
}

// applied reports whether an operation changed the ledger, which it did
// when it succeeded or only failed to persist.
func applied(err error) bool {
	return err == nil || errors.Is(err, apperr.PersistenceErr)
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
