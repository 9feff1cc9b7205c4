package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.String("tenant", ev.Tenant),
		slog.Int64("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
	)
	return nil
}

func (s *Service) handleMovementRecordedEvent(ctx context.Context, ev MovementRecordedEvent) error {
	logger := s.logger.With(
		slog.String("tenant", ev.Tenant),
		slog.Int64("product_id", ev.ProductID),
		slog.String("reference_number", ev.ReferenceNumber),
	)

	logger.DebugContext(ctx, "stock movement recorded",
		slog.String("type", ev.Type),
		slog.Int64("quantity", ev.Quantity),
		slog.Bool("is_wastage", ev.IsWastage),
	)

	if ev.IsLowStock() {
		s.lowStock.Add(1)
		logger.WarnContext(ctx, "product is low on stock",
			slog.String("product_name", ev.ProductName),
			slog.Int64("stock_level", ev.StockLevel),
			slog.Int64("min_stock_level", ev.MinimumStockLevel),
		)
	}

	return nil
}
