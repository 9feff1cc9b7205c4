package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Shaikat-CSE/goldennicheims/internal/storage/mq"
)

// Service consumes stock events.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer

	lowStock atomic.Int64
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicProductCreated, jsonHandler(s.handleProductCreatedEvent)); err != nil {
		return nil, fmt.Errorf("register product created event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(TopicMovementRecorded, jsonHandler(s.handleMovementRecordedEvent)); err != nil {
		return nil, fmt.Errorf("register movement recorded event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// LowStockAlerts returns how many low stock warnings were raised.
func (s *Service) LowStockAlerts() int64 {
	return s.lowStock.Load()
}

func jsonHandler[T any](handle func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
