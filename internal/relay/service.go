// Package relay publishes stock events written to the outbox table.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/mq"
	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

// Run polls the outbox every configured interval until the returned cleanup
// is called. Cleanup lets an in-flight batch finish for up to StopTimeout
// before cancelling it.
func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		s.stopOnce.Do(func() { close(s.stopChan) })
		select {
		case <-stoppedChan:
		case <-time.After(s.cfg.StopTimeout):
			cancel()
			<-stoppedChan
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// RelayBatch publishes one batch of unprocessed outbox messages inside a
// transaction and marks each one processed, with the produce error if any.
// It returns the number of messages handled.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var relayed int
	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)

		for _, msg := range outboxMsgs {
			wg.Go(func() {
				item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

				if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
					Topic:        msg.Topic,
					Headers:      msg.Headers,
					Payload:      msg.Payload,
					PartitionKey: msg.PartitionKey,
				}); err != nil {
					s.logger.ErrorContext(ctx,
						"error producing message",
						slog.String("outbox_msg_id", msg.ID.String()),
						slog.String("topic", msg.Topic),
						slog.Any("error", err),
					)
					item.Error = ptr.New(fmt.Sprintf("produce message: %v", err))
				}

				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			})
		}

		wg.Wait()

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		relayed = len(items)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	return relayed, nil
}
