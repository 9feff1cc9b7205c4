package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/pkg/outbox"
)

// EventSink accepts stock events for delivery.
type EventSink interface {
	Publish(ctx context.Context, topic string, key int64, payload any) error
}

type noopSink struct{}

// NewNoopSink returns a sink that drops every event.
func NewNoopSink() EventSink {
	return noopSink{}
}

func (noopSink) Publish(context.Context, string, int64, any) error {
	return nil
}

type outboxSink struct {
	outboxMsgRepo repository.OutboxMsgRepository
}

// NewOutboxSink writes events to the outbox table for the relay to publish.
// The partition key is the product id so a product's events stay ordered.
func NewOutboxSink(outboxMsgRepo repository.OutboxMsgRepository) EventSink {
	return &outboxSink{outboxMsgRepo: outboxMsgRepo}
}

func (s *outboxSink) Publish(ctx context.Context, topic string, key int64, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partitionKey := strconv.FormatInt(key, 10)
	if err := s.outboxMsgRepo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      b,
		PartitionKey: &partitionKey,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
