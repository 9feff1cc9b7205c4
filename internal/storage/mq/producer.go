package mq

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
)

// ProduceMsg is one outbox message on its way to Kafka. Messages sharing a
// partition key, the product id for stock events, keep their order.
type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

type Producer interface {
	Produce(ctx context.Context, msg ProduceMsg) error
}

var _ Producer = (*KafkaProducer)(nil)

type KafkaProducer struct {
	cl *kgo.Client
}

// NewKafkaProducer connects an idempotent producer that waits for all
// in-sync replicas and partitions by record key.
func NewKafkaProducer(ctx context.Context, cfg config.Kafka) (*KafkaProducer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
		kgo.WithContext(ctx),
		kotelHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return &KafkaProducer{cl: cl}, nil
}

// Produce blocks until the broker acknowledged the record or ctx is done.
func (p *KafkaProducer) Produce(ctx context.Context, msg ProduceMsg) error {
	ctx, span := tracer.Start(ctx, "KafkaProducer.Produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("topic", msg.Topic)),
	)
	defer span.End()

	record := buildProduceRecord(msg)
	if err := p.cl.ProduceSync(ctx, record).FirstErr(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "produce failed")
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}

	span.SetAttributes(
		attribute.Int("partition", int(record.Partition)),
		attribute.Int64("offset", record.Offset),
	)
	return nil
}

func (p *KafkaProducer) Close() {
	p.cl.Close()
}

func buildProduceRecord(msg ProduceMsg) *kgo.Record {
	r := &kgo.Record{
		Topic: msg.Topic,
		Value: msg.Payload,
	}

	for _, k := range slices.Sorted(maps.Keys(msg.Headers)) {
		r.Headers = append(r.Headers, kgo.RecordHeader{Key: k, Value: []byte(msg.Headers[k])})
	}

	if msg.PartitionKey != nil {
		r.Key = []byte(*msg.PartitionKey)
	}

	return r
}
