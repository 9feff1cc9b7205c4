package relay_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/log"
	"github.com/Shaikat-CSE/goldennicheims/internal/relay"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/mq"
)

// txDB runs WithTx inline; the fakes below never touch the database.
type txDB struct {
	db.DB
}

func (d txDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	return fn(d)
}

type fakeOutboxRepo struct {
	repository.OutboxMsgRepository

	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
	listErr error
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	n := min(int(params.BatchSize), len(r.pending))
	batch := r.pending[:n]
	r.pending = r.pending[n:]
	return batch, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.updated = append(r.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.produced = append(p.produced, msg)
	return nil
}

func outboxMsg(topic string) repository.ListUnprocessedOutboxMsgsResult {
	return repository.ListUnprocessedOutboxMsgsResult{
		ID:      uuid.Must(uuid.NewV7()),
		Topic:   topic,
		Headers: map[string]string{"X-Tenant-ID": "acme"},
		Payload: []byte(`{}`),
	}
}

func TestService_RelayBatch(t *testing.T) {
	ctx := context.Background()
	cfg := config.Relay{BatchSize: 2, Interval: time.Hour, StopTimeout: time.Second}

	t.Run("Should publish a batch and record produce errors", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{
			outboxMsg("stock.movement.recorded"),
			outboxMsg("broken"),
			outboxMsg("stock.product.created"),
		}}
		producer := &fakeProducer{failOn: "broken"}
		svc := relay.NewService(cfg, log.Discard(), txDB{}, repo, producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.Len(t, producer.produced, 1)
		assert.Equal(t, "acme", producer.produced[0].Headers["X-Tenant-ID"])

		require.Len(t, repo.updated, 2)
		var failed int
		for _, item := range repo.updated {
			if item.Error != nil {
				failed++
				assert.Contains(t, *item.Error, "broker unavailable")
			}
		}
		assert.Equal(t, 1, failed)

		n, err = svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Should surface repository errors", func(t *testing.T) {
		repo := &fakeOutboxRepo{listErr: errors.New("connection reset")}
		svc := relay.NewService(cfg, log.Discard(), txDB{}, repo, &fakeProducer{})

		_, err := svc.RelayBatch(ctx)
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("Should stop when cleaned up", func(t *testing.T) {
		svc := relay.NewService(cfg, log.Discard(), txDB{}, &fakeOutboxRepo{}, &fakeProducer{})

		cleanup := svc.Run(ctx)
		done := make(chan struct{})
		go func() {
			cleanup()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("relay did not stop")
		}
	})
}
