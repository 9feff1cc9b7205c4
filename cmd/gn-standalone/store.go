package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/kv"
)

// newStore opens the configured blob store. pgxPool is only used by the
// Postgres backend.
func newStore(ctx context.Context, cfg config.Store, redisCfg config.Redis, pgxPool *pgxpool.Pool) (kv.Store, func(), error) {
	switch cfg.Backend {
	case config.StoreBackendRedis:
		rdb, err := kv.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis client: %w", err)
		}
		//nolint:errcheck
		return kv.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case config.StoreBackendPostgres:
		if pgxPool == nil {
			return nil, nil, errors.New("postgres store requires a database connection")
		}
		return kv.NewPostgresStore(db.NewClient(pgxPool)), func() {}, nil
	default:
		return kv.NewMemoryStore(cfg.QuotaBytes), func() {}, nil
	}
}
