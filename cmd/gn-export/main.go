package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/log"
	"github.com/Shaikat-CSE/goldennicheims/internal/service"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/kv"
	"github.com/Shaikat-CSE/goldennicheims/internal/tabular"
	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running export application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Store    config.Store
		Redis    config.Redis
		Postgres config.Postgres
		Ledger   config.Ledger
		Export   config.Export
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	format, err := tabular.ParseFormat(cfg.Export.Format)
	if err != nil {
		return fmt.Errorf("error parsing export format: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Store, cfg.Redis, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating %s store: %w", cfg.Store.Backend, err)
	}
	defer closeStore()

	registry := service.NewLedgerRegistry(store, cfg.Ledger, logger)
	stockService := service.NewStockService(logger, registry, service.NewNoopSink())

	ctx = actor.WithTenant(ctx, cfg.Export.Tenant)
	ctx = actor.WithUser(ctx, "gn-export")

	var buf bytes.Buffer
	if err := stockService.Export(ctx, &buf, format); err != nil {
		return fmt.Errorf("error exporting stock: %w", err)
	}

	if err := writeOutput(cfg.Export.Output, &buf); err != nil {
		return fmt.Errorf("error writing %s: %w", cfg.Export.Output, err)
	}

	logger.InfoContext(ctx, "stock exported",
		slog.String("tenant", cfg.Export.Tenant),
		slog.String("format", string(format)),
		slog.String("output", cfg.Export.Output),
	)

	return nil
}

// openStore is the read side of the standalone store selection; the memory
// backend would always be empty here, so it is refused.
func openStore(ctx context.Context, cfg config.Store, redisCfg config.Redis, pgCfg config.Postgres) (kv.Store, func(), error) {
	switch cfg.Backend {
	case config.StoreBackendRedis:
		rdb, err := kv.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis client: %w", err)
		}
		//nolint:errcheck
		return kv.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case config.StoreBackendPostgres:
		pgxPool, err := db.NewPgxPool(ctx, pgCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create pgx pool: %w", err)
		}
		return kv.NewPostgresStore(db.NewClient(pgxPool)), pgxPool.Close, nil
	default:
		return nil, nil, errors.New("export needs a persistent store backend (REDIS or POSTGRES)")
	}
}

func writeOutput(path string, r io.Reader) error {
	if path == "-" {
		_, err := io.Copy(os.Stdout, r)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
