package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/log"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "migrating ledger schema", slog.String("database", cfg.Postgres.DB))

	applied, err := db.Migrate(ctx, pgxPool)
	for _, res := range applied {
		attrs := []any{
			slog.Int64("version", res.Source.Version),
			slog.String("file", path.Base(res.Source.Path)),
			slog.Duration("took", res.Duration),
		}
		if res.Error != nil {
			logger.ErrorContext(ctx, "migration failed", append(attrs, slog.Any("error", res.Error))...)
			continue
		}
		logger.InfoContext(ctx, "migration applied", attrs...)
	}
	if err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	if len(applied) == 0 {
		logger.InfoContext(ctx, "ledger schema is up to date")
		return nil
	}
	logger.InfoContext(ctx, "ledger schema migrated", slog.Int("applied", len(applied)))

	return nil
}
