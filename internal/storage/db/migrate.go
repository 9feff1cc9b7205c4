package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies every pending migration and returns what ran.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (applied []*goose.MigrationResult, err error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, Migrations())
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}

	applied, err = provider.Up(ctx)
	if err != nil {
		return applied, fmt.Errorf("goose up: %w", err)
	}
	return applied, nil
}
