package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps values in the kv_blobs table.
type PostgresStore struct {
	db db.DB
}

func NewPostgresStore(db db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_blobs WHERE key = @key`, pgx.NamedArgs{
		"key": key,
	}).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select kv blob %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES (@key, @value, NOW())
		ON CONFLICT (key) DO UPDATE
		SET
			value      = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`, pgx.NamedArgs{
		"key":   key,
		"value": value,
	})
	if err != nil {
		return fmt.Errorf("upsert kv blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) IsHealthy(ctx context.Context) (bool, error) {
	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1 FROM kv_blobs LIMIT 1`).Scan(&one); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("query kv_blobs: %w", err)
	}
	return true, nil
}
