// Package db holds the Postgres connection shared by the blob store and the
// event outbox.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface of a pool or of an open transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// WithTx runs txFunc in a transaction, committing when it returns nil.
	// Called on a DB that is already a transaction, it reuses it.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ HealthChecker = (*Client)(nil)
	_ DB            = txDB{}
)

type Client struct {
	pool *pgxpool.Pool
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

func (c *Client) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.pool.Exec(ctx, sql, args...)
}

func (c *Client) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.pool.Query(ctx, sql, args...)
}

func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.pool.QueryRow(ctx, sql, args...)
}

func (c *Client) WithTx(ctx context.Context, txFunc func(DB) error) error {
	err := pgx.BeginTxFunc(ctx, c.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return txFunc(txDB{tx: tx})
	})
	if err != nil {
		return fmt.Errorf("run transaction: %w", err)
	}
	return nil
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.pool.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type txDB struct {
	tx pgx.Tx
}

func (t txDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t txDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}

func (t txDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func (t txDB) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}
