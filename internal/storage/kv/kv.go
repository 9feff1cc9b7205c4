// Package kv holds the key-value stores the ledger blobs live in.
package kv

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by a bounded store when a write would exceed its quota.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store is a string key-value store. Get reports ok=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
