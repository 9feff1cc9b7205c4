package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
)

func TestConnectionString(t *testing.T) {
	got := connectionString(config.Postgres{
		Host:     "db",
		Port:     5432,
		User:     "stock",
		Password: "secret",
		DB:       "ledger",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://stock:secret@db:5432/ledger?sslmode=disable&application_name=goldenniche-stock", got)
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations(), "*.sql")
	assert.NoError(t, err)
	assert.Equal(t, []string{"00001_kv_blobs.sql", "00002_outbox_messages.sql"}, names)
}
