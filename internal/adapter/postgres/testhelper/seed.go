package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueKey returns a kv_store key no other test uses, so tests sharing the
// container never see each other's rows.
func UniqueKey(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

// SeedValue writes a kv_store row directly, bypassing version checks.
func SeedValue(t *testing.T, pool *pgxpool.Pool, key, value string, version int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO kv_store (key, value, version, updated_at)
		 VALUES ($1, $2::jsonb, $3, now())`,
		key, value, version,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedValue insert: %v", err)
	}
}

// KeyExists reports whether a kv_store row with key exists.
func KeyExists(t *testing.T, pool *pgxpool.Pool, key string) bool {
	t.Helper()

	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM kv_store WHERE key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("testhelper: KeyExists query: %v", err)
	}
	return exists
}
