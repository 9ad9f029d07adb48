package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/scholarship-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scholarship-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

const insertRow = `INSERT INTO kv_store (key, value, version, updated_at) VALUES ($1, '[]'::jsonb, 1, now())`

func insert(ctx context.Context, tm *postgres.TxManager, pool *pgxpool.Pool, key string) error {
	return tm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, insertRow, key)
		return err
	})
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	key := testhelper.UniqueKey("commit")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if _, err := q.Exec(ctx, insertRow, key); err != nil {
			return err
		}
		if testhelper.KeyExists(t, pool, key) {
			t.Error("row visible outside the transaction before commit")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	if !testhelper.KeyExists(t, pool, key) {
		t.Fatal("row missing after commit")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	key := testhelper.UniqueKey("rollback")
	errReject := errors.New("review rejected")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, insertRow, key); err != nil {
			t.Fatalf("insert: %v", err)
		}
		return errReject
	})
	if !errors.Is(err, errReject) {
		t.Fatalf("RunInTx error = %v, want %v", err, errReject)
	}
	if testhelper.KeyExists(t, pool, key) {
		t.Fatal("row survived a rolled back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	key := testhelper.UniqueKey("panic")

	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want re-raised panic %q", r, "boom")
		}
		if testhelper.KeyExists(t, pool, key) {
			t.Fatal("row survived a panicking transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, insertRow, key); err != nil {
			t.Fatalf("insert: %v", err)
		}
		panic("boom")
	})
}

func TestRunInTx_NestedCallJoinsOuter(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	inner := testhelper.UniqueKey("inner")
	errOuter := errors.New("outer failed")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insert(ctx, tm, pool, inner); err != nil {
			return err
		}
		if testhelper.KeyExists(t, pool, inner) {
			t.Error("nested call committed on its own")
		}
		return errOuter
	})
	if !errors.Is(err, errOuter) {
		t.Fatalf("RunInTx error = %v, want %v", err, errOuter)
	}
	if testhelper.KeyExists(t, pool, inner) {
		t.Fatal("nested write survived the outer rollback")
	}
}

func TestRunInTx_LockTimeoutIsConflict(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	key := testhelper.UniqueKey("locked")
	testhelper.SeedValue(t, pool, key, `[]`, 1)

	ctx := context.Background()
	holder, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin holder: %v", err)
	}
	t.Cleanup(func() { _ = holder.Rollback(ctx) })
	if _, err := holder.Exec(ctx, `SELECT 1 FROM kv_store WHERE key = $1 FOR UPDATE`, key); err != nil {
		t.Fatalf("lock row: %v", err)
	}

	tm := postgres.NewTxManager(pool, postgres.WithLockTimeout(50*time.Millisecond))
	start := time.Now()
	err = tm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, `SELECT 1 FROM kv_store WHERE key = $1 FOR UPDATE`, key)
		return err
	})
	if err == nil {
		t.Fatal("expected lock_not_available while another transaction holds the row")
	}
	if mapped := postgres.MapError(err, "kv", key); !errors.Is(mapped, domain.ErrVersionConflict) {
		t.Errorf("MapError(%v) does not wrap ErrVersionConflict", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("lock wait took %v, want it bounded by lock_timeout", elapsed)
	}
}
