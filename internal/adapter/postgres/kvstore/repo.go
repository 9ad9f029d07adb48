// Package kvstore implements the versioned key-value backend on PostgreSQL.
// Each key is one row of kv_store; the value column holds the JSON document.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/scholarship-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/store"
)

var _ store.Backend = (*Repo)(nil)

const (
	table     = "kv_store"
	colKey    = "key"
	colValue  = "value"
	colVer    = "version"
	colUpdate = "updated_at"
	entity    = "kv"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// txRunner is the subset of postgres.TxManager the repo needs.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides versioned blob persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   txRunner
}

// New creates a new kv repository.
func New(pool *pgxpool.Pool, tx txRunner) *Repo {
	return &Repo{pool: pool, tx: tx}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the value and version stored under key.
// A missing row yields (nil, 0, nil).
func (r *Repo) Get(ctx context.Context, key string) ([]byte, int64, error) {
	query, args, err := psql.
		Select(colValue, colVer).
		From(table).
		Where(sq.Eq{colKey: key}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	var (
		value   []byte
		version int64
	)
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&value, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, postgres.MapError(err, entity, key)
	}

	return value, version, nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Put stores value under key if the row's version equals expectedVersion
// (0 for a row that does not exist yet) and returns the new version.
// store.AnyVersion upserts unconditionally.
func (r *Repo) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if expectedVersion == store.AnyVersion {
		return r.upsert(ctx, key, value)
	}

	var next int64
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := r.lockVersion(ctx, key)
		if err != nil {
			return err
		}

		if current != expectedVersion {
			return fmt.Errorf("key %s: expected version %d, have %d: %w",
				key, expectedVersion, current, domain.ErrVersionConflict)
		}

		if current == 0 {
			next, err = r.insert(ctx, key, value)
		} else {
			next, err = r.update(ctx, key, value)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	return next, nil
}

// lockVersion reads the row's version with SELECT ... FOR UPDATE, so the
// compare and the write happen under the same row lock.
func (r *Repo) lockVersion(ctx context.Context, key string) (int64, error) {
	query, args, err := psql.
		Select(colVer).
		From(table).
		Where(sq.Eq{colKey: key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build lock: %w", err)
	}

	var version int64
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, postgres.MapError(err, entity, key)
	}
	return version, nil
}

func (r *Repo) insert(ctx context.Context, key string, value []byte) (int64, error) {
	query, args, err := psql.
		Insert(table).
		Columns(colKey, colValue, colVer, colUpdate).
		Values(key, value, 1, sq.Expr("now()")).
		Suffix("RETURNING " + colVer).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	return r.scanVersion(ctx, key, query, args)
}

func (r *Repo) update(ctx context.Context, key string, value []byte) (int64, error) {
	query, args, err := psql.
		Update(table).
		Set(colValue, value).
		Set(colVer, sq.Expr(colVer+" + 1")).
		Set(colUpdate, sq.Expr("now()")).
		Where(sq.Eq{colKey: key}).
		Suffix("RETURNING " + colVer).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	return r.scanVersion(ctx, key, query, args)
}

func (r *Repo) upsert(ctx context.Context, key string, value []byte) (int64, error) {
	query, args, err := psql.
		Insert(table).
		Columns(colKey, colValue, colVer, colUpdate).
		Values(key, value, 1, sq.Expr("now()")).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " +
			colValue + " = EXCLUDED." + colValue + ", " +
			colVer + " = " + table + "." + colVer + " + 1, " +
			colUpdate + " = now() RETURNING " + colVer).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert: %w", err)
	}

	return r.scanVersion(ctx, key, query, args)
}

func (r *Repo) scanVersion(ctx context.Context, key, query string, args []any) (int64, error) {
	var version int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&version); err != nil {
		return 0, postgres.MapError(err, entity, key)
	}
	return version, nil
}
