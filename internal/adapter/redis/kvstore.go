// Package redis implements the versioned key-value backend on Redis.
//
// A value lives as a plain string at its key; its version is an integer
// counter at key + ":rev". Writes are optimistic: WATCH the counter, compare,
// then MULTI/EXEC both keys together.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/store"
)

var _ store.Backend = (*KVStore)(nil)

const revSuffix = ":rev"

// KVStore is a Redis-backed versioned key-value store.
type KVStore struct {
	client *goredis.Client
}

// New creates a KVStore over client.
func New(client *goredis.Client) *KVStore {
	return &KVStore{client: client}
}

// Get returns the value at key and its revision in one round trip.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	vals, err := s.client.MGet(ctx, key, key+revSuffix).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis get %s: %w", key, err)
	}

	var value []byte
	if str, ok := vals[0].(string); ok {
		value = []byte(str)
	}

	version, err := parseRev(vals[1])
	if err != nil {
		return nil, 0, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, version, nil
}

// Put writes value when the stored revision equals expectedVersion.
func (s *KVStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	revKey := key + revSuffix
	var next int64

	txf := func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, revKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}

		if expectedVersion != store.AnyVersion && expectedVersion != current {
			return fmt.Errorf("key %s: expected version %d, have %d: %w",
				key, expectedVersion, current, domain.ErrVersionConflict)
		}

		var incr *goredis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			incr = pipe.Incr(ctx, revKey)
			return nil
		})
		if err != nil {
			return err
		}
		next = incr.Val()
		return nil
	}

	err := s.client.Watch(ctx, txf, revKey)
	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, goredis.TxFailedErr):
		return 0, fmt.Errorf("key %s: concurrent write: %w", key, domain.ErrVersionConflict)
	case errors.Is(err, domain.ErrVersionConflict):
		return 0, err
	default:
		return 0, fmt.Errorf("redis put %s: %w", key, err)
	}
}

// Ping checks the connection.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func parseRev(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	str, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected revision type %T", v)
	}
	rev, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse revision %q: %w", str, err)
	}
	return rev, nil
}
