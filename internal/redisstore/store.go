// Package redisstore keeps the registry in Redis hashes, one hash per region
// and entity kind, with JSON encoded values.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/repository"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "loom"

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) key(parts ...string) string {
	return k.prefix + ":" + strings.Join(parts, ":")
}

// typeField addresses a (name, version) pair within a type hash. Names and
// versions never contain '|'.
func typeField(name, version string) string {
	return name + "|" + version
}

func createJSON(ctx context.Context, client *redis.Client, key, field string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", field, err)
	}
	ok, err := client.HSetNX(ctx, key, field, data).Result()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if !ok {
		return repository.ErrAlreadyExists
	}
	return nil
}

func getJSON[T any](ctx context.Context, client redis.Cmdable, key, field string) (*T, error) {
	raw, err := client.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", key, field, err)
	}
	return &v, nil
}

func listJSON[T any](ctx context.Context, client *redis.Client, key string, keep func(*T) bool) ([]T, error) {
	values, err := client.HVals(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", key, err)
	}
	var out []T
	for _, raw := range values {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if keep(&v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// maxUpdateAttempts bounds retries of a status update that lost a WATCH race.
const maxUpdateAttempts = 5

// updateJSON applies mutate under WATCH so the read, the check made by mutate
// and the write see the same value. A mutate error aborts the update.
func updateJSON[T any](ctx context.Context, client *redis.Client, key, field string, mutate func(*T) error) error {
	update := func(tx *redis.Tx) error {
		v, err := getJSON[T](ctx, tx, key, field)
		if err != nil {
			return err
		}
		if err := mutate(v); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", field, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, data)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = client.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("concurrent update of %s/%s: %w", key, field, err)
}

// setStatus is the mutate step shared by every UpdateStatus.
func setStatus(current *registration.Status, currentAt **time.Time, status registration.Status, at *time.Time) error {
	if *current == status {
		return repository.ErrUnchanged
	}
	*current = status
	*currentAt = at
	return nil
}
