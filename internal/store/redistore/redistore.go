// Package redistore is the Redis storage backend. Each collection is one
// hash keyed by the record's natural key, records are JSON-encoded fields.
package redistore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mitmail/internal/config"
	"mitmail/internal/store"
)

const (
	personsKey  = "persons"
	usersKey    = "users"
	messagesKey = "messages"
)

type Store struct {
	rdb      *redis.Client
	persons  *personStore
	users    *userStore
	messages *messageStore
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewWithClient(rdb), nil
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(rdb *redis.Client) *Store {
	return &Store{
		rdb:      rdb,
		persons:  &personStore{rdb: rdb},
		users:    &userStore{rdb: rdb},
		messages: &messageStore{rdb: rdb},
	}
}

func (s *Store) Persons() store.PersonStore   { return s.persons }
func (s *Store) Users() store.UserStore       { return s.users }
func (s *Store) Messages() store.MessageStore { return s.messages }

func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *Store) Close() { _ = s.rdb.Close() }

// hashGet fetches and decodes one field of a collection hash.
func hashGet(ctx context.Context, rdb *redis.Client, key, field string, v any) error {
	data, err := rdb.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), v)
}

// hashSet encodes and stores one field of a collection hash. With nx set
// it fails with ErrConflict when the field already exists.
func hashSet(ctx context.Context, rdb *redis.Client, key, field string, v any, nx bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if nx {
		ok, err := rdb.HSetNX(ctx, key, field, data).Result()
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrConflict
		}
		return nil
	}
	return rdb.HSet(ctx, key, field, data).Err()
}

// hashDelete removes one field, reporting ErrNotFound when it was absent.
func hashDelete(ctx context.Context, rdb *redis.Client, key, field string) error {
	n, err := rdb.HDel(ctx, key, field).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
