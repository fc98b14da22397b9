package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"formgate/pkg/platform/sentinel"
)

// RedisStore persists the registry as a JSON array under a single key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore returns a store writing to key through client.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load fetches and parses the array stored at the key.
func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("registry key %s: %w", s.key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registry key: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse registry key: %w", err)
	}
	return ids, nil
}

// Save overwrites the key with ids.
func (s *RedisStore) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set registry key: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}
