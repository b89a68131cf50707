package storage

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a JSON string under "<prefix>:<key>".
// Documents never expire.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

var (
	_ KeyValueStore = (*RedisStore)(nil)
	_ Remover       = (*RedisStore)(nil)
)

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *RedisStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	found, err := config.GetRedisObject(ctx, s.client, s.redisKey(key), dest)
	if err != nil {
		return false, fmt.Errorf("storage: load %q: %w", key, err)
	}
	return found, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return config.SetRedisObject(ctx, s.client, s.redisKey(key), value, 0)
}

func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	rk := make([]string, 0, len(keys))
	for _, k := range keys {
		rk = append(rk, s.redisKey(k))
	}
	return config.RemoveRedisKey(ctx, s.client, rk...)
}
