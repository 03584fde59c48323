package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const clearBatchSize = 100

// RedisStorage keeps JSON values under prefixed keys so Clear never touches foreign data.
type RedisStorage struct {
	Connection *redis.Client
	prefix     string
}

func NewRedisStorage(ctx context.Context, addr, prefix string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	_, err := conn.Ping(ctx).Result()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageFromClient(conn, prefix), nil
}

func NewRedisStorageFromClient(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{
		Connection: client,
		prefix:     prefix,
	}
}

func (that *RedisStorage) GetJSON(ctx context.Context, key string, dst any) error {
	response, err := that.Connection.Get(ctx, that.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err = json.Unmarshal(response, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

func (that *RedisStorage) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", key, err)
	}

	if err = that.Connection.Set(ctx, that.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (that *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := that.Connection.Del(ctx, that.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Clear - removes every key under the storage prefix.
func (that *RedisStorage) Clear(ctx context.Context) error {
	iter := that.Connection.Scan(ctx, 0, that.prefix+"*", clearBatchSize).Iterator()

	keys := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())

		if len(keys) == clearBatchSize {
			if err := that.Connection.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear storage: %w", err)
			}
			keys = keys[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan storage: %w", err)
	}

	if len(keys) > 0 {
		if err := that.Connection.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to clear storage: %w", err)
		}
	}

	return nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}

	return nil
}
