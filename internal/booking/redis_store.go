package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wiral:pending_booking:"

// RedisStore is a PendingStore backed by Redis, for deployments where more
// than one replica must see the same pending-booking table.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("booking: redis client cannot be nil")
	}
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*PendingBooking, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking: redis get: %w", err)
	}
	var record PendingBooking
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("booking: decode pending booking: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, record *PendingBooking) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("booking: encode pending booking: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("booking: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("booking: redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		raw, err := s.client.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("booking: redis sweep get: %w", err)
		}
		var record PendingBooking
		if err := json.Unmarshal(raw, &record); err != nil {
			// Unreadable records are swept too.
			_ = s.client.Del(ctx, fullKey).Err()
			removed++
			continue
		}
		if record.Status == StatusPending && record.CreatedAt.Before(cutoff) {
			if err := s.client.Del(ctx, fullKey).Err(); err != nil {
				return removed, fmt.Errorf("booking: redis sweep del: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("booking: redis scan: %w", err)
	}
	return removed, nil
}
