package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

const staffDirectoryKey = "staff:directory"

// StaffDirectoryCache keeps the active staff directory in Redis.
type StaffDirectoryCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStaffDirectoryCache builds a cache under prefix with the given TTL.
func NewStaffDirectoryCache(r *Redis, prefix string, ttl time.Duration) *StaffDirectoryCache {
	key := staffDirectoryKey
	if prefix != "" {
		key = prefix + ":" + key
	}
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &StaffDirectoryCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached directory; ok is false on a miss.
func (c *StaffDirectoryCache) Get(ctx context.Context) ([]domain.StaffSummary, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []domain.StaffSummary
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Set stores the directory with the configured TTL.
func (c *StaffDirectoryCache) Set(ctx context.Context, entries []domain.StaffSummary) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, payload, c.ttl).Err()
}

// Invalidate drops the cached directory.
func (c *StaffDirectoryCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key).Err()
}
