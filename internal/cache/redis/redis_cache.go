package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

const keyPrefix = "quotecrm:caps:"

type capabilityCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewClient connects to redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewCapabilityCache creates a redis-backed CapabilityCache whose entries
// expire after ttl.
func NewCapabilityCache(rdb *goredis.Client, ttl time.Duration) port.CapabilityCache {
	return &capabilityCache{rdb: rdb, ttl: ttl}
}

// Key is the redis key holding a user's capabilities.
func Key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (c *capabilityCache) Get(ctx context.Context, userID uuid.UUID) ([]domain.Capability, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("capabilityCache.Get: %w", err)
	}
	var caps []domain.Capability
	if err := json.Unmarshal(raw, &caps); err != nil {
		return nil, false, fmt.Errorf("capabilityCache.Get decode: %w", err)
	}
	return caps, true, nil
}

func (c *capabilityCache) Set(ctx context.Context, userID uuid.UUID, caps []domain.Capability) error {
	if caps == nil {
		caps = []domain.Capability{}
	}
	raw, err := json.Marshal(caps)
	if err != nil {
		return fmt.Errorf("capabilityCache.Set encode: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("capabilityCache.Set: %w", err)
	}
	return nil
}

func (c *capabilityCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("capabilityCache.Invalidate: %w", err)
	}
	return nil
}
