package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/cache/redis"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("6f1c1d8e-2f34-4c59-9a1b-0d2c3e4f5a6b")
	assert.Equal(t, "quotecrm:caps:6f1c1d8e-2f34-4c59-9a1b-0d2c3e4f5a6b", redis.Key(id))
}

func TestCapabilityCache_UnreachableServerReturnsError(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	cache := redis.NewCapabilityCache(rdb, time.Minute)

	_, found, err := cache.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, found)
}
