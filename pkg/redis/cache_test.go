package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyPrefix(t *testing.T) {
	c := NewCache(&Client{}, "trendlab")
	assert.Equal(t, "trendlab:cache:prices:PETR4", c.key("prices:PETR4"))
}

func TestCacheGet_DisabledClientIsMiss(t *testing.T) {
	c := NewCache(&Client{enabled: false}, "trendlab")

	var out string
	found, err := c.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheGet_TransportErrorIsNotMiss(t *testing.T) {
	// Nothing listens on this address, so the Get must surface a
	// connection error instead of reporting a clean miss.
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	c := NewCache(&Client{rdb: rdb, enabled: true}, "trendlab")

	var out string
	found, err := c.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache get")
	assert.False(t, found)
}

func TestCacheSetAndDelete_DisabledClientNoOp(t *testing.T) {
	c := NewCache(&Client{enabled: false}, "trendlab")

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, c.Delete(context.Background(), "k"))
}
