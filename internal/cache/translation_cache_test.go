package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/witness-archive/api/archive-ingest/internal/config"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *TranslationCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewTranslationCache(client, time.Minute)
}

func TestTranslationCache_Miss(t *testing.T) {
	_, c := setupTestRedis(t)

	values, ok, err := c.Get(context.Background(), "ar")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, values)
}

func TestTranslationCache_SetThenGet(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ar", map[string]string{"hosts": "المستضيفون"}))

	values, ok, err := c.Get(ctx, "ar")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"hosts": "المستضيفون"}, values)

	assert.True(t, mr.Exists("translations:ar"))
	assert.Equal(t, time.Minute, mr.TTL("translations:ar"))
}

func TestTranslationCache_Expiry(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "en", map[string]string{"hosts": "Hosts"}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "en")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTranslationCache_CorruptEntryIsMiss(t *testing.T) {
	mr, c := setupTestRedis(t)
	require.NoError(t, mr.Set("translations:en", "{not json"))

	_, ok, err := c.Get(context.Background(), "en")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTranslationCache_Invalidate(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "en", map[string]string{"a": "A"}))
	require.NoError(t, c.Set(ctx, "ar", map[string]string{"a": "أ"}))

	require.NoError(t, c.Invalidate(ctx, "en", "ar"))
	assert.False(t, mr.Exists("translations:en"))
	assert.False(t, mr.Exists("translations:ar"))

	assert.NoError(t, c.Invalidate(ctx))
}

func TestTranslationCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewTranslationCache(client, time.Minute)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "en")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), config.CacheConfig{RedisAddr: addr})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.CacheConfig{RedisAddr: addr})
	assert.Error(t, err)
}
