package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/witness-archive/api/archive-ingest/internal/config"
)

const translationKeyPrefix = "translations:"

// NewRedisClient connects to the configured Redis and verifies it with a ping.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// TranslationCache stores the resolved key -> text map of each locale as one
// JSON string under translations:<locale>.
type TranslationCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewTranslationCache creates a cache whose entries expire after ttl. A zero
// ttl keeps entries until they are invalidated.
func NewTranslationCache(client redis.Cmdable, ttl time.Duration) *TranslationCache {
	return &TranslationCache{client: client, ttl: ttl}
}

func translationKey(locale string) string {
	return translationKeyPrefix + locale
}

// Get returns the cached map for locale. A miss is reported as (nil, false, nil).
func (c *TranslationCache) Get(ctx context.Context, locale string) (map[string]string, bool, error) {
	raw, err := c.client.Get(ctx, translationKey(locale)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read translations for %s: %w", locale, err)
	}

	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		// Corrupt entries are treated as a miss and overwritten on the next Set
		return nil, false, nil
	}
	return values, true, nil
}

// Set stores values for locale.
func (c *TranslationCache) Set(ctx context.Context, locale string, values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode translations for %s: %w", locale, err)
	}
	if err := c.client.Set(ctx, translationKey(locale), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache translations for %s: %w", locale, err)
	}
	return nil
}

// Invalidate drops the cached maps of the given locales.
func (c *TranslationCache) Invalidate(ctx context.Context, locales ...string) error {
	if len(locales) == 0 {
		return nil
	}
	keys := make([]string, 0, len(locales))
	for _, locale := range locales {
		keys = append(keys, translationKey(locale))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate translations: %w", err)
	}
	return nil
}
