package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/model"

	"github.com/redis/go-redis/v9"
)

// CachingFetcher decorates a Fetcher with Redis caching of daily bars.
// A nil client bypasses the cache entirely.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingFetcher wraps inner. If ttl is 0 it defaults to 6 hours; an empty
// namespace becomes "bars".
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner Fetcher, namespace string) *CachingFetcher {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingFetcher{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() + "+redis" }

// FetchDailyBars returns cached bars when present, otherwise fetches and caches
// them. Cache failures never fail the fetch.
func (c *CachingFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if c.rdb == nil {
		return c.inner.FetchDailyBars(ctx, symbol, days)
	}
	key := c.cacheKey(symbol, days)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []model.PriceBar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Invalidate drops the cached bars of symbol for every history length.
func (c *CachingFetcher) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	var cursor uint64
	pattern := fmt.Sprintf("%s:%s:*", c.namespace, safeKey(symbol))
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

func (c *CachingFetcher) cacheKey(symbol string, days int) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safeKey(symbol), days)
}

func safeKey(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}
