package search

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	pkgredis "github.com/keshavjha123/paragraph-analytics/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// Cache stores search results in Redis keyed by the normalised query.
// Concurrent misses for the same key are collapsed through singleflight so
// the store sees one query. Ingestion invalidates the whole prefix because
// any new paragraph can change any result set.
type Cache struct {
	client *pkgredis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func NewCache(client *pkgredis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "search-cache"),
	}
}

func (c *Cache) Get(ctx context.Context, q *Query) (*Result, bool) {
	key := c.buildKey(q)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &result, true
}

func (c *Cache) Set(ctx context.Context, q *Query, result *Result) {
	key := c.buildKey(q)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) GetOrCompute(
	ctx context.Context,
	q *Query,
	computeFn func() (*Result, error),
) (*Result, bool, error) {
	if result, ok := c.Get(ctx, q); ok {
		return result, true, nil
	}
	key := c.buildKey(q)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, q); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, q, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*Result), false, nil
}

// Invalidate drops every cached search result.
func (c *Cache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating search cache: %w", err)
	}
	c.logger.Info("search cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the sorted terms and operator so word order never
// produces distinct cache entries for the same query.
func (c *Cache) buildKey(q *Query) string {
	terms := make([]string, len(q.Terms))
	copy(terms, q.Terms)
	sort.Strings(terms)
	raw := string(q.Operator) + "|" + strings.Join(terms, ",")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
