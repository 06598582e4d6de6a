package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/redis"
)

const keyPrefix = "search:"

// Store is the key/value backend behind the cache. *pkgredis.Client
// satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache stores ranked pages keyed by the normalised query terms. Queries
// that normalise to the same set of terms share an entry, since the ranking
// depends only on the distinct terms.
type QueryCache struct {
	store       Store
	ttl         time.Duration
	fingerprint string
	group       singleflight.Group
	metrics     *metrics.Metrics
	logger      *slog.Logger
	hits        atomic.Int64
	misses      atomic.Int64
}

type Option func(*QueryCache)

// WithFingerprint scopes keys to an engine configuration (parameters and
// language) so a restart with different settings never reads stale scores.
func WithFingerprint(fp string) Option {
	return func(c *QueryCache) { c.fingerprint = fp }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *QueryCache) { c.metrics = m }
}

func New(store Store, ttl time.Duration, opts ...Option) *QueryCache {
	c := &QueryCache{
		store:  store,
		ttl:    ttl,
		logger: slog.Default().With("component", "query-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *QueryCache) Get(ctx context.Context, terms []string, limit int) (*executor.SearchResult, bool) {
	key := c.buildKey(terms, limit)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, pkgredis.ErrMiss) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.recordMiss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	c.logger.Debug("cache hit", "terms", terms, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, terms []string, limit int, result *executor.SearchResult) {
	key := c.buildKey(terms, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached page for terms and limit, or runs computeFn
// once per key across concurrent callers and stores its result. The boolean
// reports whether the result came from the store.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	terms []string,
	limit int,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, terms, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(terms, limit)
	val, err, _ := c.group.Do(key, func() (any, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, terms, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *QueryCache) buildKey(terms []string, limit int) string {
	raw := fmt.Sprintf("%s|%s|limit=%d", c.fingerprint, normalizeTerms(terms), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeTerms sorts and dedups terms so permutations and repeats of the
// same query hit one entry.
func normalizeTerms(terms []string) string {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)
	out := make([]string, 0, len(sorted))
	for _, t := range sorted {
		if len(out) > 0 && out[len(out)-1] == t {
			continue
		}
		out = append(out, t)
	}
	return strings.Join(out, ",")
}
