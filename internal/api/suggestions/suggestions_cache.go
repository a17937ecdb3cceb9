package suggestions

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/blake2b"

	"github.com/FACorreiaa/travelist-ai/app/observability/metrics"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	DefaultTTL      = 24 * time.Hour
	DefaultCapacity = 20
)

// CacheKey normalizes a city and country pair.
func CacheKey(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "_" + strings.ToLower(strings.TrimSpace(country))
}

// Fingerprint hashes the parts of saved places that matter for suggestions.
// It does not depend on input order.
func Fingerprint(places []types.SavedPlaceContext) string {
	sorted := make([]types.SavedPlaceContext, len(places))
	copy(sorted, places)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return !sorted[i].Visited && sorted[j].Visited
	})

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = fmt.Sprintf("%s:%s:%t", p.Name, p.Category, p.Visited)
	}
	sum := blake2b.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	key         string
	fingerprint string
	payload     types.SuggestionResult
	expiresAt   time.Time
}

// Cache stores one suggestion result per city. An entry is served only while
// it is unexpired and the saved places fingerprint still matches.
type Cache struct {
	mu       sync.Mutex
	store    *cache.Cache
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *slog.Logger
}

type CacheOption func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func NewCache(ttl time.Duration, capacity int, logger *slog.Logger, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		// the janitor only reclaims memory; expiry is decided against c.now
		store:    cache.New(cache.NoExpiration, time.Hour),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for the city when it is fresh and was built
// from the same saved places. Expired or stale entries are removed.
func (c *Cache) Get(ctx context.Context, city, country string, places []types.SavedPlaceContext) (types.SuggestionResult, bool) {
	key := CacheKey(city, country)

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.store.Get(key)
	if !ok {
		c.observe(ctx, "miss")
		return types.SuggestionResult{}, false
	}
	e := v.(*cacheEntry)
	if c.now().After(e.expiresAt) {
		c.store.Delete(key)
		c.observe(ctx, "expired")
		c.evicted(ctx, "expired", 1)
		return types.SuggestionResult{}, false
	}
	if e.fingerprint != Fingerprint(places) {
		c.store.Delete(key)
		c.observe(ctx, "stale")
		c.evicted(ctx, "stale", 1)
		c.logger.DebugContext(ctx, "Saved places changed, dropping cached suggestions", slog.String("key", key))
		return types.SuggestionResult{}, false
	}
	c.observe(ctx, "hit")
	return clonePayload(e.payload), true
}

// Put stores a result with the default TTL.
func (c *Cache) Put(ctx context.Context, city, country string, places []types.SavedPlaceContext, payload types.SuggestionResult) {
	c.PutWithTTL(ctx, city, country, places, payload, c.ttl)
}

// PutWithTTL overwrites the entry for the city and then trims the cache to
// capacity, keeping the entries that expire last.
func (c *Cache) PutWithTTL(ctx context.Context, city, country string, places []types.SavedPlaceContext, payload types.SuggestionResult, ttl time.Duration) {
	key := CacheKey(city, country)
	e := &cacheEntry{
		key:         key,
		fingerprint: Fingerprint(places),
		payload:     clonePayload(payload),
		expiresAt:   c.now().Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// go-cache drops the item on its own once ttl passes on the wall clock
	c.store.Set(key, e, ttl)
	c.enforceCapacity(ctx)
}

func (c *Cache) enforceCapacity(ctx context.Context) {
	items := c.store.Items()
	if len(items) <= c.capacity {
		return
	}
	entries := make([]*cacheEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, it.Object.(*cacheEntry))
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].expiresAt.Equal(entries[j].expiresAt) {
			return entries[i].expiresAt.After(entries[j].expiresAt)
		}
		return entries[i].key < entries[j].key
	})
	for _, e := range entries[c.capacity:] {
		c.store.Delete(e.key)
	}
	c.evicted(ctx, "capacity", len(entries)-c.capacity)
}

// Clear drops every cached city.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.store.ItemCount()
	c.store.Flush()
	c.evicted(ctx, "cleared", n)
}

// ClearCity drops the entry for one city, reporting whether it existed.
func (c *Cache) ClearCity(ctx context.Context, city, country string) bool {
	key := CacheKey(city, country)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.Get(key); !ok {
		return false
	}
	c.store.Delete(key)
	c.evicted(ctx, "cleared", 1)
	return true
}

// Len counts stored entries, including ones past expiresAt not yet looked up.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

func (c *Cache) observe(ctx context.Context, result string) {
	metrics.Get().SuggestionCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (c *Cache) evicted(ctx context.Context, reason string, n int) {
	if n <= 0 {
		return
	}
	metrics.Get().SuggestionCacheEvictions.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

func clonePayload(p types.SuggestionResult) types.SuggestionResult {
	out := p
	out.Suggestions = make([]types.Suggestion, len(p.Suggestions))
	for i, s := range p.Suggestions {
		if s.Tags != nil {
			s.Tags = append([]string(nil), s.Tags...)
		}
		out.Suggestions[i] = s
	}
	if p.BasedOnPlaces != nil {
		out.BasedOnPlaces = append([]string(nil), p.BasedOnPlaces...)
	}
	return out
}
