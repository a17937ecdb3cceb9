package suggestions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var lisbonPlaces = []types.SavedPlaceContext{
	{Name: "Time Out Market", Category: types.CategoryFood},
	{Name: "Park Bar", Category: types.CategoryNightlife, Visited: true},
}

func payloadFor(city string) types.SuggestionResult {
	return types.SuggestionResult{
		CityName: city,
		Suggestions: []types.Suggestion{
			{ID: "ai-1", Name: "Cervejaria Ramiro", Category: types.CategoryFood, Tags: []string{"seafood"}},
		},
		BasedOnPlaces: []string{"Time Out Market"},
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "lisbon_portugal", CacheKey("  Lisbon", "PORTUGAL "))
	assert.Equal(t, CacheKey("new york", "usa"), CacheKey("New York", "USA"))
}

func TestFingerprint(t *testing.T) {
	a := []types.SavedPlaceContext{
		{Name: "B", Category: types.CategoryFood},
		{Name: "A", Category: types.CategoryOutdoors, Visited: true},
	}
	b := []types.SavedPlaceContext{a[1], a[0]}

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t, Fingerprint(a), Fingerprint(b))
		assert.Len(t, Fingerprint(a), 64)
	})

	t.Run("visited flag changes fingerprint", func(t *testing.T) {
		c := []types.SavedPlaceContext{a[0], {Name: "A", Category: types.CategoryOutdoors}}
		assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	})

	t.Run("description is ignored", func(t *testing.T) {
		c := []types.SavedPlaceContext{a[0], a[1]}
		c[0].Description = "great croissants"
		assert.Equal(t, Fingerprint(a), Fingerprint(c))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, Fingerprint(nil), Fingerprint([]types.SavedPlaceContext{}))
	})
}

func TestCacheGetPut(t *testing.T) {
	ctx := context.Background()

	t.Run("hit returns stored payload", func(t *testing.T) {
		c := NewCache(0, 0, testLogger())
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))

		got, ok := c.Get(ctx, "lisbon", "portugal", []types.SavedPlaceContext{lisbonPlaces[1], lisbonPlaces[0]})
		require.True(t, ok)
		assert.Equal(t, payloadFor("Lisbon"), got)
	})

	t.Run("returned payload is a copy", func(t *testing.T) {
		c := NewCache(0, 0, testLogger())
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))

		got, ok := c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		require.True(t, ok)
		got.Suggestions[0].Tags[0] = "mutated"

		again, ok := c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		require.True(t, ok)
		assert.Equal(t, "seafood", again.Suggestions[0].Tags[0])
	})

	t.Run("changed saved places evicts entry", func(t *testing.T) {
		c := NewCache(0, 0, testLogger())
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))

		more := append([]types.SavedPlaceContext{{Name: "Belem Tower", Category: types.CategoryAttractions}}, lisbonPlaces...)
		_, ok := c.Get(ctx, "Lisbon", "Portugal", more)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())

		_, ok = c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		assert.False(t, ok)
	})

	t.Run("expiry with fake clock", func(t *testing.T) {
		clock := newFakeClock()
		c := NewCache(24*time.Hour, 20, testLogger(), WithClock(clock.Now))
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))

		clock.Advance(24 * time.Hour)
		_, ok := c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		assert.True(t, ok, "entry is still valid exactly at expiresAt")

		clock.Advance(time.Second)
		_, ok = c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("put overwrites", func(t *testing.T) {
		c := NewCache(0, 0, testLogger())
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))
		second := payloadFor("Lisbon")
		second.Suggestions[0].Name = "A Cevicheria"
		c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, second)

		got, ok := c.Get(ctx, "Lisbon", "Portugal", lisbonPlaces)
		require.True(t, ok)
		assert.Equal(t, "A Cevicheria", got.Suggestions[0].Name)
		assert.Equal(t, 1, c.Len())
	})
}

func TestCacheCapacity(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewCache(24*time.Hour, 20, testLogger(), WithClock(clock.Now))

	for i := 0; i < 21; i++ {
		c.Put(ctx, fmt.Sprintf("City%02d", i), "Country", lisbonPlaces, payloadFor(fmt.Sprintf("City%02d", i)))
		clock.Advance(time.Minute)
	}

	assert.Equal(t, 20, c.Len())
	_, ok := c.Get(ctx, "City00", "Country", lisbonPlaces)
	assert.False(t, ok, "entry expiring first is evicted")
	for i := 1; i < 21; i++ {
		_, ok := c.Get(ctx, fmt.Sprintf("City%02d", i), "Country", lisbonPlaces)
		assert.True(t, ok, "City%02d should remain", i)
	}
}

func TestCacheCapacityKeepsLongestTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewCache(24*time.Hour, 2, testLogger(), WithClock(clock.Now))

	c.PutWithTTL(ctx, "Long", "X", nil, payloadFor("Long"), 48*time.Hour)
	c.PutWithTTL(ctx, "Short", "X", nil, payloadFor("Short"), time.Hour)
	c.Put(ctx, "Newest", "X", nil, payloadFor("Newest"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "Short", "X", nil)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "Long", "X", nil)
	assert.True(t, ok)
	_, ok = c.Get(ctx, "Newest", "X", nil)
	assert.True(t, ok)
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewCache(0, 0, testLogger())
	c.Put(ctx, "Lisbon", "Portugal", lisbonPlaces, payloadFor("Lisbon"))
	c.Put(ctx, "Porto", "Portugal", lisbonPlaces, payloadFor("Porto"))

	assert.True(t, c.ClearCity(ctx, "PORTO", "portugal"))
	assert.False(t, c.ClearCity(ctx, "Porto", "Portugal"))
	assert.Equal(t, 1, c.Len())

	c.Clear(ctx)
	assert.Equal(t, 0, c.Len())
}
