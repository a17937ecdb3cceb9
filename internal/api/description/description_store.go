package description

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL      = 30 * 24 * time.Hour
	defaultCategory = "attraction"
	redisKeyPrefix  = "travelist:description:"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CacheKey identifies a description by place, city and category.
func CacheKey(placeName, city, category string) string {
	q := strings.TrimSpace(strings.ToLower(placeName + " in " + city))
	q = nonWord.ReplaceAllString(q, "")
	q = whitespace.ReplaceAllString(q, "-")
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		c = defaultCategory
	}
	return q + "_" + c
}

// Entry is a cached description with the pages it was grounded on.
type Entry struct {
	Description      string   `json:"description"`
	GroundingSources []string `json:"groundingSources,omitempty"`
}

// Store keeps generated descriptions. A missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Name() string
}

// RedisStore shares descriptions across instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var e Entry
	if err := json.Unmarshal(v, &e); err != nil {
		// plain text values predate grounding sources
		return Entry{Description: string(v)}, true, nil
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode description %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Name() string { return "redis" }

// MemoryStore is the single instance fallback.
type MemoryStore struct {
	store *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{store: cache.New(ttl, time.Hour)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	v, ok := s.store.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	return v.(Entry), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	s.store.Set(key, entry, ttl)
	return nil
}

func (s *MemoryStore) Name() string { return "memory" }
