// Package cache stores run summaries in Redis, keyed by board content.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

const defaultPrefix = "mirrorhouse:run:"

// Summary is the cached form of a finished run.
type Summary struct {
	Outcome     string    `json:"outcome"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	Direction   string    `json:"direction"`
	Axis        string    `json:"axis"`
	Steps       int       `json:"steps"`
	Reflections int       `json:"reflections"`
	CachedAt    time.Time `json:"cached_at,omitempty"`
}

// SummaryOf builds the summary of a run result.
func SummaryOf(res mirror.Result) Summary {
	out := res.Outcome
	return Summary{
		Outcome:     out.Kind.String(),
		X:           out.Pos.X,
		Y:           out.Pos.Y,
		Direction:   out.Dir.String(),
		Axis:        out.Axis.String(),
		Steps:       out.Steps,
		Reflections: res.Reflections(),
	}
}

// Cache implements a run summary cache using Redis.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for entries.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// New creates a cache connected to the Redis server at address.
func New(address string, opts ...Option) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: address}), opts...)
}

// NewFromClient creates a cache from an existing client.
func NewFromClient(client *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: defaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Key builds the cache key for a board hash and run settings.
func (c *Cache) Key(boardHash string, maxSteps int, legacyRightGate bool) string {
	return c.prefix + boardHash + ":" + strconv.Itoa(maxSteps) + ":" + strconv.FormatBool(legacyRightGate)
}

// Get returns the summary stored under key. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, key string) (Summary, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Summary{}, false, nil
		}
		return Summary{}, false, fmt.Errorf("cache: failed to read %s: %w", key, err)
	}

	var s Summary
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return Summary{}, false, fmt.Errorf("cache: failed to unmarshal %s: %w", key, err)
	}
	return s, true, nil
}

// Put stores s under key with the configured TTL.
func (c *Cache) Put(ctx context.Context, key string, s Summary) error {
	if s.CachedAt.IsZero() {
		s.CachedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to write %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
