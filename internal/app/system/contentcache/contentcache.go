// Package contentcache caches published posts and products by slug.
//
// The content service reads through the cache on public slug lookups and
// invalidates the old and new slug on every write. A Nop cache is used when
// no Redis URL is configured.
package contentcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces cache keys.
const KeyPrefix = "stratasite:content:"

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = 10 * time.Minute

// Cache stores published content keyed by kind and slug.
type Cache interface {
	Get(ctx context.Context, kind models.ContentKind, slug string) (*models.Content, bool, error)
	Set(ctx context.Context, c *models.Content) error
	Invalidate(ctx context.Context, kind models.ContentKind, slugs ...string) error
}

// Key returns the cache key for kind and slug.
func Key(kind models.ContentKind, slug string) string {
	return KeyPrefix + string(kind) + ":" + slug
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Connect parses url, pings the server and returns a client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached entity, or ok=false on a miss.
func (r *Redis) Get(ctx context.Context, kind models.ContentKind, slug string) (*models.Content, bool, error) {
	b, err := r.client.Get(ctx, Key(kind, slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var c models.Content
	if err := json.Unmarshal(b, &c); err != nil {
		// A corrupt entry is a miss; drop it so the next read repopulates.
		_ = r.client.Del(ctx, Key(kind, slug)).Err()
		return nil, false, nil
	}
	return &c, true, nil
}

// Set caches c under its kind and slug.
func (r *Redis) Set(ctx context.Context, c *models.Content) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, Key(c.Kind, c.Slug), b, r.ttl).Err()
}

// Invalidate removes the given slugs. Empty slugs are ignored.
func (r *Redis) Invalidate(ctx context.Context, kind models.ContentKind, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, Key(kind, s))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, models.ContentKind, string) (*models.Content, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, *models.Content) error { return nil }

func (Nop) Invalidate(context.Context, models.ContentKind, ...string) error { return nil }
