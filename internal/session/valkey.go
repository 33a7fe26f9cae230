package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL matches the server's default token lifetime.
	DefaultTTL = 720 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "blogctl:session:"
)

// ValkeyCache stores the session in Valkey under a per-profile key that
// expires together with the token.
type ValkeyCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewValkeyCache creates a cache for profile. A non-positive ttl falls
// back to DefaultTTL.
func NewValkeyCache(client *redis.Client, profile string, ttl time.Duration) *ValkeyCache {
	if profile == "" {
		profile = "default"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ValkeyCache{client: client, key: keyPrefix + profile, ttl: ttl}
}

// Key returns the Valkey key holding the session.
func (c *ValkeyCache) Key() string {
	return c.key
}

// Load fetches the session. An expired or missing key means no session.
func (c *ValkeyCache) Load(ctx context.Context) (*Session, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	return decode(payload)
}

// Save stores the session and resets the TTL.
func (c *ValkeyCache) Save(ctx context.Context, s *Session) error {
	payload, err := encode(s)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Clear removes the session key.
func (c *ValkeyCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
