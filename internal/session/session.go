// Package session persists the CLI's login between invocations. A Session
// holds the bearer token returned by the API together with the identity it
// was issued for. Caches are interchangeable: in memory for tests, a file
// under the user's config directory, or Valkey with automatic TTL expiry.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Session is the cached result of a successful login or registration.
type Session struct {
	Token   string    `json:"token"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
	SavedAt time.Time `json:"saved_at"`
}

// Cache stores at most one session. Load returns nil, nil when nothing is
// cached.
type Cache interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

func encode(s *Session) ([]byte, error) {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session marshal: %w", err)
	}
	return payload, nil
}

func decode(payload []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// MemoryCache keeps the session in process memory.
type MemoryCache struct {
	mu sync.Mutex
	s  *Session
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load returns a copy of the cached session.
func (c *MemoryCache) Load(context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s == nil {
		return nil, nil
	}
	cp := *c.s
	return &cp, nil
}

// Save replaces the cached session.
func (c *MemoryCache) Save(_ context.Context, s *Session) error {
	cp := *s
	if cp.SavedAt.IsZero() {
		cp.SavedAt = time.Now().UTC()
	}
	c.mu.Lock()
	c.s = &cp
	c.mu.Unlock()
	return nil
}

// Clear forgets the cached session.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	c.s = nil
	c.mu.Unlock()
	return nil
}
