package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCache stores the session as JSON in a file readable only by the
// current user.
type FileCache struct {
	path string
}

// NewFileCache creates a cache backed by path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// DefaultPath returns ~/.config/blogctl/session.json, or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "blogctl", "session.json"), nil
}

// Path returns the file the cache writes to.
func (c *FileCache) Path() string {
	return c.path
}

// Load reads the session file. A missing file means no session.
func (c *FileCache) Load(context.Context) (*Session, error) {
	payload, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session read: %w", err)
	}
	return decode(payload)
}

// Save writes the session atomically with 0600 permissions.
func (c *FileCache) Save(_ context.Context, s *Session) error {
	payload, err := encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("session mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session chmod: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("session write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

// Clear deletes the session file.
func (c *FileCache) Clear(context.Context) error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
