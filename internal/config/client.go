package config

import (
	"fmt"
	"strings"
)

// Session cache backends for blogctl.
const (
	SessionFile   = "file"
	SessionValkey = "valkey"
)

// ClientConfig holds blogctl settings.
type ClientConfig struct {
	APIURL  string
	Session string // SessionFile or SessionValkey
	Profile string

	// Valkey (Redis-compatible) session store
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
}

// LoadClient reads the blogctl configuration from the environment.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIURL:         strings.TrimRight(envOrDefault("BLOGCTL_API", "http://localhost:5000"), "/"),
		Session:        strings.ToLower(envOrDefault("BLOGCTL_SESSION", SessionFile)),
		Profile:        envOrDefault("BLOGCTL_PROFILE", "default"),
		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: envOrDefault("VALKEY_PASSWORD", ""),
	}

	db, err := envInt("VALKEY_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.ValkeyDB = db

	switch cfg.Session {
	case SessionFile, SessionValkey:
	default:
		return nil, fmt.Errorf("BLOGCTL_SESSION: unknown backend %q, want file or valkey", cfg.Session)
	}
	return cfg, nil
}
