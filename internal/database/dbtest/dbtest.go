// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dbtest provides a migrated PostgreSQL database for integration
// tests. Each call to Open gets its own schema, so packages can run their
// tests in parallel against the same server.
//
// The server comes from POSTGRES_* environment variables. When it is not
// reachable and BLOGCRAFT_TESTCONTAINERS=1, a disposable postgres container
// is started instead; otherwise the calling test is skipped.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"blogcraft/internal/database"
)

const containerPort = "5432/tcp"

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN returns the connection string built from POSTGRES_* variables,
// with defaults matching the development docker-compose setup.
func DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(envOr("POSTGRES_USER", "blogcraft"), envOr("POSTGRES_PASSWORD", "changeme")),
		Host:   envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432"),
		Path:   "/" + envOr("POSTGRES_DB", "blogcraft"),
	}
	q := url.Values{}
	q.Set("sslmode", envOr("POSTGRES_SSLMODE", "disable"))
	q.Set("connect_timeout", "2")
	u.RawQuery = q.Encode()
	return u.String()
}

// Open returns a connection to a fresh, fully migrated schema. The schema
// is dropped and the pool closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn, ok := serverDSN(t)
	if !ok {
		t.Skip("skipping integration test: PostgreSQL not reachable (set BLOGCRAFT_TESTCONTAINERS=1 to start one)")
	}

	admin, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	defer admin.Close()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec("CREATE SCHEMA " + schema); err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", withSearchPath(dsn, schema))
	if err != nil {
		t.Fatalf("open schema connection: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		cleanup, err := sql.Open("pgx", dsn)
		if err != nil {
			return
		}
		defer cleanup.Close()
		if _, err := cleanup.Exec("DROP SCHEMA IF EXISTS " + schema + " CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
	})
	return db
}

// serverDSN finds a reachable server, starting a container if allowed.
func serverDSN(t *testing.T) (string, bool) {
	t.Helper()

	dsn := DSN()
	if ping(dsn) == nil {
		return dsn, true
	}
	if os.Getenv("BLOGCRAFT_TESTCONTAINERS") != "1" {
		return "", false
	}

	containerOnce.Do(func() {
		containerDSN, containerErr = startContainer(context.Background())
	})
	if containerErr != nil {
		t.Logf("start postgres container: %v", containerErr)
		return "", false
	}
	return containerDSN, true
}

func ping(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// startContainer runs a throwaway postgres. The container is reaped by
// testcontainers when the test binary exits.
func startContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{containerPort},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "blogcraft_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(containerPort),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, containerPort)
	if err != nil {
		return "", fmt.Errorf("failed to get container port: %w", err)
	}

	return fmt.Sprintf("postgres://test:test@%s:%s/blogcraft_test?sslmode=disable", host, port.Port()), nil
}

// withSearchPath adds a search_path runtime parameter to dsn.
func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}
