// store_test.go provides shared helpers for all store integration tests.
// Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"testing"

	"blogcraft/internal/database/dbtest"
	"blogcraft/internal/models"
)

// testDB returns a connection to a fresh migrated schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.Open(t)
}

// mustUser inserts a user for tests that need an author.
func mustUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), email, "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashnotre", false, false)
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// mustCategory inserts a category.
func mustCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func strPtr(s string) *string { return &s }
