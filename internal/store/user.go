// Package store provides database access methods for all BlogCraft
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, is_admin, created_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by email, ignoring case. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Count returns the total number of users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Create inserts a user with an already hashed password. The email is
// stored lower-cased. The account is made admin when isAdmin is set or
// when it is the first account in the table. With onlyFirst the insert is
// refused once any account exists. Registrations are serialized with an
// advisory lock, so both checks see every committed account.
func (s *UserStore) Create(ctx context.Context, email, passwordHash string, isAdmin, onlyFirst bool) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('blogcraft.users.create'))`); err != nil {
		return nil, fmt.Errorf("lock users: %w", err)
	}

	if onlyFirst {
		var taken bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&taken); err != nil {
			return nil, fmt.Errorf("check users: %w", err)
		}
		if taken {
			return nil, apperr.Validation("registration is closed")
		}
	}

	u, err := scanUser(tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, is_admin)
		SELECT $1, $2, $3 OR NOT EXISTS (SELECT 1 FROM users)
		RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(email)), passwordHash, isAdmin,
	))
	if err != nil {
		return nil, writeErr("insert user", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create user: %w", err)
	}
	return u, nil
}
