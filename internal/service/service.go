// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the business rules of the blog: registration and
// login, the post publication workflow and category management. Services
// depend on small repository interfaces so they can be exercised without
// a database.
package service

import (
	"context"

	"github.com/google/uuid"

	"blogcraft/internal/auth"
	"blogcraft/internal/models"
)

// UserRepository is the credential store used by AuthService.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Count(ctx context.Context) (int, error)
	// Create refuses with a validation error when onlyFirst is set and an
	// account already exists. The check is atomic with the insert.
	Create(ctx context.Context, email, passwordHash string, isAdmin, onlyFirst bool) (*models.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// PostRepository persists posts. Finders return nil, nil when nothing
// matches; Create and Update report slug collisions as conflict errors.
type PostRepository interface {
	List(ctx context.Context, vis models.Visibility) ([]models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Exists(ctx context.Context, name, slug string) (nameTaken, slugTaken bool, err error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ImageRemover deletes stored featured images. URLs it does not own are
// ignored.
type ImageRemover interface {
	RemoveByURL(ctx context.Context, url string) error
}
