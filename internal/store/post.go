// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blogcraft/internal/models"
)

// PostStore handles all post-related database operations. Every read joins
// categories so posts carry their resolved category name.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects from an alias "p" joined to categories "c".
const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.image,
	p.category_id, p.status, p.author_id, p.created_at, p.updated_at, c.name`

const postSelect = `SELECT ` + postColumns + `
	FROM posts p LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p       models.Post
		catName *string
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Image,
		&p.CategoryID, &p.Status, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&catName,
	)
	if err != nil {
		return nil, err
	}
	p.ResolveCategoryName(catName)
	return &p, nil
}

// List returns posts newest first. VisibilityPublic restricts the result
// to published posts.
func (s *PostStore) List(ctx context.Context, vis models.Visibility) ([]models.Post, error) {
	query := postSelect
	var args []any
	if vis != models.VisibilityAll {
		query += ` WHERE p.status = $1`
		args = append(args, models.PostStatusPublished)
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post already uses slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// Create inserts a post and returns the stored row. A slug collision is
// reported as a conflict error.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		WITH p AS (
			INSERT INTO posts (title, slug, content, excerpt, image, category_id, status, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT `+postColumns+`
		FROM p LEFT JOIN categories c ON c.id = p.category_id
	`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Image,
		p.CategoryID, p.Status, p.AuthorID,
	))
	if err != nil {
		return nil, writeErr("insert post", err)
	}
	return created, nil
}

// Update writes the mutable fields of p and bumps updated_at. Slug and
// author are never changed. Returns nil if the post does not exist.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	updated, err := scanPost(s.db.QueryRowContext(ctx, `
		WITH p AS (
			UPDATE posts SET
				title = $2, content = $3, excerpt = $4, image = $5,
				category_id = $6, status = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+postColumns+`
		FROM p LEFT JOIN categories c ON c.id = p.category_id
	`,
		p.ID, p.Title, p.Content, p.Excerpt, p.Image, p.CategoryID, p.Status,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, writeErr("update post", err)
	}
	return updated, nil
}

// Delete permanently removes a post. It reports whether a row was deleted.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}
