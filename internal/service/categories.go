// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"blogcraft/internal/apperr"
	"blogcraft/internal/models"
	"blogcraft/internal/slug"
)

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Validate checks required fields and limits.
func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxCategoryNameLength)),
		validation.Field(&r.Slug, validation.RuneLength(0, MaxSlugLength), slugRule),
		validation.Field(&r.Description, validation.RuneLength(0, MaxDescriptionLength)),
	)
}

// ListCategories returns every category sorted by name.
func (s *ContentService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory stores a new category, deriving its slug from the name
// when none is given.
func (s *ContentService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	catSlug := req.Slug
	if catSlug == "" {
		catSlug = slug.Generate(req.Name)
		if catSlug == "" {
			return nil, apperr.Validation("name must contain at least one letter or digit")
		}
	}

	nameTaken, slugTaken, err := s.categories.Exists(ctx, req.Name, catSlug)
	if err != nil {
		return nil, err
	}
	if nameTaken {
		return nil, apperr.Conflict("category already exists")
	}
	if slugTaken {
		return nil, apperr.Conflict("a category with this slug already exists")
	}

	created, err := s.categories.Create(ctx, &models.Category{
		Name:        req.Name,
		Slug:        catSlug,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("category created", "category_id", created.ID, "slug", created.Slug)
	return created, nil
}

// DeleteCategory removes a category. Posts that reference it keep the
// reference and read as uncategorized.
func (s *ContentService) DeleteCategory(ctx context.Context, id string) error {
	catID, ok := models.ParseID(id)
	if !ok {
		return apperr.NotFound("category not found")
	}
	deleted, err := s.categories.Delete(ctx, catID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("category not found")
	}
	slog.Info("category deleted", "category_id", catID)
	return nil
}
