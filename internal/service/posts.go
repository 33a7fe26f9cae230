// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/excerpt"
	"blogcraft/internal/models"
	"blogcraft/internal/slug"
)

// CreatePostRequest is the body of POST /posts. Category may be sent as
// either "category" or "category_id".
type CreatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	Slug       string `json:"slug"`
	Image      string `json:"image"`
	Category   string `json:"category"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
}

// Validate checks required fields and limits.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, MaxContentLength)),
		validation.Field(&r.Excerpt, validation.RuneLength(0, MaxExcerptLength)),
		validation.Field(&r.Slug, validation.RuneLength(0, MaxSlugLength), slugRule),
		validation.Field(&r.Image, httpURLRule),
		validation.Field(&r.Category, categoryIDRule),
		validation.Field(&r.CategoryID, categoryIDRule),
		validation.Field(&r.Status, statusRule),
	)
}

// UpdatePostRequest is the body of PUT /posts/{id}. Empty fields leave the
// stored value unchanged. The slug is fixed at creation.
type UpdatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	Image      string `json:"image"`
	Category   string `json:"category"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
}

// Validate checks limits on the supplied fields.
func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&r.Content, validation.RuneLength(0, MaxContentLength)),
		validation.Field(&r.Excerpt, validation.RuneLength(0, MaxExcerptLength)),
		validation.Field(&r.Image, httpURLRule),
		validation.Field(&r.Category, categoryIDRule),
		validation.Field(&r.CategoryID, categoryIDRule),
		validation.Field(&r.Status, statusRule),
	)
}

// categoryRef returns whichever category field was supplied, preferring
// "category".
func categoryRef(category, categoryID string) string {
	if category != "" {
		return category
	}
	return categoryID
}

// ContentService applies the publication workflow to posts and manages
// categories.
type ContentService struct {
	posts      PostRepository
	categories CategoryRepository
	images     ImageRemover
}

// NewContentService creates a ContentService. images may be nil when no
// media storage is configured.
func NewContentService(posts PostRepository, categories CategoryRepository, images ImageRemover) *ContentService {
	return &ContentService{posts: posts, categories: categories, images: images}
}

// ListPosts returns posts newest first. Callers must only pass
// VisibilityAll for admins.
func (s *ContentService) ListPosts(ctx context.Context, vis models.Visibility) ([]models.Post, error) {
	return s.posts.List(ctx, vis)
}

// GetPost looks a post up by identifier or slug. Drafts are only returned
// to admin viewers; everyone else gets not found.
func (s *ContentService) GetPost(ctx context.Context, idOrSlug string, viewer *auth.Identity) (*models.Post, error) {
	var (
		p   *models.Post
		err error
	)
	if id, ok := models.ParseID(idOrSlug); ok {
		p, err = s.posts.FindByID(ctx, id)
	} else {
		p, err = s.posts.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}
	if !p.IsPublished() && (viewer == nil || !viewer.IsAdmin) {
		return nil, apperr.NotFound("post not found")
	}
	return p, nil
}

// CreatePost validates req, derives the slug and excerpt when missing and
// stores a new post authored by author.
func (s *ContentService) CreatePost(ctx context.Context, author auth.Identity, req CreatePostRequest) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	req.Image = strings.TrimSpace(req.Image)
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	postSlug := req.Slug
	if postSlug == "" {
		postSlug = slug.Generate(req.Title)
		if postSlug == "" {
			return nil, apperr.Validation("title must contain at least one letter or digit")
		}
	}

	taken, err := s.posts.SlugExists(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("a post with this slug already exists")
	}

	status := models.PostStatusDraft
	if req.Status != "" {
		status = models.PostStatus(req.Status)
	}

	p := &models.Post{
		Title:   req.Title,
		Slug:    postSlug,
		Content: req.Content,
		Status:  status,
	}
	if author.UserID != uuid.Nil {
		authorID := author.UserID
		p.AuthorID = &authorID
	}
	if req.Excerpt != "" {
		p.Excerpt = &req.Excerpt
	} else if derived := excerpt.FromHTML(req.Content, excerpt.DefaultLength); derived != "" {
		p.Excerpt = &derived
	}
	if req.Image != "" {
		p.Image = &req.Image
	}
	if ref := categoryRef(req.Category, req.CategoryID); ref != "" {
		id, err := s.requireCategory(ctx, ref)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &id
	}

	created, err := s.posts.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	slog.Info("post created", "post_id", created.ID, "slug", created.Slug, "status", created.Status)
	return created, nil
}

// UpdatePost applies a partial update. Only non-empty fields overwrite the
// stored values; the slug and author never change.
func (s *ContentService) UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*models.Post, error) {
	postID, ok := models.ParseID(id)
	if !ok {
		return nil, apperr.NotFound("post not found")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	req.Image = strings.TrimSpace(req.Image)
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Content != "" {
		p.Content = req.Content
	}
	if req.Excerpt != "" {
		p.Excerpt = &req.Excerpt
	}
	if req.Image != "" {
		p.Image = &req.Image
	}
	if req.Status != "" {
		p.Status = models.PostStatus(req.Status)
	}
	if ref := categoryRef(req.Category, req.CategoryID); ref != "" {
		catID, err := s.requireCategory(ctx, ref)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &catID
	}

	updated, err := s.posts.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("post not found")
	}
	slog.Info("post updated", "post_id", updated.ID, "status", updated.Status)
	return updated, nil
}

// DeletePost permanently removes a post. A featured image held in media
// storage is removed best-effort.
func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	postID, ok := models.ParseID(id)
	if !ok {
		return apperr.NotFound("post not found")
	}

	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("post not found")
	}

	deleted, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("post not found")
	}
	slog.Info("post deleted", "post_id", postID)

	if p.Image != nil && s.images != nil {
		if err := s.images.RemoveByURL(ctx, *p.Image); err != nil {
			slog.Warn("remove featured image", "post_id", postID, "url", *p.Image, "error", err)
		}
	}
	return nil
}

// requireCategory resolves a category reference supplied by a client.
func (s *ContentService) requireCategory(ctx context.Context, ref string) (uuid.UUID, error) {
	id, ok := models.ParseID(ref)
	if !ok {
		return uuid.Nil, apperr.Validation("category: must be a valid category id.")
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if c == nil {
		return uuid.Nil, apperr.Validation("category: does not exist.")
	}
	return id, nil
}
