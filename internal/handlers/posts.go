package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/middleware"
	"blogcraft/internal/models"
	"blogcraft/internal/respond"
	"blogcraft/internal/service"
)

// PostService is the slice of the content service used by the post
// endpoints.
type PostService interface {
	ListPosts(ctx context.Context, vis models.Visibility) ([]models.Post, error)
	GetPost(ctx context.Context, idOrSlug string, viewer *auth.Identity) (*models.Post, error)
	CreatePost(ctx context.Context, author auth.Identity, req service.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, req service.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// Identifier resolves the caller of a request from its bearer token. It
// returns nil, nil for anonymous requests.
type Identifier interface {
	Identify(r *http.Request) (*auth.Identity, error)
}

// Posts groups the post endpoints.
type Posts struct {
	svc   PostService
	ident Identifier
}

// NewPosts creates a new Posts handler group.
func NewPosts(svc PostService, ident Identifier) *Posts {
	return &Posts{svc: svc, ident: ident}
}

// List handles GET /posts. Only published posts are returned unless the
// caller is an admin and asks for ?all=true.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	vis := models.VisibilityPublic
	if r.URL.Query().Get("all") == "true" {
		id, err := h.ident.Identify(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		switch {
		case id == nil:
			respond.Error(w, r, apperr.Authentication("not authorized, no token"))
			return
		case !id.IsAdmin:
			respond.Error(w, r, apperr.Forbidden("not authorized as an admin"))
			return
		}
		vis = models.VisibilityAll
	}

	posts, err := h.svc.ListPosts(r.Context(), vis)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}

// Get handles GET /posts/{idOrSlug}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFromCtx(r.Context())
	p, err := h.svc.GetPost(r.Context(), chi.URLParam(r, "idOrSlug"), viewer)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Create handles POST /posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	author, err := caller(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req service.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.CreatePost(r.Context(), *author, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

// Update handles PUT /posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.UpdatePost(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "Post removed")
}
