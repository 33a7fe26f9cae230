package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogcraft/internal/models"
	"blogcraft/internal/respond"
	"blogcraft/internal/service"
)

// CategoryService is the slice of the content service used by the
// category endpoints.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req service.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Categories groups the category endpoints.
type Categories struct {
	svc CategoryService
}

// NewCategories creates a new Categories handler group.
func NewCategories(svc CategoryService) *Categories {
	return &Categories{svc: svc}
}

// List handles GET /categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, cats)
}

// Create handles POST /categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

// Delete handles DELETE /categories/{id}. Posts that referenced the
// category are left untouched.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "Category removed")
}
