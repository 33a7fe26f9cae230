package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/models"
	"blogcraft/internal/service"
)

type fakeCategories struct {
	create   service.CreateCategoryRequest
	deleteID string
	cats     []models.Category
	cat      *models.Category
	err      error
}

func (f *fakeCategories) ListCategories(context.Context) ([]models.Category, error) {
	return f.cats, f.err
}

func (f *fakeCategories) CreateCategory(_ context.Context, req service.CreateCategoryRequest) (*models.Category, error) {
	f.create = req
	return f.cat, f.err
}

func (f *fakeCategories) DeleteCategory(_ context.Context, id string) error {
	f.deleteID = id
	return f.err
}

func TestCategoriesList(t *testing.T) {
	svc := &fakeCategories{cats: []models.Category{
		{ID: uuid.New(), Name: "Go", Slug: "go"},
		{ID: uuid.New(), Name: "Rust", Slug: "rust"},
	}}
	rr := httptest.NewRecorder()
	NewCategories(svc).List(rr, newRequest(http.MethodGet, "/categories", "", nil, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got []models.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Go" {
		t.Errorf("body: %+v", got)
	}
}

func TestCategoriesCreate(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"duplicate", apperr.Conflict("category already exists"), http.StatusConflict},
		{"invalid", apperr.Validation("name: cannot be blank."), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCategories{cat: &models.Category{ID: uuid.New(), Name: "Go", Slug: "go"}, err: tt.err}
			rr := httptest.NewRecorder()
			NewCategories(svc).Create(rr, newRequest(http.MethodPost, "/categories",
				`{"name":"Go","description":"Gophers"}`, adminID, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if svc.create.Name != "Go" || svc.create.Description != "Gophers" {
				t.Errorf("request not decoded: %+v", svc.create)
			}
		})
	}
}

func TestCategoriesDelete(t *testing.T) {
	id := uuid.New().String()
	svc := &fakeCategories{}
	rr := httptest.NewRecorder()
	NewCategories(svc).Delete(rr, newRequest(http.MethodDelete, "/categories/"+id, "", adminID,
		map[string]string{"id": id}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if got := messageOf(t, rr); got != "Category removed" {
		t.Errorf("message: got %q", got)
	}
	if svc.deleteID != id {
		t.Errorf("id: got %q", svc.deleteID)
	}
}
