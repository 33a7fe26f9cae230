package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/models"
)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memUsers) Create(_ context.Context, email, hash string, isAdmin, onlyFirst bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if onlyFirst && len(m.users) > 0 {
		return nil, apperr.Validation("registration is closed")
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, apperr.Conflict("user already exists")
		}
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		IsAdmin:      isAdmin || len(m.users) == 0,
		CreatedAt:    time.Now(),
	}
	m.users = append(m.users, u)
	cp := *u
	return &cp, nil
}

// staleCount reports an empty table regardless of its contents, the view a
// registration has when another one commits between Count and Create.
type staleCount struct {
	*memUsers
}

func (staleCount) Count(context.Context) (int, error) { return 0, nil }

// memTokens issues opaque tokens encoding the identity.
type memTokens struct {
	mu     sync.Mutex
	issued []auth.Identity
}

func (m *memTokens) Issue(id auth.Identity) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued = append(m.issued, id)
	return "token-for-" + id.UserID.String(), nil
}

// memContent implements PostRepository and CategoryRepository with the
// same uniqueness and join behaviour as the SQL stores.
type memContent struct {
	mu         sync.Mutex
	posts      []*models.Post
	categories []*models.Category
	clock      time.Time
}

func newMemContent() *memContent {
	return &memContent{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memContent) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memContent) resolve(p *models.Post) models.Post {
	cp := *p
	var name *string
	if p.CategoryID != nil {
		for _, c := range m.categories {
			if c.ID == *p.CategoryID {
				n := c.Name
				name = &n
			}
		}
	}
	cp.ResolveCategoryName(name)
	return cp
}

func (m *memContent) List(_ context.Context, vis models.Visibility) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Post{}
	for _, p := range m.posts {
		if vis == models.VisibilityPublic && !p.IsPublished() {
			continue
		}
		out = append(out, m.resolve(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memContent) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			r := m.resolve(p)
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memContent) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			r := m.resolve(p)
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memContent) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memContent) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.posts {
		if existing.Slug == p.Slug {
			return nil, apperr.Conflict("a post with this slug already exists")
		}
	}
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = m.tick()
	cp.UpdatedAt = cp.CreatedAt
	m.posts = append(m.posts, &cp)
	r := m.resolve(&cp)
	return &r, nil
}

func (m *memContent) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.posts {
		if existing.ID == p.ID {
			existing.Title = p.Title
			existing.Content = p.Content
			existing.Excerpt = p.Excerpt
			existing.Image = p.Image
			existing.CategoryID = p.CategoryID
			existing.Status = p.Status
			existing.UpdatedAt = m.tick()
			r := m.resolve(existing)
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memContent) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// memCategories adapts memContent to CategoryRepository; the method sets
// of the two interfaces overlap so a separate type is needed.
type memCategories struct{ *memContent }

func (m memCategories) List(context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memCategories) Exists(_ context.Context, name, slug string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var nameTaken, slugTaken bool
	for _, c := range m.categories {
		nameTaken = nameTaken || c.Name == name
		slugTaken = slugTaken || c.Slug == slug
	}
	return nameTaken, slugTaken, nil
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == c.Name || existing.Slug == c.Slug {
			return nil, apperr.Conflict("category already exists")
		}
	}
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = m.tick()
	cp.UpdatedAt = cp.CreatedAt
	m.categories = append(m.categories, &cp)
	out := cp
	return &out, nil
}

func (m memCategories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// memImages records removal requests.
type memImages struct {
	removed []string
	err     error
}

func (m *memImages) RemoveByURL(_ context.Context, url string) error {
	m.removed = append(m.removed, url)
	return m.err
}

func newContentService() (*ContentService, *memContent, *memImages) {
	store := newMemContent()
	images := &memImages{}
	return NewContentService(store, memCategories{store}, images), store, images
}
