package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcraft/internal/session"
)

const wirePost = `{
	"id": "0b9d2f7e-5c1a-4f7e-9b43-7f0e3c1d2a11",
	"title": "Hello World",
	"slug": "hello-world",
	"content": "<p>Hi</p>",
	"excerpt": "Hi",
	"image": "https://cdn.example.com/images/a.png",
	"category": "6f1c7c52-3d0f-4a8e-9a0b-1c2d3e4f5a6b",
	"categoryName": "Go",
	"status": "published",
	"author": "1d2c3b4a-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
	"createdAt": "2026-03-09T12:00:00Z",
	"updatedAt": "2026-03-09T12:30:00Z"
}`

// recorded captures the last request seen by the test server.
type recorded struct {
	method string
	path   string
	query  string
	auth   string
	ctype  string
	body   []byte
}

func newTestServer(t *testing.T, status int, body string, rec *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.query = r.URL.RawQuery
			rec.auth = r.Header.Get("Authorization")
			rec.ctype = r.Header.Get("Content-Type")
			rec.body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loggedIn(t *testing.T, srv *httptest.Server) (*Client, *session.MemoryCache) {
	t.Helper()
	cache := session.NewMemoryCache()
	require.NoError(t, cache.Save(context.Background(), &session.Session{Token: "tok-123", Email: "admin@example.com", IsAdmin: true}))
	c, err := New(context.Background(), srv.URL, cache)
	require.NoError(t, err)
	return c, cache
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://example.com", "http://"} {
		_, err := New(context.Background(), raw, nil)
		assert.Error(t, err, raw)
	}
}

func TestNew_RestoresSession(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "[]", nil)
	c, _ := loggedIn(t, srv)

	sess := c.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "tok-123", sess.Token)
	assert.True(t, sess.IsAdmin)
}

func TestLogin(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK, `{"token":"new-token","email":"admin@example.com","isAdmin":true}`, rec)
	cache := session.NewMemoryCache()
	c, err := New(context.Background(), srv.URL+"/", cache)
	require.NoError(t, err)
	assert.Nil(t, c.Session())

	sess, err := c.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "new-token", sess.Token)
	assert.True(t, sess.IsAdmin)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/auth/login", rec.path)
	assert.Empty(t, rec.auth)
	assert.JSONEq(t, `{"email":"admin@example.com","password":"secret123"}`, string(rec.body))

	cached, err := cache.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "new-token", cached.Token)
}

func TestRegister(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusCreated, `{"token":"t","email":"new@example.com","isAdmin":false}`, rec)
	c, err := New(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	sess, err := c.Register(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "/auth/register", rec.path)
	assert.False(t, sess.IsAdmin)
}

func TestListPosts_DecodesThroughFieldMap(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK, "["+wirePost+"]", rec)
	c, _ := loggedIn(t, srv)

	posts, err := c.ListPosts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "hello-world", p.Slug)
	require.NotNil(t, p.FeaturedImage)
	assert.Equal(t, "https://cdn.example.com/images/a.png", *p.FeaturedImage)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "6f1c7c52-3d0f-4a8e-9a0b-1c2d3e4f5a6b", *p.CategoryID)
	assert.Equal(t, "Go", p.CategoryName)
	require.NotNil(t, p.AuthorID)
	assert.Equal(t, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC), p.CreatedAt.UTC())
	assert.True(t, p.Published())

	assert.Equal(t, "/posts", rec.path)
	assert.Equal(t, "all=true", rec.query)
	assert.Equal(t, "Bearer tok-123", rec.auth)
}

func TestListPosts_Empty(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "[]", nil)
	c, err := New(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	posts, err := c.ListPosts(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPost(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK, wirePost, rec)
	c, err := New(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	p, err := c.GetPost(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", p.Title)
	assert.Equal(t, "/posts/hello-world", rec.path)
	assert.Empty(t, rec.auth, "anonymous client sends no token")
}

func TestCreatePost_EncodesWireKeys(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusCreated, wirePost, rec)
	c, _ := loggedIn(t, srv)

	_, err := c.CreatePost(context.Background(), PostInput{
		Title:         "Hello World",
		Content:       "<p>Hi</p>",
		FeaturedImage: "https://cdn.example.com/images/a.png",
		CategoryID:    "6f1c7c52-3d0f-4a8e-9a0b-1c2d3e4f5a6b",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", rec.ctype)
	assert.JSONEq(t, `{
		"title": "Hello World",
		"content": "<p>Hi</p>",
		"image": "https://cdn.example.com/images/a.png",
		"category": "6f1c7c52-3d0f-4a8e-9a0b-1c2d3e4f5a6b"
	}`, string(rec.body))
}

func TestUpdatePost_DropsSlug(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK, wirePost, rec)
	c, _ := loggedIn(t, srv)

	_, err := c.UpdatePost(context.Background(), "0b9d2f7e-5c1a-4f7e-9b43-7f0e3c1d2a11", PostInput{Status: "published", Slug: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/posts/0b9d2f7e-5c1a-4f7e-9b43-7f0e3c1d2a11", rec.path)
	assert.JSONEq(t, `{"status":"published"}`, string(rec.body))
}

func TestDeletePost(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK, `{"message":"Post removed"}`, rec)
	c, _ := loggedIn(t, srv)

	require.NoError(t, c.DeletePost(context.Background(), "abc"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Empty(t, rec.body)
}

func TestCategories(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusOK,
		`[{"id":"c1","name":"Go","slug":"go","description":"","createdAt":"2026-03-09T12:00:00Z","updatedAt":"2026-03-09T12:00:00Z"}]`, rec)
	c, _ := loggedIn(t, srv)

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Go", cats[0].Name)
	assert.False(t, cats[0].CreatedAt.IsZero())
	assert.Equal(t, "/categories", rec.path)
}

func TestCreateCategory(t *testing.T) {
	rec := &recorded{}
	srv := newTestServer(t, http.StatusCreated,
		`{"id":"c1","name":"Go","slug":"go","description":"Gophers","createdAt":"2026-03-09T12:00:00Z","updatedAt":"2026-03-09T12:00:00Z"}`, rec)
	c, _ := loggedIn(t, srv)

	cat, err := c.CreateCategory(context.Background(), CategoryInput{Name: "Go", Description: "Gophers"})
	require.NoError(t, err)
	assert.Equal(t, "go", cat.Slug)
	assert.JSONEq(t, `{"name":"Go","description":"Gophers"}`, string(rec.body))
}

func TestAPIError(t *testing.T) {
	srv := newTestServer(t, http.StatusConflict, `{"message":"a post with this slug already exists"}`, nil)
	c, _ := loggedIn(t, srv)

	_, err := c.CreatePost(context.Background(), PostInput{Title: "x", Content: "y"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "a post with this slug already exists", apiErr.Message)
	assert.NotNil(t, c.Session(), "non-401 errors keep the session")
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"message":"not authorized, token failed"}`, nil)
	c, cache := loggedIn(t, srv)

	_, err := c.ListPosts(context.Background(), true)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Nil(t, c.Session())
	cached, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "[]", nil)
	c, cache := loggedIn(t, srv)

	require.NoError(t, c.Logout(context.Background()))
	assert.Nil(t, c.Session())
	cached, _ := cache.Load(context.Background())
	assert.Nil(t, cached)
}

func TestUploadImage(t *testing.T) {
	var (
		gotName string
		gotData []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotData, _ = io.ReadAll(file)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/images/x.png"})
	}))
	t.Cleanup(srv.Close)
	c, _ := loggedIn(t, srv)

	u, err := c.UploadImage(context.Background(), "cover.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/x.png", u)
	assert.Equal(t, "cover.png", gotName)
	assert.Equal(t, "PNGDATA", string(gotData))
}
