// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a typed Go client for the blog REST API. Posts and
// categories are translated through fieldmap.Content so callers work with
// client-side key names. The bearer token is kept in a session.Cache: it
// is loaded on start, saved after login or registration and cleared on
// logout or whenever the API answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"blogcraft/internal/fieldmap"
	"blogcraft/internal/session"
)

// DefaultTimeout bounds every API call unless WithHTTPClient overrides it.
const DefaultTimeout = 30 * time.Second

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to one API base URL.
type Client struct {
	base   string
	http   *http.Client
	fields *fieldmap.Map
	cache  session.Cache

	mu   sync.RWMutex
	sess *session.Session
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for baseURL and restores any cached session. A nil
// cache keeps the session in memory only.
func New(ctx context.Context, baseURL string, cache session.Cache, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	if cache == nil {
		cache = session.NewMemoryCache()
	}

	c := &Client{
		base:   u.String(),
		http:   &http.Client{Timeout: DefaultTimeout},
		fields: fieldmap.Content,
		cache:  cache,
	}
	for _, opt := range opts {
		opt(c)
	}

	sess, err := cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	c.sess = sess
	return c, nil
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return nil
	}
	cp := *c.sess
	return &cp
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.Token
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login exchanges credentials for a token and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*session.Session, error) {
	var res authResponse
	if err := c.doJSON(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}

	sess := &session.Session{Token: res.Token, Email: res.Email, IsAdmin: res.IsAdmin, SavedAt: time.Now().UTC()}
	if err := c.cache.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()

	cp := *sess
	return &cp, nil
}

// Logout forgets the session. Tokens are stateless, so the server is not
// contacted.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.sess = nil
	c.mu.Unlock()
	if err := c.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ListPosts returns published posts, or every post when all is set (admin
// only).
func (c *Client) ListPosts(ctx context.Context, all bool) ([]Post, error) {
	path := "/posts"
	if all {
		path += "?all=true"
	}
	var posts []Post
	if err := c.doRecords(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a post by identifier or slug.
func (c *Client) GetPost(ctx context.Context, idOrSlug string) (*Post, error) {
	var p Post
	if err := c.doRecord(ctx, http.MethodGet, "/posts/"+url.PathEscape(idOrSlug), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	var p Post
	if err := c.doRecord(ctx, http.MethodPost, "/posts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost applies the non-empty fields of in to post id.
func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (*Post, error) {
	in.Slug = ""
	var p Post
	if err := c.doRecord(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, &messageResponse{})
}

// ListCategories returns every category sorted by name.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.doRecords(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var cat Category
	if err := c.doRecord(ctx, http.MethodPost, "/categories", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes category id. Posts referencing it are kept.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, &messageResponse{})
}

// UploadImage uploads an image and returns its public URL, suitable for
// PostInput.FeaturedImage.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("upload read: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload form: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/uploads", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	var res uploadResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("upload unmarshal: %w", err)
	}
	return res.URL, nil
}

// doJSON sends in as a plain JSON body and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	respBody, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// doRecord sends in renamed to wire keys and decodes a single record
// response through the field map.
func (c *Client) doRecord(ctx context.Context, method, path string, in, out any) error {
	respBody, err := c.sendRecord(ctx, method, path, in)
	if err != nil {
		return err
	}
	return c.fields.DecodeClient(respBody, out)
}

// doRecords decodes a JSON array response through the field map.
func (c *Client) doRecords(ctx context.Context, method, path string, in any, out any) error {
	respBody, err := c.sendRecord(ctx, method, path, in)
	if err != nil {
		return err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	records := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var rec map[string]any
		if err := json.Unmarshal(r, &rec); err != nil {
			return fmt.Errorf("unmarshal record: %w", err)
		}
		renamed, err := c.fields.ToClient(rec)
		if err != nil {
			return err
		}
		records = append(records, renamed)
	}

	renamed, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := json.Unmarshal(renamed, out); err != nil {
		return fmt.Errorf("unmarshal records: %w", err)
	}
	return nil
}

func (c *Client) sendRecord(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		payload, err := c.fields.EncodeWire(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, body, "application/json")
}

// do performs the HTTP call, attaching the bearer token when logged in.
// Non-2xx responses become *Error; a 401 also clears the session.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(respBody, &msg) == nil {
			apiErr.Message = msg.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.Logout(ctx); err != nil {
				return nil, fmt.Errorf("%w (and %v)", apiErr, err)
			}
		}
		return nil, apiErr
	}
	return respBody, nil
}
