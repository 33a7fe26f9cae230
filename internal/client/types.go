package client

import "time"

// Post is a post as seen by API consumers. Keys follow the client naming
// in fieldmap.Content, so "image" on the wire is FeaturedImage here.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	CategoryID    *string   `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Status        string    `json:"status"`
	AuthorID      *string   `json:"author_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool {
	return p.Status == "published"
}

// PostInput is the body for creating or updating a post. Empty fields are
// omitted, which on update leaves the stored value unchanged. Slug is only
// honoured on create.
type PostInput struct {
	Title         string `json:"title,omitempty"`
	Content       string `json:"content,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Slug          string `json:"slug,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Category is a post category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryInput is the body for creating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type uploadResponse struct {
	URL string `json:"url"`
}
