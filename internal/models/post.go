// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// UncategorizedName is reported for posts without a category or whose
// category has been deleted.
const UncategorizedName = "uncategorized"

// Valid reports whether s is one of the two known statuses.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Visibility selects which posts a listing returns.
type Visibility int

const (
	// VisibilityPublic lists published posts only.
	VisibilityPublic Visibility = iota
	// VisibilityAll lists posts of every status. Callers must restrict it
	// to admins.
	VisibilityAll
)

// Post is a blog article. CategoryID is a weak reference: the category may
// have been deleted, in which case CategoryName is UncategorizedName.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Excerpt      *string    `json:"excerpt"`
	Image        *string    `json:"image"`
	CategoryID   *uuid.UUID `json:"category"`
	CategoryName string     `json:"categoryName"`
	Status       PostStatus `json:"status"`
	AuthorID     *uuid.UUID `json:"author"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the post is visible to public listings.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// ResolveCategoryName sets CategoryName from the joined category name,
// falling back to UncategorizedName for missing or dangling references.
func (p *Post) ResolveCategoryName(joined *string) {
	if p.CategoryID == nil || joined == nil || *joined == "" {
		p.CategoryName = UncategorizedName
		return
	}
	p.CategoryName = *joined
}

// idPattern matches the canonical textual form of a UUID.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ParseID returns the identifier encoded in s when s has the canonical
// identifier format. Anything else (slugs included) reports false.
func ParseID(s string) (uuid.UUID, bool) {
	if !idPattern.MatchString(s) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
