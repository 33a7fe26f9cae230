// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"

	"blogcraft/internal/apperr"
	"blogcraft/internal/models"
	"blogcraft/internal/slug"
)

// Field length limits, in runes.
const (
	MaxTitleLength        = 300
	MaxSlugLength         = 300
	MaxContentLength      = 100_000
	MaxExcerptLength      = 1000
	MaxCategoryNameLength = 100
	MaxDescriptionLength  = 1000
)

// invalid converts an ozzo validation result into an application
// validation error. Rule failures produce a message listing every field.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.ErrValidation, err, fieldErrs.Error())
	}
	return apperr.Wrap(apperr.ErrValidation, err, "invalid request")
}

// slugRule checks explicit slugs supplied by callers.
var slugRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" || slug.Valid(s) {
		return nil
	}
	return errors.New("must contain only lowercase letters, digits and hyphens")
})

// statusRule accepts an empty status (meaning "unchanged" or "default")
// and the two known values.
var statusRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" || models.PostStatus(s).Valid() {
		return nil
	}
	return errors.New("must be draft or published")
})

// httpURLRule requires an absolute http(s) URL.
var httpURLRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
})

// categoryIDRule requires a parseable identifier.
var categoryIDRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, ok := models.ParseID(s); !ok {
		return errors.New("must be a valid category id")
	}
	return nil
})
