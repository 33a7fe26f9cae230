// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application error taxonomy shared by the
// services, the access guard and the HTTP layer. Every error carries a
// kind (one of the sentinel values below) and a message that is safe to
// show to API clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("not authorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Error is a classified application error.
type Error struct {
	Kind    error
	Message string
	Err     error // optional underlying cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or missing input.
func Validation(format string, args ...any) *Error { return newf(ErrValidation, format, args...) }

// Authentication reports missing, invalid or expired credentials.
func Authentication(format string, args ...any) *Error {
	return newf(ErrAuthentication, format, args...)
}

// Forbidden reports an authenticated caller lacking the admin flag.
func Forbidden(format string, args ...any) *Error { return newf(ErrForbidden, format, args...) }

// NotFound reports a missing post, category or user.
func NotFound(format string, args ...any) *Error { return newf(ErrNotFound, format, args...) }

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) *Error { return newf(ErrConflict, format, args...) }

// Wrap classifies err under kind with a public message.
func Wrap(kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsUniqueViolation reports whether err comes from a PostgreSQL unique
// constraint. The constraint name is returned for message selection.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	if _, ok := IsUniqueViolation(err); ok {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text to put in a response body. Unclassified
// errors are reduced to a generic message so driver details do not leak.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if _, ok := IsUniqueViolation(err); ok {
		return "resource already exists"
	}
	return "internal server error"
}
