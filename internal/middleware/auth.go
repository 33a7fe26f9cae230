// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/models"
	"blogcraft/internal/respond"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the authenticated caller.
	IdentityKey contextKey = "identity"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup reloads the user named by a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Guard authenticates bearer tokens and gates protected routes.
type Guard struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewGuard creates a Guard.
func NewGuard(tokens TokenVerifier, users UserLookup) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Identify resolves the caller from the Authorization header. It returns
// nil, nil when no bearer token is present. The admin flag comes from the
// stored user, so a demoted account loses access immediately.
func (g *Guard) Identify(r *http.Request) (*auth.Identity, error) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return nil, nil
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		slog.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
		return nil, apperr.Wrap(apperr.ErrAuthentication, err, "not authorized, token failed")
	}

	user, err := g.users.FindByID(r.Context(), claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authentication("not authorized, user not found")
	}

	return &auth.Identity{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}

// Authenticate rejects requests without a valid bearer token and stores
// the caller's identity in the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Identify(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if id == nil {
			respond.Error(w, r, apperr.Authentication("not authorized, no token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the caller's identity when a valid token is present
// and otherwise lets the request through anonymously.
func (g *Guard) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Identify(r)
		if err == nil && id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromCtx(r.Context())
		if id == nil {
			respond.Error(w, r, apperr.Authentication("not authorized, no token"))
			return
		}
		if !id.IsAdmin {
			respond.Error(w, r, apperr.Forbidden("not authorized as an admin"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromCtx extracts the caller from the request context.
// Returns nil if the request is anonymous.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return id
}
