package handlers

import (
	"context"
	"net/http"

	"blogcraft/internal/respond"
	"blogcraft/internal/service"
)

// Authenticator registers accounts and exchanges credentials for tokens.
type Authenticator interface {
	Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
}

// Auth groups the credential endpoints.
type Auth struct {
	svc Authenticator
}

// NewAuth creates a new Auth handler group.
func NewAuth(svc Authenticator) *Auth {
	return &Auth{svc: svc}
}

// Register handles POST /auth/register.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := a.svc.Register(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, res)
}

// Login handles POST /auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := a.svc.Login(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
