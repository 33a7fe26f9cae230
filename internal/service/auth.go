// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/models"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the email format and password length.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required,
			validation.Length(auth.MinPasswordLength, auth.MaxPasswordLength)),
	)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate only checks presence; a malformed email simply fails to log in.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// AuthPolicy controls who may register and who becomes admin. The first
// account is always admin.
type AuthPolicy struct {
	// RegistrationOpen allows accounts beyond the first to be created.
	RegistrationOpen bool
	// AdminEmails lists addresses that are granted admin on registration.
	AdminEmails []string
}

func (p AuthPolicy) isAdminEmail(email string) bool {
	for _, e := range p.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// AuthService registers and authenticates users.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	policy AuthPolicy
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, tokens TokenIssuer, policy AuthPolicy) *AuthService {
	return &AuthService{users: users, tokens: tokens, policy: policy}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("user already exists")
	}

	listed := s.policy.isAdminEmail(req.Email)
	closed := !s.policy.RegistrationOpen && !listed
	// Early exit before hashing; Create repeats the check under its lock.
	if closed {
		count, err := s.users.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Validation("registration is closed")
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req.Email, hash, listed, closed)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "admin", user.IsAdmin)
	return s.issue(user)
}

// Login verifies credentials and returns a fresh token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		auth.BurnPasswordCheck(req.Password)
		slog.Debug("login failed", "reason", "unknown email")
		return nil, apperr.Authentication("invalid credentials")
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("login failed", "reason", "wrong password", "user_id", user.ID)
		return nil, apperr.Authentication("invalid credentials")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}
