// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP endpoints of the blog API.
// Handlers decode requests, call into the service layer and render the
// result with the respond package. Business rules live in the services.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"blogcraft/internal/apperr"
	"blogcraft/internal/auth"
	"blogcraft/internal/middleware"
)

// maxBodySize caps JSON request bodies. Post content is limited to 100k
// characters, which fits comfortably.
const maxBodySize = 1 << 20

// decodeJSON reads a JSON object from the request body into v. Syntax
// errors and oversized bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		default:
			return apperr.Validation("invalid request body")
		}
	}
	return nil
}

// caller returns the identity attached by the guard. Routes that call it
// are mounted behind Authenticate, so a missing identity is a wiring bug
// and is answered with 401 rather than a panic.
func caller(r *http.Request) (*auth.Identity, error) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		return nil, apperr.Authentication("not authorized, no token")
	}
	return id, nil
}
