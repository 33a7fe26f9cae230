// Package router sets up all HTTP routes and middleware chains for the
// blog API. Every route is served at the root and mirrored under /api.
// Reads are public; writes go through the guard and require an admin.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"blogcraft/internal/handlers"
	"blogcraft/internal/middleware"
	"blogcraft/internal/respond"
)

// Handlers bundles the endpoint groups served by the router.
type Handlers struct {
	Auth       *handlers.Auth
	Posts      *handlers.Posts
	Categories *handlers.Categories
	Uploads    *handlers.Uploads
}

// Options tunes the global middleware.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty allows any origin; tokens travel in a header, not a cookie.
	CORSOrigins []string

	// AuthLimiter throttles /auth requests per client IP. Nil disables it.
	AuthLimiter middleware.Limiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(guard *middleware.Guard, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler)

	api := func(r chi.Router) { mount(r, guard, h, opts.AuthLimiter) }
	r.Group(api)
	r.Route("/api", api)

	return r
}

// mount registers the API routes on r.
func mount(r chi.Router, guard *middleware.Guard, h Handlers, limiter middleware.Limiter) {
	r.Route("/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimit(limiter))
		}
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.Posts.List)
		r.With(guard.Optional).Get("/{idOrSlug}", h.Posts.Get)

		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.Posts.Create)
			r.Put("/{id}", h.Posts.Update)
			r.Delete("/{id}", h.Posts.Delete)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Categories.List)

		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.Categories.Create)
			r.Delete("/{id}", h.Categories.Delete)
		})
	})

	r.With(guard.Authenticate, middleware.RequireAdmin).Post("/uploads", h.Uploads.Upload)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
