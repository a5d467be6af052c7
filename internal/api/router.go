package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes bundles the handlers served over HTTP.
type Routes struct {
	// MCP serves the streamable HTTP transport at Endpoint.
	MCP      http.Handler
	Endpoint string
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with health checks and the MCP and event
// endpoints mounted. authEnabled controls whether Bearer token auth is
// enforced on everything except the health checks.
func NewRouter(routes Routes, authEnabled bool, token string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		if routes.MCP != nil {
			r.Handle(routes.Endpoint, routes.MCP)
		}
		if routes.Events != nil {
			r.Get("/events", routes.Events.ServeHTTP)
		}
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusBody("ok"))
}
