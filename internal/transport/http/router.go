package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellspring/internal/admin/gate"
	"wellspring/internal/platform/health"
	"wellspring/internal/platform/middleware"
	"wellspring/internal/platform/middleware/auth"
)

// NewRouter wires all public endpoints with middleware.
func NewRouter(
	h *AuthHandler,
	authenticator auth.SessionAuthenticator,
	adminGate *gate.Gate,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	// Public auth endpoints. Credentials come in, session credentials go out.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/auth/google-signin", h.handleGoogleSignIn)
	})
	// Login also accepts the admin form post, so no content-type gate here.
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)

	// Session-scoped endpoints.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(authenticator, logger))
		r.Get("/auth/me", h.handleMe)
	})

	// Admin pages run through the request gate, not the bearer middleware.
	if adminGate != nil {
		NewAdminPages().Register(r, adminGate)
	}

	if healthHandler != nil {
		healthHandler.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
