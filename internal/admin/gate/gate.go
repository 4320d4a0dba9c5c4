// Package gate implements the request-gating middleware for the admin
// surface. Every inbound request is classified, the session cookie is
// authenticated, and exactly one terminal outcome is applied before any
// protected logic runs.
package gate

import (
	"log/slog"
	"net/http"
	"strings"

	"wellspring/internal/platform/metrics"
	"wellspring/internal/platform/requestcontext"
	"wellspring/internal/session/token"
)

// RouteClass is the classification of a requested path.
type RouteClass int

const (
	// RoutePublic covers the authentication endpoints themselves; they must
	// never be blocked by a missing or expired credential.
	RoutePublic RouteClass = iota
	// RouteAuthOnly is the login page, reachable exactly when the caller is
	// NOT already authenticated.
	RouteAuthOnly
	// RouteProtected is everything else.
	RouteProtected
)

// Outcome is the terminal decision for a request.
type Outcome string

const (
	Pass                  Outcome = "pass"
	RedirectLogin         Outcome = "redirect_login"
	RedirectHome          Outcome = "redirect_home"
	ClearAndRedirectLogin Outcome = "clear_and_redirect_login"
)

// Authenticator verifies a session credential and yields its claims.
type Authenticator interface {
	Authenticate(tokenString string) (*token.SessionClaims, error)
}

// Gate decides, per request, whether to pass, redirect to login, or redirect
// home. It holds no mutable per-request state: each decision is a pure
// function of the request's cookie plus read-only configuration.
type Gate struct {
	auth      Authenticator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	loginPath string
	homePath  string
	secure    bool
}

// Option configures optional Gate behavior.
type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// WithSecureCookies marks cleared cookies Secure (set behind TLS).
func WithSecureCookies(secure bool) Option {
	return func(g *Gate) { g.secure = secure }
}

// New constructs the admin request gate.
func New(auth Authenticator, opts ...Option) *Gate {
	g := &Gate{
		auth:      auth,
		loginPath: "/login",
		homePath:  "/",
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Classify assigns the requested path exactly one route class.
func (g *Gate) Classify(path string) RouteClass {
	switch {
	case strings.HasPrefix(path, "/auth/"):
		return RoutePublic
	case path == g.loginPath:
		return RouteAuthOnly
	default:
		return RouteProtected
	}
}

// Decide resolves the terminal outcome for a path and an optional cookie
// value. Classification happens before validation so public endpoints are
// never blocked by a dead credential. On Pass with a valid credential, the
// claims are returned for the caller to propagate downstream.
func (g *Gate) Decide(path, cookieValue string, cookiePresent bool) (Outcome, *token.SessionClaims) {
	if g.Classify(path) == RoutePublic {
		return Pass, nil
	}

	var claims *token.SessionClaims
	if cookiePresent {
		var err error
		claims, err = g.auth.Authenticate(cookieValue)
		if err != nil {
			claims = nil
			if g.Classify(path) == RouteAuthOnly {
				return Pass, nil
			}
			// A credential was presented but is dead: clear it so the client
			// stops sending it.
			return ClearAndRedirectLogin, nil
		}
	}

	switch g.Classify(path) {
	case RouteAuthOnly:
		if claims != nil {
			return RedirectHome, nil
		}
		return Pass, nil
	default:
		if claims != nil {
			return Pass, claims
		}
		return RedirectLogin, nil
	}
}

// Middleware applies the gate decision to each inbound request.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cookieValue string
		cookiePresent := false
		if c, err := r.Cookie(CookieName); err == nil {
			cookieValue = c.Value
			cookiePresent = true
		}

		outcome, claims := g.Decide(r.URL.Path, cookieValue, cookiePresent)
		g.metrics.IncrementGateDecision(string(outcome))

		switch outcome {
		case Pass:
			ctx := r.Context()
			if claims != nil {
				ctx = requestcontext.WithSessionClaims(ctx, requestcontext.SessionClaims{
					UserID: claims.UserID,
					Email:  claims.Email,
					Role:   claims.Role,
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		case RedirectHome:
			http.Redirect(w, r, g.homePath, http.StatusFound)
		case ClearAndRedirectLogin:
			g.logger.WarnContext(r.Context(), "clearing dead session cookie",
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(r.Context()),
			)
			ClearCookie(w, CookieOptions{Secure: g.secure})
			http.Redirect(w, r, g.loginPath, http.StatusFound)
		default:
			http.Redirect(w, r, g.loginPath, http.StatusFound)
		}
	})
}
