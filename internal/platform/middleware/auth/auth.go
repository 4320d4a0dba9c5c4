// Package auth provides session middleware for the API surface. Mobile
// clients present the credential as an Authorization bearer header; the admin
// browser presents the same credential in the session cookie, so both are
// accepted here.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"wellspring/internal/admin/gate"
	"wellspring/internal/platform/requestcontext"
	"wellspring/internal/session/token"
)

// SessionAuthenticator verifies a session credential and yields its claims.
type SessionAuthenticator interface {
	Authenticate(tokenString string) (*token.SessionClaims, error)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// extractCredential pulls the session credential from the Authorization
// bearer header, falling back to the session cookie.
func extractCredential(r *http.Request) (string, bool) {
	if credential, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return credential, true
	}
	if c, err := r.Cookie(gate.CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// RequireSession returns middleware that validates the session credential
// (bearer header or session cookie) and populates the context with verified
// session claims.
func RequireSession(authenticator SessionAuthenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			credential, ok := extractCredential(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing session credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing session credential")
				return
			}

			claims, err := authenticator.Authenticate(credential)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid session credential",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithSessionClaims(ctx, requestcontext.SessionClaims{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
