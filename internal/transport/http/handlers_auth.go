package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellspring/internal/admin/gate"
	"wellspring/internal/identity"
	"wellspring/internal/platform/device"
	"wellspring/internal/platform/httputil"
	"wellspring/internal/platform/metrics"
	"wellspring/internal/platform/requestcontext"
	"wellspring/internal/session/service"
	"wellspring/internal/session/token"
	dErrors "wellspring/pkg/domain-errors"
	stringutil "wellspring/pkg/string"
	"wellspring/pkg/validation"
)

// SessionService issues session credentials and resolves user records.
type SessionService interface {
	Issue(ctx context.Context, claims identity.VerifiedClaims, policy token.Policy) (*service.IssueResult, error)
	PasswordLogin(ctx context.Context, email, password string, policy token.Policy) (*service.IssueResult, error)
	User(ctx context.Context, userID uuid.UUID) (*identity.User, error)
}

// AssertionVerifier validates an external identity assertion.
type AssertionVerifier interface {
	Verify(ctx context.Context, rawAssertion string) (identity.VerifiedClaims, error)
}

// AuthHandler is the thin HTTP layer over the auth core. It delegates to the
// verifier and session service; no trust decision is made here.
type AuthHandler struct {
	verifier      AssertionVerifier
	sessions      SessionService
	logger        *slog.Logger
	metrics       *metrics.Metrics
	mobilePolicy  token.Policy
	adminPolicy   token.Policy
	secureCookies bool
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(
	verifier AssertionVerifier,
	sessions SessionService,
	mobilePolicy, adminPolicy token.Policy,
	logger *slog.Logger,
	m *metrics.Metrics,
	secureCookies bool,
) *AuthHandler {
	return &AuthHandler{
		verifier:      verifier,
		sessions:      sessions,
		logger:        logger,
		metrics:       m,
		mobilePolicy:  mobilePolicy,
		adminPolicy:   adminPolicy,
		secureCookies: secureCookies,
	}
}

type googleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required,notblank"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,notblank"`
}

type sessionResponse struct {
	Token string        `json:"token"`
	User  identity.View `json:"user"`
}

// isFormLogin reports whether the request came from the admin login form
// rather than the JSON API.
func isFormLogin(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// decodeLoginRequest accepts both the JSON API shape and the admin login
// form post.
func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if isFormLogin(r) {
		if err := r.ParseForm(); err != nil {
			return req, dErrors.New(dErrors.CodeBadRequest, "invalid form body")
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return req, nil
}

// handleGoogleSignIn exchanges a verified Google ID token for a mobile API
// session credential. The credential is returned in the body; the mobile
// client owns its custody.
func (h *AuthHandler) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req googleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	claims, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		h.metrics.IncrementSignIn("rejected")
		h.logger.WarnContext(r.Context(), "assertion rejected",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.sessions.Issue(r.Context(), claims, h.mobilePolicy)
	if err != nil {
		h.metrics.IncrementSignIn("failed")
		httputil.WriteError(w, err)
		return
	}

	d := device.Describe(r.UserAgent())
	h.metrics.IncrementSignIn("succeeded")
	h.metrics.ObserveSignInDuration(float64(time.Since(start).Milliseconds()))
	h.logger.InfoContext(r.Context(), "signin.succeeded",
		"event", "signin.succeeded",
		"log_type", "audit",
		"user_id", result.User.ID.String(),
		"device", d.Display(),
		"platform", d.Platform,
		"request_id", requestcontext.RequestID(r.Context()),
	)

	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Token: result.Credential,
		User:  result.User.ToView(),
	})
}

// handleLogin authenticates an admin email/password pair and sets the session
// cookie. API callers get the credential back in the body; the browser form is
// sent on to the home page instead.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stringutil.TrimStrings(&req.Email)
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.sessions.PasswordLogin(r.Context(), req.Email, req.Password, h.adminPolicy)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	gate.SetCookie(w, result.Credential, gate.CookieOptions{
		MaxAge: h.adminPolicy.TTL,
		Secure: h.secureCookies,
	})
	if isFormLogin(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Token: result.Credential,
		User:  result.User.ToView(),
	})
}

// handleLogout clears the admin session cookie. The credential itself stays
// valid until expiry.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	gate.ClearCookie(w, gate.CookieOptions{Secure: h.secureCookies})
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleMe returns the user behind the authenticated session. Identity comes
// strictly from the verified claims on the context.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestcontext.Claims(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "malformed session subject"))
		return
	}

	user, err := h.sessions.User(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user.ToView())
}
