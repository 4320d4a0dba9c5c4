package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wellspring/internal/admin/gate"
	"wellspring/internal/identity"
	"wellspring/internal/platform/health"
	"wellspring/internal/session/service"
	"wellspring/internal/session/token"
	"wellspring/internal/transport/http/mocks"
	dErrors "wellspring/pkg/domain-errors"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/mocks.go -package=mocks SessionService,AssertionVerifier

const testSigningKey = "handler-test-signing-key"

type AuthHandlerSuite struct {
	suite.Suite
	ctx          context.Context
	tokens       *token.Service
	mobilePolicy token.Policy
	adminPolicy  token.Policy
}

func (s *AuthHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
	tokens, err := token.NewService(testSigningKey, "wellspring")
	require.NoError(s.T(), err)
	s.tokens = tokens
	s.mobilePolicy = token.PolicyMobileAPI(30 * 24 * time.Hour)
	s.adminPolicy = token.PolicyAdminWeb(24 * time.Hour)
}

func (s *AuthHandlerSuite) newRouter(t *testing.T) (*mocks.MockAssertionVerifier, *mocks.MockSessionService, http.Handler) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAssertionVerifier(ctrl)
	sessions := mocks.NewMockSessionService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewAuthHandler(verifier, sessions, s.mobilePolicy, s.adminPolicy, logger, nil, false)
	adminGate := gate.New(s.tokens, gate.WithLogger(logger))
	router := NewRouter(handler, s.tokens, adminGate, health.New("test"), logger)
	return verifier, sessions, router
}

func (s *AuthHandlerSuite) testUser() *identity.User {
	now := time.Now().UTC()
	return &identity.User{
		ID:         uuid.New(),
		Name:       "Dana Whitfield",
		Email:      "dana@example.com",
		Role:       identity.RoleUser,
		GoogleID:   "google-subject-1",
		AuthMethod: identity.AuthMethodGoogle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *AuthHandlerSuite) doJSON(router http.Handler, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *AuthHandlerSuite) TestHandler_GoogleSignIn() {
	s.T().Run("valid assertion returns credential and user", func(t *testing.T) {
		verifier, sessions, router := s.newRouter(t)
		user := s.testUser()
		claims := identity.VerifiedClaims{Subject: user.GoogleID, Email: user.Email, Name: user.Name}
		verifier.EXPECT().Verify(gomock.Any(), "good-assertion").Return(claims, nil)
		sessions.EXPECT().Issue(gomock.Any(), claims, s.mobilePolicy).
			Return(&service.IssueResult{Credential: "issued-credential", User: user}, nil)

		rec := s.doJSON(router, http.MethodPost, "/auth/google-signin", `{"idToken":"good-assertion"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[map[string]json.RawMessage](t, rec)
		var credential string
		require.NoError(t, json.Unmarshal(got["token"], &credential))
		assert.Equal(t, "issued-credential", credential)
		var view identity.View
		require.NoError(t, json.Unmarshal(got["user"], &view))
		assert.Equal(t, user.Email, view.Email)
	})

	s.T().Run("rejected assertion maps to generic 401", func(t *testing.T) {
		verifier, sessions, router := s.newRouter(t)
		verifier.EXPECT().Verify(gomock.Any(), "expired-assertion").
			Return(identity.VerifiedClaims{}, dErrors.New(dErrors.CodeExpiredAssertion, "assertion expired"))
		sessions.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rec := s.doJSON(router, http.MethodPost, "/auth/google-signin", `{"idToken":"expired-assertion"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, string(dErrors.CodeUnauthorized), body["error"])
		assert.Empty(t, body["error_description"])
	})

	s.T().Run("missing idToken returns 400 without touching the verifier", func(t *testing.T) {
		verifier, _, router := s.newRouter(t)
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

		rec := s.doJSON(router, http.MethodPost, "/auth/google-signin", `{}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	s.T().Run("malformed body returns 400", func(t *testing.T) {
		verifier, _, router := s.newRouter(t)
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

		rec := s.doJSON(router, http.MethodPost, "/auth/google-signin", `{bad-json`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	s.T().Run("issuance failure surfaces as 500", func(t *testing.T) {
		verifier, sessions, router := s.newRouter(t)
		claims := identity.VerifiedClaims{Subject: "sub", Email: "dana@example.com"}
		verifier.EXPECT().Verify(gomock.Any(), "good-assertion").Return(claims, nil)
		sessions.EXPECT().Issue(gomock.Any(), claims, s.mobilePolicy).
			Return(nil, dErrors.New(dErrors.CodeInternal, "store unavailable"))

		rec := s.doJSON(router, http.MethodPost, "/auth/google-signin", `{"idToken":"good-assertion"}`, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestHandler_Login() {
	s.T().Run("valid admin credentials set the session cookie", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		admin := s.testUser()
		admin.Role = identity.RoleAdmin
		sessions.EXPECT().PasswordLogin(gomock.Any(), "admin@example.com", "s3cret", s.adminPolicy).
			Return(&service.IssueResult{Credential: "admin-credential", User: admin}, nil)

		rec := s.doJSON(router, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"s3cret"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, gate.CookieName, cookies[0].Name)
		assert.Equal(t, "admin-credential", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	})

	s.T().Run("rejected credentials return generic 401 and no cookie", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		sessions.EXPECT().PasswordLogin(gomock.Any(), "admin@example.com", "wrong", s.adminPolicy).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "authentication failed"))

		rec := s.doJSON(router, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"wrong"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	s.T().Run("missing fields return 400", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		sessions.EXPECT().PasswordLogin(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rec := s.doJSON(router, http.MethodPost, "/auth/login", `{"email":"admin@example.com"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestHandler_Logout() {
	s.T().Run("clears the session cookie", func(t *testing.T) {
		_, _, router := s.newRouter(t)

		rec := s.doJSON(router, http.MethodPost, "/auth/logout", `{}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, gate.CookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})
}

func (s *AuthHandlerSuite) TestHandler_Me() {
	s.T().Run("returns the session user", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		user := s.testUser()
		credential, _, err := s.tokens.Issue(user, s.mobilePolicy)
		require.NoError(t, err)
		sessions.EXPECT().User(gomock.Any(), user.ID).Return(user, nil)

		rec := s.doJSON(router, http.MethodGet, "/auth/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+credential)
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[identity.View](t, rec)
		assert.Equal(t, user.ID.String(), view.ID)
		assert.Equal(t, user.Email, view.Email)
	})

	s.T().Run("session cookie serves as credential", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		user := s.testUser()
		credential, _, err := s.tokens.Issue(user, s.adminPolicy)
		require.NoError(t, err)
		sessions.EXPECT().User(gomock.Any(), user.ID).Return(user, nil)

		rec := s.doJSON(router, http.MethodGet, "/auth/me", "", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: gate.CookieName, Value: credential})
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[identity.View](t, rec)
		assert.Equal(t, user.ID.String(), view.ID)
	})

	s.T().Run("missing credential returns 401", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		sessions.EXPECT().User(gomock.Any(), gomock.Any()).Times(0)

		rec := s.doJSON(router, http.MethodGet, "/auth/me", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	s.T().Run("tampered credential returns 401", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		sessions.EXPECT().User(gomock.Any(), gomock.Any()).Times(0)
		user := s.testUser()
		credential, _, err := s.tokens.Issue(user, s.mobilePolicy)
		require.NoError(t, err)
		tampered := credential[:len(credential)-2] + "xx"

		rec := s.doJSON(router, http.MethodGet, "/auth/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+tampered)
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	s.T().Run("user lookup failure surfaces", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		user := s.testUser()
		credential, _, err := s.tokens.Issue(user, s.mobilePolicy)
		require.NoError(t, err)
		sessions.EXPECT().User(gomock.Any(), user.ID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))

		rec := s.doJSON(router, http.MethodGet, "/auth/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+credential)
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestRouter_Health() {
	_, _, router := s.newRouter(s.T())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}
