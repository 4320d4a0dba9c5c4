package httptransport

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wellspring/internal/admin/gate"
	"wellspring/internal/identity"
	"wellspring/internal/session/service"
)

func (s *AuthHandlerSuite) TestAdminPages() {
	s.T().Run("login page is reachable without a session", func(t *testing.T) {
		_, _, router := s.newRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/auth/login")
	})

	s.T().Run("home redirects to login without a session", func(t *testing.T) {
		_, _, router := s.newRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	s.T().Run("home shows the acting user with a valid cookie", func(t *testing.T) {
		_, _, router := s.newRouter(t)
		admin := s.testUser()
		admin.Role = identity.RoleAdmin
		credential, _, err := s.tokens.Issue(admin, s.adminPolicy)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: gate.CookieName, Value: credential})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), admin.Email)
	})

	s.T().Run("authenticated user is bounced off the login page", func(t *testing.T) {
		_, _, router := s.newRouter(t)
		admin := s.testUser()
		admin.Role = identity.RoleAdmin
		credential, _, err := s.tokens.Issue(admin, s.adminPolicy)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: gate.CookieName, Value: credential})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	s.T().Run("login form post sets the cookie and redirects home", func(t *testing.T) {
		_, sessions, router := s.newRouter(t)
		admin := s.testUser()
		admin.Role = identity.RoleAdmin
		sessions.EXPECT().PasswordLogin(gomock.Any(), "admin@example.com", "s3cret", s.adminPolicy).
			Return(&service.IssueResult{Credential: "admin-credential", User: admin}, nil)

		form := url.Values{"email": {"admin@example.com"}, "password": {"s3cret"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "admin-credential", cookies[0].Value)
		assert.Empty(t, rec.Body.String(), "credential must not leak into the redirect body")
	})
}
