package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/mock/gomock"

	"wellspring/internal/identity"
	"wellspring/internal/sentinel"
	dErrors "wellspring/pkg/domain-errors"
)

func (s *ServiceSuite) hashedAdmin(email, password string) *identity.User {
	hash, err := HashPassword(password)
	s.Require().NoError(err)
	admin := s.newStoredUser(email)
	admin.Role = identity.RoleAdmin
	admin.AuthMethod = identity.AuthMethodPassword
	admin.PasswordHash = hash
	return admin
}

func (s *ServiceSuite) TestPasswordLoginSucceedsForAdmin() {
	admin := s.hashedAdmin("ops@example.com", "correct horse")
	expiresAt := time.Now().Add(24 * time.Hour)

	s.mockUsers.EXPECT().
		FindByEmail(gomock.Any(), "ops@example.com").
		Return(admin, nil)
	s.mockTokens.EXPECT().
		Issue(admin, s.adminPolicy()).
		Return("admin-credential", expiresAt, nil)

	result, err := s.service.PasswordLogin(context.Background(), "Ops@Example.com", "correct horse", s.adminPolicy())
	s.Require().NoError(err)
	s.Equal("admin-credential", result.Credential)
	s.Equal(expiresAt, result.ExpiresAt)
}

func (s *ServiceSuite) TestPasswordLoginRejectsWrongPassword() {
	admin := s.hashedAdmin("ops@example.com", "correct horse")

	s.mockUsers.EXPECT().
		FindByEmail(gomock.Any(), "ops@example.com").
		Return(admin, nil)

	_, err := s.service.PasswordLogin(context.Background(), "ops@example.com", "wrong horse", s.adminPolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestPasswordLoginRejectsUnknownEmail() {
	s.mockUsers.EXPECT().
		FindByEmail(gomock.Any(), "nobody@example.com").
		Return(nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound))

	_, err := s.service.PasswordLogin(context.Background(), "nobody@example.com", "whatever", s.adminPolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestPasswordLoginRejectsNonAdmin() {
	member := s.hashedAdmin("member@example.com", "correct horse")
	member.Role = identity.RoleUser

	s.mockUsers.EXPECT().
		FindByEmail(gomock.Any(), "member@example.com").
		Return(member, nil)

	// The rejection is indistinguishable from a bad password.
	_, err := s.service.PasswordLogin(context.Background(), "member@example.com", "correct horse", s.adminPolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("authentication failed", err.Error())
}

func (s *ServiceSuite) TestPasswordLoginRejectsFederatedOnlyUser() {
	federated := s.newStoredUser("google-only@example.com")
	federated.Role = identity.RoleAdmin

	s.mockUsers.EXPECT().
		FindByEmail(gomock.Any(), "google-only@example.com").
		Return(federated, nil)

	_, err := s.service.PasswordLogin(context.Background(), "google-only@example.com", "anything", s.adminPolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
