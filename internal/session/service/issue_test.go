package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/mock/gomock"

	"wellspring/internal/identity"
	"wellspring/internal/sentinel"
	dErrors "wellspring/pkg/domain-errors"
)

func (s *ServiceSuite) TestIssueCreatesUserOnFirstSignIn() {
	claims := s.newVerifiedClaims()
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, candidate *identity.User) (*identity.User, bool, error) {
			s.Equal(identity.RoleUser, candidate.Role)
			s.Equal(identity.AuthMethodGoogle, candidate.AuthMethod)
			s.Equal(claims.Subject, candidate.GoogleID)
			return candidate, true, nil
		})
	s.mockTokens.EXPECT().
		Issue(gomock.Any(), s.mobilePolicy()).
		Return("signed-credential", expiresAt, nil)

	result, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
	s.Equal("signed-credential", result.Credential)
	s.Equal(expiresAt, result.ExpiresAt)
	s.Equal(claims.Email, result.User.Email)
}

func (s *ServiceSuite) TestIssueLinksSubjectToExistingUnlinkedRecord() {
	claims := s.newVerifiedClaims()
	existing := s.newStoredUser(claims.Email)
	existing.GoogleID = ""

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		Return(existing, false, nil)
	s.mockUsers.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *identity.User) error {
			s.Equal(claims.Subject, u.GoogleID)
			return nil
		})
	s.mockTokens.EXPECT().
		Issue(existing, s.mobilePolicy()).
		Return("signed-credential", time.Now().Add(time.Hour), nil)

	_, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestIssueKeepsExistingSubjectLink() {
	claims := s.newVerifiedClaims()
	existing := s.newStoredUser(claims.Email)
	existing.GoogleID = "a-different-subject"

	// First write wins: no Update call, the conflict is logged and issuance proceeds.
	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		Return(existing, false, nil)
	s.mockTokens.EXPECT().
		Issue(existing, s.mobilePolicy()).
		Return("signed-credential", time.Now().Add(time.Hour), nil)

	result, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
	s.Equal("a-different-subject", result.User.GoogleID)
}

func (s *ServiceSuite) TestIssueSameEmailYieldsSameRecord() {
	claims := s.newVerifiedClaims()
	existing := s.newStoredUser(claims.Email)
	existing.GoogleID = claims.Subject

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		Return(existing, false, nil).
		Times(2)
	s.mockTokens.EXPECT().
		Issue(existing, s.mobilePolicy()).
		Return("signed-credential", time.Now().Add(time.Hour), nil).
		Times(2)

	first, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
	second, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
	s.Equal(first.User.ID, second.User.ID)
}

func (s *ServiceSuite) TestIssueNormalizesEmail() {
	claims := s.newVerifiedClaims()
	claims.Email = "  Member@Example.COM "

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), "member@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, candidate *identity.User) (*identity.User, bool, error) {
			return candidate, true, nil
		})
	s.mockTokens.EXPECT().
		Issue(gomock.Any(), gomock.Any()).
		Return("signed-credential", time.Now().Add(time.Hour), nil)

	_, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestIssueRejectsMissingEmail() {
	claims := s.newVerifiedClaims()
	claims.Email = ""

	_, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingEmail))
}

func (s *ServiceSuite) TestIssueSurfacesSigningFailure() {
	claims := s.newVerifiedClaims()

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, candidate *identity.User) (*identity.User, bool, error) {
			return candidate, true, nil
		})
	s.mockTokens.EXPECT().
		Issue(gomock.Any(), gomock.Any()).
		Return("", time.Time{}, dErrors.New(dErrors.CodeSigningKeyUnavailable, "session signing key is not configured"))

	_, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSigningKeyUnavailable))
}

func (s *ServiceSuite) TestIssueStoreFailure() {
	claims := s.newVerifiedClaims()

	s.mockUsers.EXPECT().
		FindOrCreateByEmail(gomock.Any(), claims.Email, gomock.Any()).
		Return(nil, false, errors.New("connection reset"))

	_, err := s.service.Issue(context.Background(), claims, s.mobilePolicy())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestUserLookup() {
	existing := s.newStoredUser("member@example.com")

	s.mockUsers.EXPECT().
		FindByID(gomock.Any(), existing.ID).
		Return(existing, nil)

	user, err := s.service.User(context.Background(), existing.ID)
	s.Require().NoError(err)
	s.Equal(existing.Email, user.Email)
}

func (s *ServiceSuite) TestUserLookupUnknownID() {
	existing := s.newStoredUser("member@example.com")

	s.mockUsers.EXPECT().
		FindByID(gomock.Any(), existing.ID).
		Return(nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound))

	_, err := s.service.User(context.Background(), existing.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
