// Package service implements session issuance: exchanging verified identity
// claims (or admin password credentials) for a first-party session credential
// plus the persistent user record behind it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"wellspring/internal/identity"
	"wellspring/internal/platform/metrics"
	"wellspring/internal/sentinel"
	"wellspring/internal/session/token"
	dErrors "wellspring/pkg/domain-errors"
)

// UserStore defines the persistence interface for user records.
// Error Contract: Find methods return sentinel.ErrNotFound (wrapped) when the
// entity doesn't exist.
type UserStore interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*identity.User, error)
	FindByEmail(ctx context.Context, email string) (*identity.User, error)
	FindOrCreateByEmail(ctx context.Context, email string, user *identity.User) (*identity.User, bool, error)
	Update(ctx context.Context, user *identity.User) error
}

// TokenIssuer mints session credentials for a user under a named policy.
type TokenIssuer interface {
	Issue(user *identity.User, policy token.Policy) (string, time.Time, error)
}

// IssueResult is the outcome of a successful issuance.
type IssueResult struct {
	Credential string
	ExpiresAt  time.Time
	User       *identity.User
}

// Service wires the user store and token issuer behind the two issuance
// entry points.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional Service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the session issuance service.
func NewService(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	svc := &Service{
		users:  users,
		tokens: tokens,
		tracer: otel.Tracer("wellspring/session"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Issue performs lookup-or-create on the user record keyed by email, links the
// external subject identifier (first-write-wins), and mints a session
// credential under the given policy.
//
// Issuing twice for the same email always yields the same user record.
func (s *Service) Issue(ctx context.Context, claims identity.VerifiedClaims, policy token.Policy) (*IssueResult, error) {
	ctx, span := s.tracer.Start(ctx, "session.Issue")
	defer span.End()

	if claims.Email == "" {
		return nil, s.fail(ctx, span, dErrors.New(dErrors.CodeMissingEmail, "verified claims lack an email"))
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	candidate := &identity.User{
		ID:         uuid.New(),
		Name:       claims.Name,
		Email:      email,
		Avatar:     claims.Avatar,
		Role:       identity.RoleUser,
		GoogleID:   claims.Subject,
		AuthMethod: identity.AuthMethodGoogle,
	}

	user, created, err := s.users.FindOrCreateByEmail(ctx, email, candidate)
	if err != nil {
		return nil, s.fail(ctx, span, dErrors.Wrap(err, dErrors.CodeInternal, "resolve user record"))
	}

	if created {
		s.metrics.IncrementUsersCreated()
		s.logEvent(ctx, "user.created", "user_id", user.ID.String(), "email", user.Email)
	} else if err := s.linkSubject(ctx, user, claims.Subject); err != nil {
		return nil, s.fail(ctx, span, err)
	}

	credential, expiresAt, err := s.tokens.Issue(user, policy)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	s.metrics.IncrementSessionsIssued(policy.Name)
	s.logEvent(ctx, "session.issued",
		"user_id", user.ID.String(),
		"policy", policy.Name,
		"expires_at", expiresAt.UTC().Format(time.RFC3339),
	)
	return &IssueResult{Credential: credential, ExpiresAt: expiresAt, User: user}, nil
}

// linkSubject links the external subject identifier to an existing record.
// First write wins: a record already linked to a different subject keeps its
// link, and the conflict is logged rather than escalated.
func (s *Service) linkSubject(ctx context.Context, user *identity.User, subject string) error {
	if subject == "" || user.GoogleID == subject {
		return nil
	}

	if user.GoogleID != "" {
		s.logEvent(ctx, "subject.link.conflict",
			"user_id", user.ID.String(),
			"email", user.Email,
		)
		return nil
	}

	user.GoogleID = subject
	if err := s.users.Update(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "link external subject")
	}
	s.logEvent(ctx, "subject.linked", "user_id", user.ID.String())
	return nil
}

// PasswordLogin authenticates an email/password pair for the admin surface and
// mints a session credential. Every rejection is the same generic unauthorized
// error so callers cannot probe which part failed.
func (s *Service) PasswordLogin(ctx context.Context, email, password string, policy token.Policy) (*IssueResult, error) {
	ctx, span := s.tracer.Start(ctx, "session.PasswordLogin")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.reject(ctx, span, "unknown email")
		}
		return nil, s.fail(ctx, span, dErrors.Wrap(err, dErrors.CodeInternal, "find user"))
	}

	if user.PasswordHash == "" {
		return nil, s.reject(ctx, span, "no password credential on record")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, s.reject(ctx, span, "password mismatch")
	}
	if !user.IsAdmin() {
		return nil, s.reject(ctx, span, "role is not admin")
	}

	credential, expiresAt, err := s.tokens.Issue(user, policy)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	s.metrics.IncrementSessionsIssued(policy.Name)
	s.logEvent(ctx, "session.issued",
		"user_id", user.ID.String(),
		"policy", policy.Name,
		"expires_at", expiresAt.UTC().Format(time.RFC3339),
	)
	return &IssueResult{Credential: credential, ExpiresAt: expiresAt, User: user}, nil
}

// User returns the record behind a user ID, for /auth/me style lookups.
func (s *Service) User(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	return user, nil
}

// reject records an authentication failure and returns the generic rejection.
func (s *Service) reject(ctx context.Context, span trace.Span, reason string) error {
	s.metrics.IncrementAuthFailures()
	s.logEvent(ctx, "signin.rejected", "reason", reason)
	span.SetStatus(codes.Error, reason)
	return dErrors.New(dErrors.CodeUnauthorized, "authentication failed")
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error) error {
	s.metrics.IncrementAuthFailures()
	span.SetStatus(codes.Error, err.Error())
	s.logger.ErrorContext(ctx, "session issuance failed", "error", err)
	return err
}

// HashPassword produces a bcrypt hash for seeding admin accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
