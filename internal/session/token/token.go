// Package token mints and verifies first-party session credentials. A
// credential is a self-contained signed token; validity is solely signature
// plus expiry, there is no server-side revocation state.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wellspring/internal/identity"
	dErrors "wellspring/pkg/domain-errors"
)

// SessionClaims are the claims embedded in a session credential.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Policy names an issuance horizon. The mobile API and the admin web surface
// carry independent policies; neither derives from the other.
type Policy struct {
	Name string
	TTL  time.Duration
}

// PolicyMobileAPI returns the issuance policy for the bearer-token API client.
func PolicyMobileAPI(ttl time.Duration) Policy {
	return Policy{Name: "mobile_api", TTL: ttl}
}

// PolicyAdminWeb returns the issuance policy for the cookie-gated admin surface.
func PolicyAdminWeb(ttl time.Duration) Policy {
	return Policy{Name: "admin_web", TTL: ttl}
}

// Service creates and validates session credentials with a symmetric key.
type Service struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a token service. A missing signing key is a
// deployment defect: it fails here so the process never serves requests that
// would silently come back unauthenticated.
func NewService(signingKey, issuer string, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, dErrors.New(dErrors.CodeSigningKeyUnavailable, "session signing key is not configured")
	}
	s := &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a signed session credential for the user under the given policy.
func (s *Service) Issue(user *identity.User, policy Policy) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "user is required")
	}
	if policy.TTL <= 0 {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "issuance policy ttl must be positive")
	}

	now := s.now()
	expiresAt := now.Add(policy.TTL)

	credential := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := credential.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "sign session credential")
	}
	return signed, expiresAt, nil
}

// Authenticate verifies signature and expiry and yields the embedded claims.
// It is a pure function of the input and the configured key; no I/O.
func (s *Service) Authenticate(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeMalformedToken, "empty token")
	}

	claims := new(SessionClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, dErrors.Wrap(err, dErrors.CodeExpired, "session credential expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidSignature, "session credential signature does not validate")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, dErrors.Wrap(err, dErrors.CodeMalformedToken, "session credential is malformed")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeMalformedToken, "session credential did not verify")
		}
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "session credential is not valid")
	}
	if !identity.Role(claims.Role).Valid() {
		return nil, dErrors.New(dErrors.CodeMalformedToken, "session credential carries an unknown role")
	}

	return claims, nil
}
