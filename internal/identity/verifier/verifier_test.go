package verifier

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	dErrors "wellspring/pkg/domain-errors"
)

const (
	testIssuer   = "https://accounts.example.com"
	testClientID = "wellspring-mobile"
)

type assertionOverrides struct {
	issuer    string
	audience  string
	email     string
	expiresAt time.Time
	key       *rsa.PrivateKey
}

func signAssertion(t *testing.T, key *rsa.PrivateKey, o assertionOverrides) string {
	t.Helper()

	issuer := testIssuer
	if o.issuer != "" {
		issuer = o.issuer
	}
	audience := testClientID
	if o.audience != "" {
		audience = o.audience
	}
	expiresAt := time.Now().Add(5 * time.Minute)
	if !o.expiresAt.IsZero() {
		expiresAt = o.expiresAt
	}
	signingKey := key
	if o.key != nil {
		signingKey = o.key
	}

	claims := jwt.MapClaims{
		"iss":     issuer,
		"aud":     audience,
		"sub":     "google-subject-1",
		"name":    "Avery Tester",
		"picture": "https://example.com/avatar.png",
		"iat":     time.Now().Unix(),
		"exp":     expiresAt.Unix(),
	}
	if o.email != "-" {
		claims["email"] = "avery@example.com"
		if o.email != "" {
			claims["email"] = o.email
		}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *Verifier {
	t.Helper()
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return NewWithKeySet(testIssuer, testClientID, keySet)
}

func TestVerifyValidAssertion(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, key)

	claims, err := v.Verify(context.Background(), signAssertion(t, key, assertionOverrides{}))
	require.NoError(t, err)
	require.Equal(t, "avery@example.com", claims.Email)
	require.Equal(t, "google-subject-1", claims.Subject)
	require.Equal(t, "Avery Tester", claims.Name)
	require.Equal(t, "https://example.com/avatar.png", claims.Avatar)
}

func TestVerifyIsIdempotent(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, key)
	assertion := signAssertion(t, key, assertionOverrides{})

	first, err := v.Verify(context.Background(), assertion)
	require.NoError(t, err)
	second, err := v.Verify(context.Background(), assertion)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestVerifyRejections(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, key)

	tests := []struct {
		name      string
		overrides assertionOverrides
		wantCode  dErrors.Code
	}{
		{
			name:      "expired assertion",
			overrides: assertionOverrides{expiresAt: time.Now().Add(-time.Minute)},
			wantCode:  dErrors.CodeExpiredAssertion,
		},
		{
			name:      "audience mismatch",
			overrides: assertionOverrides{audience: "some-other-client"},
			wantCode:  dErrors.CodeAudienceMismatch,
		},
		{
			name:      "untrusted issuer",
			overrides: assertionOverrides{issuer: "https://evil.example.com"},
			wantCode:  dErrors.CodeInvalidAssertion,
		},
		{
			name:      "wrong signing key",
			overrides: assertionOverrides{key: otherKey},
			wantCode:  dErrors.CodeInvalidSignature,
		},
		{
			name:      "missing email claim",
			overrides: assertionOverrides{email: "-"},
			wantCode:  dErrors.CodeMissingEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), signAssertion(t, key, tt.overrides))
			require.Error(t, err)
			require.True(t, dErrors.HasCode(err, tt.wantCode),
				"expected code %s, got %v", tt.wantCode, err)
		})
	}
}

func TestVerifyEmptyAssertion(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, key)

	_, err = v.Verify(context.Background(), "")
	require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAssertion))
}

func TestVerifyGarbageToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, key)

	_, err = v.Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
}
