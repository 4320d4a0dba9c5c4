// Package verifier validates externally-issued identity assertions (Google ID
// tokens) against the issuer's published keys and extracts trusted claims.
//
// Verification is idempotent and side-effect free: the same assertion may be
// verified concurrently and repeatedly. Rejections are always returned as
// domain errors, never panics or raw library errors.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"wellspring/internal/identity"
	dErrors "wellspring/pkg/domain-errors"
)

// Verifier validates ID tokens from a single configured issuer and audience.
type Verifier struct {
	idTokenVerifier *oidc.IDTokenVerifier
}

// New discovers the issuer's configuration over the network and returns a
// Verifier pinned to the given audience (the relying party's client ID).
func New(ctx context.Context, issuerURL, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity provider client id is required")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover identity provider %q: %w", issuerURL, err)
	}

	return &Verifier{
		idTokenVerifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// NewWithKeySet returns a Verifier backed by a fixed key set, bypassing issuer
// discovery. Used in tests and deployments with pinned keys.
func NewWithKeySet(issuerURL, clientID string, keySet oidc.KeySet) *Verifier {
	return &Verifier{
		idTokenVerifier: oidc.NewVerifier(issuerURL, keySet, &oidc.Config{ClientID: clientID}),
	}
}

// Verify validates the assertion's signature, issuer, audience, and expiry,
// then extracts the trusted claim projection. Email is required: it is the
// natural key for the user record downstream.
func (v *Verifier) Verify(ctx context.Context, rawAssertion string) (identity.VerifiedClaims, error) {
	if rawAssertion == "" {
		return identity.VerifiedClaims{}, dErrors.New(dErrors.CodeInvalidAssertion, "assertion is empty")
	}

	idToken, err := v.idTokenVerifier.Verify(ctx, rawAssertion)
	if err != nil {
		return identity.VerifiedClaims{}, classifyVerifyError(err)
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&payload); err != nil {
		return identity.VerifiedClaims{}, dErrors.Wrap(err, dErrors.CodeInvalidAssertion, "assertion claims are not decodable")
	}

	if payload.Email == "" {
		return identity.VerifiedClaims{}, dErrors.New(dErrors.CodeMissingEmail, "assertion lacks an email claim")
	}

	return identity.VerifiedClaims{
		Subject: idToken.Subject,
		Email:   payload.Email,
		Name:    payload.Name,
		Avatar:  payload.Picture,
	}, nil
}

// classifyVerifyError maps go-oidc verification failures onto the rejection
// taxonomy. Classification only labels an already-failed verification; it
// never decides trust.
func classifyVerifyError(err error) error {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return dErrors.Wrap(err, dErrors.CodeExpiredAssertion, "assertion is expired")
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "audience"):
		return dErrors.Wrap(err, dErrors.CodeAudienceMismatch, "assertion was issued for a different relying party")
	case strings.Contains(msg, "signature"):
		return dErrors.Wrap(err, dErrors.CodeInvalidSignature, "assertion signature does not validate")
	case strings.Contains(msg, "issuer"), strings.Contains(msg, "issued by a different provider"):
		return dErrors.Wrap(err, dErrors.CodeInvalidAssertion, "assertion issued by an untrusted issuer")
	default:
		return dErrors.Wrap(err, dErrors.CodeInvalidAssertion, "assertion did not verify")
	}
}
