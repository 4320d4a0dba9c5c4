// Package transport decorates an http.RoundTripper with session credential
// injection. Every outbound request consults the custodian synchronously; if
// no credential is present the request goes out unauthenticated and the
// server-side decision applies.
package transport

import "net/http"

// CredentialSource yields the current session credential, if any.
type CredentialSource interface {
	Current() (string, bool)
}

// Bearer injects "Authorization: Bearer <credential>" into outbound requests.
type Bearer struct {
	source CredentialSource
	next   http.RoundTripper
}

// NewBearer wraps next with credential injection. A nil next falls back to
// http.DefaultTransport.
func NewBearer(source CredentialSource, next http.RoundTripper) *Bearer {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Bearer{source: source, next: next}
}

// RoundTrip attaches the current credential and delegates. The request is
// cloned before mutation per the RoundTripper contract.
func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	credential, ok := b.source.Current()
	if !ok {
		return b.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+credential)
	return b.next.RoundTrip(clone)
}
