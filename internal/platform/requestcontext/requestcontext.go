// Package requestcontext provides typed accessors for values carried on the
// request context: the request ID and the verified session claims. Handlers
// must derive the acting identity from these claims, never from request input.
package requestcontext

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID retrieves the request ID from the context, or "" if absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SessionClaims is the verified projection of a session credential, placed on
// the context by whichever middleware authenticated the request.
type SessionClaims struct {
	UserID string
	Email  string
	Role   string
}

type sessionClaimsKey struct{}

// WithSessionClaims returns a context carrying verified session claims.
func WithSessionClaims(ctx context.Context, claims SessionClaims) context.Context {
	return context.WithValue(ctx, sessionClaimsKey{}, claims)
}

// Claims retrieves verified session claims from the context.
// The second return is false when the request was not authenticated.
func Claims(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey{}).(SessionClaims)
	return claims, ok
}
