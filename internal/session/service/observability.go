package service

import (
	"context"

	"wellspring/internal/platform/requestcontext"
)

// logEvent emits an audit-style structured event with the request ID attached
// when one is on the context.
func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
