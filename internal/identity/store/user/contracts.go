package user

import (
	"context"

	"github.com/google/uuid"

	"wellspring/internal/identity"
)

// Store persists user records keyed by email.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*identity.User, error)
	FindByEmail(ctx context.Context, email string) (*identity.User, error)

	// FindOrCreateByEmail atomically finds a user by email or creates the given
	// record if none exists. The bool reports whether a record was created.
	// Email lookups are case-insensitive; callers normalize before storing.
	FindOrCreateByEmail(ctx context.Context, email string, user *identity.User) (*identity.User, bool, error)

	// Update persists changes to an existing record.
	Update(ctx context.Context, user *identity.User) error
}
