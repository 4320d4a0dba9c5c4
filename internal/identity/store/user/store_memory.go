package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellspring/internal/identity"
	"wellspring/internal/sentinel"
)

// InMemoryStore stores users in memory. Used in tests and when no database is
// configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*identity.User
}

// NewMemory constructs an empty in-memory user store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{users: make(map[uuid.UUID]*identity.User)}
}

func (s *InMemoryStore) FindByID(_ context.Context, userID uuid.UUID) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.findByEmailLocked(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

// FindOrCreateByEmail atomically finds a user by email or creates it if not found.
// The single lock prevents duplicate creation under concurrent sign-ins.
func (s *InMemoryStore) FindOrCreateByEmail(_ context.Context, email string, user *identity.User) (*identity.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findByEmailLocked(email); existing != nil {
		cp := *existing
		return &cp, false, nil
	}

	cp := *user
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	cp.UpdatedAt = cp.CreatedAt
	s.users[cp.ID] = &cp

	out := cp
	return &out, true, nil
}

func (s *InMemoryStore) Update(_ context.Context, user *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	cp := *user
	cp.UpdatedAt = time.Now().UTC()
	s.users[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) findByEmailLocked(email string) *identity.User {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}
