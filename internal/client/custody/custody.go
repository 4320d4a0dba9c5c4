// Package custody owns the single device-local copy of the current session
// credential. The cell is the only shared mutable state in the client process;
// all access goes through the mutex so no reader ever observes a torn value.
package custody

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"wellspring/internal/sentinel"
	dErrors "wellspring/pkg/domain-errors"
)

// Storage persists the credential across process restarts.
//
// Error contract:
//   - Load returns sentinel.ErrNotFound when no credential is stored.
//   - Save and Delete return nil on success.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Delete(ctx context.Context) error
}

// Custodian holds at most one session credential for this device. Set and
// Clear are linearizable with respect to Current: the durable write happens
// inside the same critical section as the cell update.
type Custodian struct {
	mu      sync.RWMutex
	current string
	present bool

	storage Storage
	logger  *slog.Logger
}

// Option configures a Custodian.
type Option func(*Custodian)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Custodian) {
		c.logger = logger
	}
}

// New creates a Custodian over the given durable storage. The cell starts
// empty; call Load to hydrate it.
func New(storage Storage, opts ...Option) *Custodian {
	c := &Custodian{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load hydrates the cell from durable storage. A missing stored credential is
// not an error; a read failure is logged and leaves the cell empty so the
// process starts unauthenticated rather than not at all.
func (c *Custodian) Load(ctx context.Context) {
	credential, err := c.storage.Load(ctx)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !isNotFound(err) {
			c.logger.WarnContext(ctx, "credential hydration failed", "error", err)
		}
		return
	}
	if credential == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Do not clobber a credential set by a sign-in that won the race with
	// startup hydration.
	if c.present {
		return
	}
	c.current = credential
	c.present = true
}

// Current returns the credential in the cell, if any.
func (c *Custodian) Current() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.present
}

// Set persists the credential and updates the cell. The previous credential,
// if any, is discarded. On a durable-write failure the cell is not updated so
// memory and storage never disagree.
func (c *Custodian) Set(ctx context.Context, credential string) error {
	if credential == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "credential must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.storage.Save(ctx, credential); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persisting credential")
	}
	c.current = credential
	c.present = true
	return nil
}

// Clear removes the credential from storage and empties the cell. The cell is
// emptied even if the durable delete fails; a stale file must not resurrect a
// session the caller asked to end.
func (c *Custodian) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = ""
	c.present = false
	if err := c.storage.Delete(ctx); err != nil {
		c.logger.WarnContext(ctx, "credential delete failed", "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "deleting credential")
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
