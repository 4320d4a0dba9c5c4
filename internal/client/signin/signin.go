// Package signin drives the end-to-end federated sign-in flow on the client:
// native provider, identity broker, backend exchange, credential custody. The
// five steps are strictly sequential and no session state is mutated unless
// every step succeeds.
package signin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"wellspring/internal/client/api"
	"wellspring/internal/identity"
	dErrors "wellspring/pkg/domain-errors"
)

const defaultStepTimeout = 15 * time.Second

// Provider is the native identity provider installed on the device.
type Provider interface {
	// SilentSignIn attempts re-authentication without user interaction.
	// Failure is expected for signed-out users and is not fatal.
	SilentSignIn(ctx context.Context) (string, error)
	// Available reports whether the provider services are usable on this
	// device. A non-nil error means sign-in cannot proceed.
	Available(ctx context.Context) error
	// SignIn runs the interactive flow and returns a provider-issued
	// identity token.
	SignIn(ctx context.Context) (string, error)
	// SignOut drops the provider-side session.
	SignOut(ctx context.Context) error
}

// Broker re-validates a provider assertion and issues its own verifiable
// identity token.
type Broker interface {
	Exchange(ctx context.Context, providerToken string) (string, error)
}

// SessionExchanger trades a verifiable identity token for a session grant.
type SessionExchanger interface {
	ExchangeIdentityToken(ctx context.Context, identityToken string) (*api.SessionGrant, error)
}

// Custodian receives the issued credential.
type Custodian interface {
	Set(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

// Orchestrator sequences the sign-in steps. Each network-bound step runs
// under its own bounded timeout.
type Orchestrator struct {
	provider    Provider
	broker      Broker
	backend     SessionExchanger
	custodian   Custodian
	logger      *slog.Logger
	stepTimeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithStepTimeout bounds each individual step of the flow.
func WithStepTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.stepTimeout = timeout
	}
}

// New wires the orchestrator.
func New(provider Provider, broker Broker, backend SessionExchanger, custodian Custodian, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:    provider,
		broker:      broker,
		backend:     backend,
		custodian:   custodian,
		logger:      slog.Default(),
		stepTimeout: defaultStepTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SignIn runs the full flow and returns the signed-in user. The custodian is
// only written after the backend exchange succeeds; any earlier failure or
// cancellation leaves it untouched.
func (o *Orchestrator) SignIn(ctx context.Context) (*identity.View, error) {
	providerToken, err := o.silentSignIn(ctx)
	if err != nil {
		o.logger.DebugContext(ctx, "silent sign-in unavailable", "error", err)
	}

	if providerToken == "" {
		if err := o.checkAvailable(ctx); err != nil {
			return nil, err
		}
		providerToken, err = o.interactiveSignIn(ctx)
		if err != nil {
			return nil, err
		}
	}

	identityToken, err := o.brokerExchange(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	grant, err := o.backendExchange(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	if err := o.custodian.Set(ctx, grant.Token); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storing session credential")
	}
	o.logger.InfoContext(ctx, "sign-in completed", "user_id", grant.User.ID)
	return &grant.User, nil
}

// SignOut clears credential custody and best-effort drops the provider
// session. The backend credential stays valid until expiry.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	if err := o.provider.SignOut(ctx); err != nil {
		o.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	return o.custodian.Clear(ctx)
}

func (o *Orchestrator) silentSignIn(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.provider.SilentSignIn(ctx)
}

func (o *Orchestrator) checkAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	if err := o.provider.Available(ctx); err != nil {
		if dErrors.HasCode(err, dErrors.CodeProviderUnavailable) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "provider services unavailable")
	}
	return nil
}

func (o *Orchestrator) interactiveSignIn(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	providerToken, err := o.provider.SignIn(ctx)
	if err != nil {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "interactive sign-in failed")
	}
	if providerToken == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "provider returned no identity token")
	}
	return providerToken, nil
}

func (o *Orchestrator) brokerExchange(ctx context.Context, providerToken string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	identityToken, err := o.broker.Exchange(ctx, providerToken)
	if err != nil {
		if dErrors.Retryable(err) || dErrors.HasCode(err, dErrors.CodeCanceled) {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeBrokerExchangeFailed, "broker exchange failed")
	}
	if identityToken == "" {
		return "", dErrors.New(dErrors.CodeBrokerExchangeFailed, "broker returned no identity token")
	}
	return identityToken, nil
}

func (o *Orchestrator) backendExchange(ctx context.Context, identityToken string) (*api.SessionGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.backend.ExchangeIdentityToken(ctx, identityToken)
}
