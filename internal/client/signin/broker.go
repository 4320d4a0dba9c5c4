package signin

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	dErrors "wellspring/pkg/domain-errors"
)

// OAuthBroker exchanges a provider-issued authorization code at the broker's
// token endpoint and extracts the broker's verifiable identity token from the
// response. It satisfies Broker.
type OAuthBroker struct {
	config *oauth2.Config
	http   *http.Client
}

// BrokerConfig identifies this client to the identity broker.
type BrokerConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RedirectURL  string
}

// NewOAuthBroker validates the configuration and builds the broker client.
// Missing configuration is a deployment defect and fails construction.
func NewOAuthBroker(cfg BrokerConfig, httpClient *http.Client) (*OAuthBroker, error) {
	if cfg.ClientID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "broker client id is required")
	}
	if cfg.TokenURL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "broker token url is required")
	}
	if _, err := url.Parse(cfg.TokenURL); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "broker token url is invalid")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OAuthBroker{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		},
		http: httpClient,
	}, nil
}

// Exchange trades the provider token for the broker's identity token. Broker
// rejections are terminal; transport failures stay retryable.
func (b *OAuthBroker) Exchange(ctx context.Context, providerToken string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.http)

	oauthToken, err := b.config.Exchange(ctx, providerToken)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", dErrors.Wrap(err, dErrors.CodeBrokerExchangeFailed, "broker rejected the exchange")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", dErrors.Wrap(err, dErrors.CodeNetwork, "broker exchange timed out")
		}
		if errors.Is(err, context.Canceled) {
			return "", dErrors.Wrap(err, dErrors.CodeCanceled, "broker exchange canceled")
		}
		return "", dErrors.Wrap(err, dErrors.CodeNetwork, "broker unreachable")
	}

	identityToken, ok := oauthToken.Extra("id_token").(string)
	if !ok || identityToken == "" {
		return "", dErrors.New(dErrors.CodeBrokerExchangeFailed, "broker response carried no identity token")
	}
	return identityToken, nil
}
