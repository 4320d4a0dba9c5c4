// Package api is the device-side client for the backend auth endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"wellspring/internal/identity"
	dErrors "wellspring/pkg/domain-errors"
)

const defaultTimeout = 15 * time.Second

// SessionGrant is the backend's response to a successful credential exchange.
type SessionGrant struct {
	Token string        `json:"token"`
	User  identity.View `json:"user"`
}

// Client talks to the backend /auth surface. Requests carry the custodian's
// current credential when the supplied http.Client uses the bearer transport.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Exceeding it is reported as a retryable
// network error.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient swaps the underlying http.Client, typically one wrapping the
// bearer transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New creates a backend client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeIdentityToken sends a verified identity token to the backend and
// returns the issued session grant.
func (c *Client) ExchangeIdentityToken(ctx context.Context, identityToken string) (*SessionGrant, error) {
	if identityToken == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity token must not be empty")
	}

	body, err := json.Marshal(map[string]string{"idToken": identityToken})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encoding exchange request")
	}

	var grant SessionGrant
	if err := c.do(ctx, http.MethodPost, "/auth/google-signin", body, &grant); err != nil {
		return nil, err
	}
	if grant.Token == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "backend returned an empty credential")
	}
	return &grant, nil
}

// Me fetches the user behind the current session credential.
func (c *Client) Me(ctx context.Context) (*identity.View, error) {
	var view identity.View
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Logout tells the backend to clear its session cookie. Credential custody is
// the caller's concern; this does not touch the custodian.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", []byte("{}"), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decoding response")
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return dErrors.Wrap(err, dErrors.CodeNetwork, "backend request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeCanceled, "backend request canceled")
	}
	return dErrors.Wrap(err, dErrors.CodeNetwork, "backend unreachable")
}

func errorFromResponse(resp *http.Response) error {
	var envelope struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	message := envelope.Description
	if message == "" {
		message = envelope.Error
	}
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return dErrors.New(dErrors.CodeUnauthorized, message)
	case http.StatusBadRequest:
		return dErrors.New(dErrors.CodeBadRequest, message)
	case http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, message)
	case http.StatusGatewayTimeout, http.StatusBadGateway, http.StatusServiceUnavailable:
		return dErrors.New(dErrors.CodeNetwork, message)
	default:
		return dErrors.New(dErrors.CodeInternal, message)
	}
}
