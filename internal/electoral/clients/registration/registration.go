// Package registration implements the write-only vote-registration HTTP client.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"progreso/internal/electoral/clients"
	"progreso/internal/electoral/models"
	id "progreso/pkg/domain"
)

const serviceName = "vote-registration"

// Client posts one registration per call to the configured endpoint.
//
// Double registration is prevented by the remote service answering 409;
// the client only classifies that answer as non-fatal.
type Client struct {
	endpoint   string
	token      string
	timeout    time.Duration
	httpClient clients.HTTPDoer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer clients.HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// New creates a registration client. An empty token sends no Authorization header.
func New(endpoint, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = clients.DefaultTimeout
	}
	c := &Client{
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = clients.NewHTTPClient(timeout)
	}
	return c
}

// registrationRequest is the body accepted by the registration service.
type registrationRequest struct {
	Cedula string `json:"cedula"`
}

// errorResponse represents an error response from the registration service.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// RegisterVoted marks the identifier's digits as having voted.
func (c *Client) RegisterVoted(ctx context.Context, nationalID id.NationalID) models.RegistrationOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(registrationRequest{Cedula: nationalID.Digits()})
	if err != nil {
		return failed(models.KindRegistrationConnection, 0, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failed(models.KindRegistrationConnection, 0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(models.KindRegistrationConnection, 0, clients.ConnectionDetail(ctx, err), err)
	}
	defer resp.Body.Close()

	// Body read errors only affect diagnostics; the status code decides the outcome.
	body, _ := clients.ReadBody(resp)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return models.Registered(resp.StatusCode)
	case resp.StatusCode == http.StatusConflict:
		return models.AlreadyRegistered(resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		return failed(models.KindRegistrationUnauthorized, resp.StatusCode,
			"registration service rejected the credential; check the configured registration token", nil)
	case resp.StatusCode == http.StatusBadRequest:
		return failed(models.KindRegistrationBadRequest, resp.StatusCode, badRequestDetail(body), nil)
	default:
		return failed(models.KindRegistrationHTTP, resp.StatusCode,
			fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, clients.Snippet(body)), nil)
	}
}

// badRequestDetail prefers the body's message field and falls back to the raw text.
func badRequestDetail(body []byte) string {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if msg := strings.TrimSpace(errResp.Message); msg != "" {
			return msg
		}
	}
	if raw := clients.Snippet(body); raw != "" {
		return raw
	}
	return "bad request"
}

func failed(kind models.ErrorKind, statusCode int, detail string, err error) models.RegistrationOutcome {
	return models.RegistrationFailed(&models.CallError{
		Kind:       kind,
		Service:    serviceName,
		StatusCode: statusCode,
		Detail:     detail,
		Err:        err,
	})
}

// Unavailable stands in for the client when no registration endpoint is configured.
// It never performs a call.
type Unavailable struct{}

// RegisterVoted reports that registration was not attempted.
func (Unavailable) RegisterVoted(context.Context, id.NationalID) models.RegistrationOutcome {
	return models.RegistrationOutcome{
		FailureDetail: "registration endpoint is not configured; vote was not recorded",
		Kind:          models.KindRegistrationUnavailable,
	}
}
