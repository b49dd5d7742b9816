// Package lookup implements the read-only electoral-lookup HTTP client.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"progreso/internal/electoral/clients"
	"progreso/internal/electoral/models"
	id "progreso/pkg/domain"
)

const serviceName = "electoral-lookup"

// Response field names used by the lookup service.
const (
	fieldIdentifier    = "cedula"
	fieldNationality   = "nacionalidad"
	fieldFirstName     = "pnombre"
	fieldSecondName    = "snombre"
	fieldFirstSurname  = "papellido"
	fieldSecondSurname = "sapellido"
	fieldPollingCenter = "cv"
	fieldHasVoted      = "ha_votado"
)

// Client issues a single GET per lookup against <baseURL>/<digits>. It never retries.
type Client struct {
	baseURL    string
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

// New creates a lookup client. A non-positive timeout selects clients.DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = clients.DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = clients.NewHTTPClient(timeout)
	}
	return c
}

// Lookup fetches the elector record addressed by the identifier's digits.
// The prefix letter is never sent to the service.
func (c *Client) Lookup(ctx context.Context, nationalID id.NationalID) models.LookupOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + url.PathEscape(nationalID.Digits())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return serviceError(models.KindLookupConnection, 0, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serviceError(models.KindLookupConnection, 0, clients.ConnectionDetail(ctx, err), err)
	}
	defer resp.Body.Close()

	body, err := clients.ReadBody(resp)
	if err != nil {
		return serviceError(models.KindLookupConnection, resp.StatusCode, "failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return models.NotFound()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return serviceError(models.KindLookupHTTP, resp.StatusCode,
			fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, clients.Snippet(body)), nil)
	}

	return parseRecord(resp.StatusCode, body)
}

// parseRecord decodes a success body. The presence of the identifier field is the
// authoritative signal that a record exists, regardless of the status code.
func parseRecord(statusCode int, body []byte) models.LookupOutcome {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return serviceError(models.KindLookupMalformed, statusCode, "failed to parse response body", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return serviceError(models.KindLookupMalformed, statusCode, "unexpected data after response body", err)
	}
	if fields == nil {
		return models.NotFound()
	}

	if isFalsy(fields[fieldIdentifier]) {
		return models.NotFound()
	}
	identifier, err := textField(fields, fieldIdentifier)
	if err != nil {
		return serviceError(models.KindLookupMalformed, statusCode, err.Error(), nil)
	}
	if identifier == "" || identifier == "0" {
		return models.NotFound()
	}

	record := models.ElectorRecord{Identifier: identifier}
	var text [5]string
	for i, key := range []string{fieldNationality, fieldFirstName, fieldSecondName, fieldFirstSurname, fieldSecondSurname} {
		if text[i], err = textField(fields, key); err != nil {
			return serviceError(models.KindLookupMalformed, statusCode, err.Error(), nil)
		}
	}
	record.Nationality = text[0]
	record.GivenNames = nonEmpty(text[1], text[2])
	record.Surnames = nonEmpty(text[3], text[4])

	if record.PollingCenter, err = textField(fields, fieldPollingCenter); err != nil {
		return serviceError(models.KindLookupMalformed, statusCode, err.Error(), nil)
	}
	if record.HasVoted, err = boolField(fields, fieldHasVoted); err != nil {
		return serviceError(models.KindLookupMalformed, statusCode, err.Error(), nil)
	}

	return models.Found(record)
}

// textField reads a string or number field. Absent and null fields are empty.
func textField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("field %q has unexpected type", key)
}

// boolField reads the tri-state voted flag. Absent and null default to false.
func boolField(fields map[string]json.RawMessage, key string) (bool, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	return false, fmt.Errorf("field %q is not a boolean", key)
}

// isFalsy reports an identifier value that carries no record: false or an
// empty array or object. Absent, null, "" and 0 are handled by textField.
func isFalsy(raw json.RawMessage) bool {
	switch string(bytes.Join(bytes.Fields(raw), nil)) {
	case "false", "[]", "{}":
		return true
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func serviceError(kind models.ErrorKind, statusCode int, detail string, err error) models.LookupOutcome {
	return models.ServiceError(&models.CallError{
		Kind:       kind,
		Service:    serviceName,
		StatusCode: statusCode,
		Detail:     detail,
		Err:        err,
	})
}
