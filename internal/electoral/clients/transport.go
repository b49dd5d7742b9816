// Package clients holds the transport pieces shared by the electoral-lookup and
// vote-registration HTTP clients.
package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds every outbound call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 1 << 20

// maxDetailBytes caps how much body text is copied into diagnostic details.
const maxDetailBytes = 512

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the default client used when no HTTPDoer is injected.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// IsTimeout reports whether a transport error came from a deadline.
func IsTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// ConnectionDetail describes a call that produced no response.
func ConnectionDetail(ctx context.Context, err error) string {
	if IsTimeout(ctx, err) {
		return "request timed out"
	}
	return "failed to reach service"
}

// ReadBody reads at most MaxBodyBytes of the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
}

// Snippet returns a trimmed, length-capped rendering of body for error details.
func Snippet(body []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if len(s) <= maxDetailBytes {
		return s
	}
	cut := maxDetailBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
