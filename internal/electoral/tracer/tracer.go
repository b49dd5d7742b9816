// Package tracer provides a lightweight tracing abstraction for the electoral workflow.
//
// The workflow emits spans through this interface instead of the OpenTelemetry API
// directly, so tests can run with NoopTracer and production can plug in OTelTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span; the returned context carries it to child operations.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanProcess,
	//       tracer.String(tracer.AttrNationalID, tracer.HashNationalID(digits)),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashNationalID returns a truncated SHA-256 hash of the identifier so traces
// can be correlated without exposing it.
func HashNationalID(nationalID string) string {
	if nationalID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(nationalID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the electoral workflow.
const (
	SpanProcess          = "electoral.process"
	SpanLookupCall       = "electoral.lookup.call"
	SpanRegistrationCall = "electoral.registration.call"
)

// Attribute keys used by the electoral workflow.
const (
	AttrNationalID   = "national_id"
	AttrState        = "workflow.state"
	AttrErrorKind    = "workflow.error_kind"
	AttrLookupStatus = "lookup.status"
	AttrHasVoted     = "elector.has_voted"
	AttrStatusCode   = "http.status_code"
	AttrAlreadyVoted = "registration.already_registered"
)

// Event names used by the electoral workflow.
const (
	EventRegistrationSkipped = "registration.skipped"
)
