package models

import (
	"fmt"
)

// ErrorKind is the normalized failure taxonomy for one workflow run.
//
// Kinds are stable strings so operators can tell an unreachable service from a
// rejected request or unreadable data without parsing messages.
type ErrorKind string

const (
	KindNone ErrorKind = ""

	// KindValidation means the raw identifier did not match the accepted format.
	KindValidation ErrorKind = "validation_error"

	// KindNotFound means the identifier is well formed but no record exists.
	KindNotFound ErrorKind = "not_found"

	KindLookupConnection ErrorKind = "lookup_connection_error"
	KindLookupHTTP       ErrorKind = "lookup_http_error"
	KindLookupMalformed  ErrorKind = "lookup_malformed_response"

	// KindRegistrationConflict is informational: the citizen was already marked as voted.
	KindRegistrationConflict ErrorKind = "registration_conflict"

	KindRegistrationUnauthorized ErrorKind = "registration_unauthorized"
	KindRegistrationBadRequest   ErrorKind = "registration_bad_request"
	KindRegistrationHTTP         ErrorKind = "registration_http_error"
	KindRegistrationConnection   ErrorKind = "registration_connection_error"

	// KindRegistrationUnavailable means no registration endpoint is configured,
	// so registration was never attempted.
	KindRegistrationUnavailable ErrorKind = "registration_unavailable"
)

// IsLookupFailure reports whether k terminates a run during the lookup phase.
func (k ErrorKind) IsLookupFailure() bool {
	switch k {
	case KindLookupConnection, KindLookupHTTP, KindLookupMalformed:
		return true
	}
	return false
}

// IsRegistrationFailure reports whether k marks the registration portion as failed.
// The conflict kind is not a failure.
func (k ErrorKind) IsRegistrationFailure() bool {
	switch k {
	case KindRegistrationUnauthorized, KindRegistrationBadRequest, KindRegistrationHTTP,
		KindRegistrationConnection, KindRegistrationUnavailable:
		return true
	}
	return false
}

// CallError describes one failed outbound call.
//
// StatusCode is zero when no response was received.
type CallError struct {
	Kind       ErrorKind
	Service    string
	StatusCode int
	Detail     string
	Err        error
}

// Error implements the error interface
func (e *CallError) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Describe returns the detail text shown to operators, including the
// underlying transport error when there is one.
func (e *CallError) Describe() string {
	switch {
	case e.Err == nil:
		return e.Detail
	case e.Detail == "":
		return e.Err.Error()
	}
	return e.Detail + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() error {
	return e.Err
}
