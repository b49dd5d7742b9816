package models

import (
	"strings"
)

// ElectorRecord holds the attributes returned by the electoral-lookup service.
// It lives only for the duration of one workflow run and is never cached.
type ElectorRecord struct {
	Identifier    string   `json:"identifier"`
	Nationality   string   `json:"nationality,omitempty"`
	GivenNames    []string `json:"given_names,omitempty"`
	Surnames      []string `json:"surnames,omitempty"`
	PollingCenter string   `json:"polling_center,omitempty"`
	HasVoted      bool     `json:"has_voted"`
}

// FullName joins the non-empty given names.
func (r ElectorRecord) FullName() string {
	return joinNonEmpty(r.GivenNames)
}

// FullSurname joins the non-empty surnames.
func (r ElectorRecord) FullSurname() string {
	return joinNonEmpty(r.Surnames)
}

// DisplayIdentifier is the identifier as the service echoes it, nationality marker first.
func (r ElectorRecord) DisplayIdentifier() string {
	if r.Nationality != "" && !strings.HasPrefix(r.Identifier, r.Nationality) {
		return r.Nationality + r.Identifier
	}
	return r.Identifier
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// LookupStatus tags the variant held by a LookupOutcome.
type LookupStatus string

const (
	LookupFound        LookupStatus = "found"
	LookupNotFound     LookupStatus = "not_found"
	LookupServiceError LookupStatus = "service_error"
)

// LookupOutcome is the result of one lookup call: exactly one of
// Found(record), NotFound, or ServiceError(kind, detail).
type LookupOutcome struct {
	Status LookupStatus
	Record *ElectorRecord
	Err    *CallError
}

func Found(record ElectorRecord) LookupOutcome {
	return LookupOutcome{Status: LookupFound, Record: &record}
}

func NotFound() LookupOutcome {
	return LookupOutcome{Status: LookupNotFound}
}

func ServiceError(err *CallError) LookupOutcome {
	return LookupOutcome{Status: LookupServiceError, Err: err}
}

// RegistrationOutcome is produced once per registration attempt and not mutated afterwards.
type RegistrationOutcome struct {
	Succeeded         bool      `json:"succeeded"`
	AlreadyRegistered bool      `json:"already_registered"`
	FailureDetail     string    `json:"failure_detail,omitempty"`
	Kind              ErrorKind `json:"kind,omitempty"`
	StatusCode        int       `json:"status_code,omitempty"`
}

// Registered is the outcome of an accepted registration.
func Registered(statusCode int) RegistrationOutcome {
	return RegistrationOutcome{Succeeded: true, StatusCode: statusCode}
}

// AlreadyRegistered is the outcome of a conflict response. It is informational, not a failure.
func AlreadyRegistered(statusCode int) RegistrationOutcome {
	return RegistrationOutcome{
		AlreadyRegistered: true,
		Kind:              KindRegistrationConflict,
		StatusCode:        statusCode,
	}
}

// RegistrationFailed builds a failed outcome from a call error.
func RegistrationFailed(err *CallError) RegistrationOutcome {
	return RegistrationOutcome{
		FailureDetail: err.Describe(),
		Kind:          err.Kind,
		StatusCode:    err.StatusCode,
	}
}

// Failed reports whether the registration portion should be shown as failed.
func (o RegistrationOutcome) Failed() bool {
	return !o.Succeeded && !o.AlreadyRegistered
}

// State is the terminal state reached by one workflow run.
type State string

const (
	StateInvalidInput       State = "invalid_input"
	StateNotFound           State = "not_found"
	StateLookupError        State = "lookup_error"
	StateAlreadyVoted       State = "already_voted"
	StateRegistered         State = "registered"
	StateRegistrationFailed State = "registration_failed"
)

// WorkflowResult is the composed artifact handed to the front end.
//
// Invariants:
//   - Record is nil unless the lookup found a record
//   - Registration is nil unless registration was attempted (or reported unavailable)
//   - ErrorKind is empty for StateAlreadyVoted and StateRegistered
type WorkflowResult struct {
	IdentifierEcho string               `json:"identifier"`
	State          State                `json:"state"`
	Record         *ElectorRecord       `json:"record,omitempty"`
	Registration   *RegistrationOutcome `json:"registration,omitempty"`
	ErrorKind      ErrorKind            `json:"error_kind,omitempty"`
	Detail         string               `json:"detail,omitempty"`
	Hint           string               `json:"hint,omitempty"`
}

// Succeeded reports whether the run ended with the citizen recorded as voted,
// either by this run or previously.
func (r *WorkflowResult) Succeeded() bool {
	return r.State == StateAlreadyVoted || r.State == StateRegistered
}
