package models

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectorRecordNames(t *testing.T) {
	rec := ElectorRecord{
		Identifier:  "12345678",
		Nationality: "V",
		GivenNames:  []string{" ANA ", "", "MARIA"},
		Surnames:    []string{"PEREZ"},
	}
	assert.Equal(t, "ANA MARIA", rec.FullName())
	assert.Equal(t, "PEREZ", rec.FullSurname())
	assert.Equal(t, "V12345678", rec.DisplayIdentifier())

	rec.Identifier = "V12345678"
	assert.Equal(t, "V12345678", rec.DisplayIdentifier())

	assert.Empty(t, ElectorRecord{}.FullName())
}

func TestErrorKindClassification(t *testing.T) {
	for _, k := range []ErrorKind{KindLookupConnection, KindLookupHTTP, KindLookupMalformed} {
		assert.True(t, k.IsLookupFailure(), k)
		assert.False(t, k.IsRegistrationFailure(), k)
	}
	for _, k := range []ErrorKind{
		KindRegistrationUnauthorized, KindRegistrationBadRequest, KindRegistrationHTTP,
		KindRegistrationConnection, KindRegistrationUnavailable,
	} {
		assert.True(t, k.IsRegistrationFailure(), k)
		assert.False(t, k.IsLookupFailure(), k)
	}
	assert.False(t, KindRegistrationConflict.IsRegistrationFailure())
	assert.False(t, KindNotFound.IsLookupFailure())
	assert.False(t, KindValidation.IsLookupFailure())
}

func TestCallError(t *testing.T) {
	t.Run("renders every part", func(t *testing.T) {
		err := &CallError{
			Kind:       KindLookupHTTP,
			Service:    "electoral-lookup",
			StatusCode: 503,
			Detail:     "unexpected status code 503",
		}
		assert.Equal(t, "electoral-lookup [lookup_http_error] status 503: unexpected status code 503", err.Error())
		assert.Equal(t, "unexpected status code 503", err.Describe())
	})

	t.Run("unwraps transport cause", func(t *testing.T) {
		err := &CallError{
			Kind:    KindLookupConnection,
			Service: "electoral-lookup",
			Detail:  "request timed out",
			Err:     context.DeadlineExceeded,
		}
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "request timed out: context deadline exceeded", err.Describe())
	})

	t.Run("describe without detail", func(t *testing.T) {
		err := &CallError{Kind: KindRegistrationConnection, Err: errors.New("connection refused")}
		assert.Equal(t, "connection refused", err.Describe())
	})
}

func TestRegistrationOutcomes(t *testing.T) {
	ok := Registered(201)
	assert.True(t, ok.Succeeded)
	assert.False(t, ok.Failed())
	assert.Equal(t, KindNone, ok.Kind)

	conflict := AlreadyRegistered(409)
	assert.False(t, conflict.Succeeded)
	assert.True(t, conflict.AlreadyRegistered)
	assert.False(t, conflict.Failed())
	assert.Equal(t, KindRegistrationConflict, conflict.Kind)

	failed := RegistrationFailed(&CallError{Kind: KindRegistrationUnauthorized, StatusCode: 401, Detail: "credential rejected"})
	assert.True(t, failed.Failed())
	assert.Equal(t, "credential rejected", failed.FailureDetail)
	assert.Equal(t, 401, failed.StatusCode)
}

func TestLookupOutcomeConstructors(t *testing.T) {
	found := Found(ElectorRecord{Identifier: "12345678"})
	assert.Equal(t, LookupFound, found.Status)
	require.NotNil(t, found.Record)
	assert.Nil(t, found.Err)

	missing := NotFound()
	assert.Equal(t, LookupNotFound, missing.Status)
	assert.Nil(t, missing.Record)

	failed := ServiceError(&CallError{Kind: KindLookupMalformed})
	assert.Equal(t, LookupServiceError, failed.Status)
	assert.Nil(t, failed.Record)
	assert.Equal(t, KindLookupMalformed, failed.Err.Kind)
}

func TestWorkflowResult(t *testing.T) {
	for state, want := range map[State]bool{
		StateAlreadyVoted:       true,
		StateRegistered:         true,
		StateRegistrationFailed: false,
		StateNotFound:           false,
		StateLookupError:        false,
		StateInvalidInput:       false,
	} {
		assert.Equal(t, want, (&WorkflowResult{State: state}).Succeeded(), state)
	}

	raw, err := json.Marshal(&WorkflowResult{IdentifierEcho: "87654321", State: StateAlreadyVoted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"identifier":"87654321","state":"already_voted"}`, string(raw))
}
