package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "progreso/pkg/domain-errors"
)

type plainRequest struct {
	Cedula string `json:"cedula"`
}

type checkedRequest struct {
	Cedula string `json:"cedula"`
}

func (r *checkedRequest) Validate() error {
	if r.Cedula == "" {
		return errors.New("cedula is required")
	}
	return nil
}

type domainCheckedRequest struct {
	Cedula string `json:"cedula"`
}

func (r *domainCheckedRequest) Validate() error {
	if r.Cedula == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cedula must not be empty")
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":"V12345678"}`))
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[plainRequest](w, r, quietLogger())
		require.True(t, ok)
		assert.Equal(t, "V12345678", req.Cedula)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":`))
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[plainRequest](w, r, quietLogger())
		assert.False(t, ok)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeError(t, w).ErrorDescription)
	})

	t.Run("plain validation error becomes bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[checkedRequest](w, r, quietLogger())
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, string(dErrors.CodeBadRequest), body.Error)
		assert.Equal(t, "cedula is required", body.ErrorDescription)
	})

	t.Run("domain validation error keeps its code", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":""}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[domainCheckedRequest](w, r, quietLogger())
		assert.False(t, ok)
		assert.Equal(t, string(dErrors.CodeInvalidInput), decodeError(t, w).Error)
	})

	t.Run("oversized body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":"`+strings.Repeat("1", 64)+`"}`))
		r.Body = http.MaxBytesReader(w, r.Body, 16)

		_, ok := DecodeJSON[plainRequest](w, r, quietLogger())
		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{dErrors.New(dErrors.CodeNotFound, "x"), http.StatusNotFound, "not_found"},
		{dErrors.New(dErrors.CodeInvalidInput, "x"), http.StatusBadRequest, "invalid_input"},
		{dErrors.New(dErrors.CodeBadGateway, "x"), http.StatusBadGateway, "bad_gateway"},
		{dErrors.New(dErrors.CodeTimeout, "x"), http.StatusGatewayTimeout, "timeout"},
		{dErrors.New(dErrors.CodeUnavailable, "x"), http.StatusServiceUnavailable, "unavailable"},
		{dErrors.New(dErrors.Code("conflict"), "x"), http.StatusInternalServerError, "conflict"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.code, decodeError(t, w).Error)
		})
	}
}
