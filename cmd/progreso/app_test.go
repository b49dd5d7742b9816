package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progreso/internal/electoral/handler"
	"progreso/internal/electoral/models"
	"progreso/internal/platform/config"
)

type fakeElectoral struct {
	lookup        *httptest.Server
	registration  *httptest.Server
	registrations atomic.Int32
}

func newFakeElectoral(t *testing.T, lookupBody string) *fakeElectoral {
	t.Helper()
	f := &fakeElectoral{}
	f.lookup = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/99999999") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, lookupBody)
	}))
	f.registration = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.registrations.Add(1) > 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(func() {
		f.lookup.Close()
		f.registration.Close()
	})
	return f
}

func testConfig(f *fakeElectoral) *config.Server {
	return &config.Server{
		Addr:              ":0",
		LookupBaseURL:     f.lookup.URL + "/electores",
		RegistrationURL:   f.registration.URL + "/votos",
		RegistrationToken: "secret",
		HTTPTimeout:       2 * time.Second,
		LogLevel:          "info",
		Env:               "test",
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postConsulta(t *testing.T, h http.Handler, cedula string) (int, handler.ConsultaResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/consultas", strings.NewReader(`{"cedula":"`+cedula+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp handler.ConsultaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	return w.Code, resp
}

func TestApp_ConsultaFlow(t *testing.T) {
	f := newFakeElectoral(t, `{"cedula":"12345678","nacionalidad":"V","pnombre":"ANA","papellido":"PEREZ","cv":"LICEO","ha_votado":false}`)
	a, err := newApp(testConfig(f), quiet(), prometheus.NewRegistry())
	require.NoError(t, err)

	code, resp := postConsulta(t, a.router, "v12345678")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.StateRegistered, resp.State)
	require.NotNil(t, resp.Elector)
	assert.Equal(t, "V12345678", resp.Elector.Identifier)
	assert.Equal(t, "LICEO", resp.Elector.PollingCenter)

	code, resp = postConsulta(t, a.router, "V12345678")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.StateRegistered, resp.State)
	require.NotNil(t, resp.Registration)
	assert.True(t, resp.Registration.AlreadyRegistered)

	code, resp = postConsulta(t, a.router, "99999999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, models.StateNotFound, resp.State)

	code, resp = postConsulta(t, a.router, "X9")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, resp.Hint)

	assert.Equal(t, int32(2), f.registrations.Load())
}

func TestApp_ProbesAndMetrics(t *testing.T) {
	f := newFakeElectoral(t, `{"cedula":"12345678","ha_votado":true}`)
	a, err := newApp(testConfig(f), quiet(), prometheus.NewRegistry())
	require.NoError(t, err)

	postConsulta(t, a.router, "12345678")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"electoral-lookup":"up"`)

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `progreso_workflow_results_total{state="already_voted"} 1`)
	assert.Contains(t, w.Body.String(), "progreso_http_request_duration_seconds")
	assert.Equal(t, int32(0), f.registrations.Load())
}

func TestApp_RejectsNonJSONBody(t *testing.T) {
	f := newFakeElectoral(t, `{}`)
	a, err := newApp(testConfig(f), quiet(), prometheus.NewRegistry())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/consultas", strings.NewReader("cedula=V12345678"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestConsultaCommand(t *testing.T) {
	f := newFakeElectoral(t, `{"cedula":"87654321","ha_votado":true}`)
	t.Setenv("LOOKUP_BASE_URL", f.lookup.URL+"/electores")
	t.Setenv("REGISTRATION_BASE_URL", "")

	t.Run("already voted exits zero", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := rootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"consulta", "87654321"})

		require.NoError(t, cmd.Execute())
		var result models.WorkflowResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, models.StateAlreadyVoted, result.State)
	})

	t.Run("invalid input exits non-zero", func(t *testing.T) {
		var out bytes.Buffer
		cmd := rootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"consulta", "X9"})

		err := cmd.Execute()
		var exit exitCodeError
		require.True(t, errors.As(err, &exit))
		assert.Equal(t, 2, exit.code)
		assert.Contains(t, out.String(), `"state": "invalid_input"`)
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(&models.WorkflowResult{State: models.StateRegistered}))
	assert.Equal(t, 0, exitCode(&models.WorkflowResult{State: models.StateRegistrationFailed}))
	assert.Equal(t, 0, exitCode(&models.WorkflowResult{State: models.StateNotFound}))
	assert.Equal(t, 2, exitCode(&models.WorkflowResult{State: models.StateInvalidInput}))
	assert.Equal(t, 3, exitCode(&models.WorkflowResult{State: models.StateLookupError}))
}
