// Package health provides liveness, readiness and status endpoints.
package health

import (
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"progreso/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc returns nil when the dependency is healthy.
type CheckFunc func() error

// Handler serves the probe endpoints.
type Handler struct {
	startTime   time.Time
	environment string

	mu       sync.RWMutex
	checks   map[string]CheckFunc
	advisory map[string]bool
	features map[string]bool
}

func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
		advisory:    make(map[string]bool),
		features:    make(map[string]bool),
	}
}

// RegisterCheck adds a named readiness check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RegisterAdvisory adds a check that is reported but never fails readiness.
func (h *Handler) RegisterAdvisory(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
	h.advisory[name] = true
}

// SetFeature records whether an optional capability is enabled, for the status endpoint.
func (h *Handler) SetFeature(name string, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.features[name] = enabled
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always answers 200 while the process serves requests.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every check in name order and answers 503 if a non-advisory check fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	advisory := maps.Clone(h.advisory)
	h.mu.RUnlock()

	resp := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		err := checks[name]()
		switch {
		case err == nil:
			resp.Checks[name] = "up"
		case advisory[name]:
			resp.Checks[name] = "degraded: " + err.Error()
		default:
			resp.Checks[name] = "down: " + err.Error()
			resp.Status = "not_ready"
		}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

type StatusResponse struct {
	Status        string          `json:"status"`
	Version       string          `json:"version"`
	Environment   string          `json:"environment"`
	Features      map[string]bool `json:"features,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Timestamp     string          `json:"timestamp"`
}

// HandleStatus reports version, uptime and optional features.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	features := maps.Clone(h.features)
	h.mu.RUnlock()

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		Features:      features,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
