package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"progreso/pkg/platform/httputil"
)

// elector is the wire shape served by the fake lookup service.
type elector struct {
	Cedula       string `json:"cedula"`
	Nacionalidad string `json:"nacionalidad"`
	PNombre      string `json:"pnombre"`
	SNombre      string `json:"snombre,omitempty"`
	PApellido    string `json:"papellido"`
	SApellido    string `json:"sapellido,omitempty"`
	CV           string `json:"cv"`
	HaVotado     bool   `json:"ha_votado"`
}

type voteRequest struct {
	Cedula string `json:"cedula"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Magic identifiers that make the fake misbehave.
const (
	cedulaServerError = "11111111"
	cedulaMalformed   = "22222222"
	cedulaSlow        = "33333333"
)

// seedElectors is the fixed roll. 87654321 has already voted.
var seedElectors = []elector{
	{Cedula: "12345678", Nacionalidad: "V", PNombre: "ANA", SNombre: "MARIA", PApellido: "PEREZ", SApellido: "GOMEZ", CV: "LICEO ANDRES BELLO"},
	{Cedula: "87654321", Nacionalidad: "V", PNombre: "LUIS", PApellido: "RODRIGUEZ", CV: "ESCUELA SIMON RODRIGUEZ", HaVotado: true},
	{Cedula: "8123456", Nacionalidad: "E", PNombre: "MARCO", PApellido: "ROSSI", CV: "UNIDAD EDUCATIVA CARACAS"},
	{Cedula: "123456789", Nacionalidad: "V", PNombre: "CARMEN", SNombre: "ELENA", PApellido: "DIAZ", CV: "COLEGIO LA SALLE"},
}

// electoralServer fakes both the lookup and the registration service over one in-memory roll.
type electoralServer struct {
	token    string
	latency  time.Duration
	slowWait time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	electors map[string]elector
	voted    map[string]bool
}

func newElectoralServer(token string, latency time.Duration, logger *slog.Logger) *electoralServer {
	s := &electoralServer{
		token:    token,
		latency:  latency,
		slowWait: 30 * time.Second,
		logger:   logger,
		electors: make(map[string]elector, len(seedElectors)),
		voted:    make(map[string]bool),
	}
	for _, e := range seedElectors {
		s.electors[e.Cedula] = e
		if e.HaVotado {
			s.voted[e.Cedula] = true
		}
	}
	return s
}

func (s *electoralServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "mock-electoral"})
	})
	r.Get("/electores/{cedula}", s.handleLookup)
	r.Post("/votos", s.handleVote)
	return r
}

func (s *electoralServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	s.simulateLatency()
	cedula := chi.URLParam(r, "cedula")

	switch cedula {
	case cedulaServerError:
		httputil.WriteJSON(w, http.StatusInternalServerError, messageResponse{Message: "database unavailable"})
		return
	case cedulaMalformed:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cedula": "22222222", "ha_votado": `))
		return
	case cedulaSlow:
		select {
		case <-time.After(s.slowWait):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.RLock()
	e, ok := s.electors[cedula]
	voted := s.voted[cedula]
	s.mu.RUnlock()
	if !ok {
		httputil.WriteJSON(w, http.StatusNotFound, messageResponse{Message: "elector no encontrado"})
		return
	}
	e.HaVotado = voted
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (s *electoralServer) handleVote(w http.ResponseWriter, r *http.Request) {
	s.simulateLatency()
	if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
		httputil.WriteJSON(w, http.StatusUnauthorized, messageResponse{Message: "credencial invalida"})
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Cedula) == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, messageResponse{Message: "cedula requerida"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.electors[req.Cedula]; !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, messageResponse{Message: "cedula no inscrita"})
		return
	}
	if s.voted[req.Cedula] {
		httputil.WriteJSON(w, http.StatusConflict, messageResponse{Message: "voto ya registrado"})
		return
	}
	s.voted[req.Cedula] = true
	s.logger.Info("vote recorded", "cedula_suffix", req.Cedula[max(0, len(req.Cedula)-4):])
	httputil.WriteJSON(w, http.StatusCreated, messageResponse{Message: "voto registrado"})
}

func (s *electoralServer) simulateLatency() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}
