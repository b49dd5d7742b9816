package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"progreso/internal/electoral/models"
	"progreso/pkg/platform/httputil"
	"progreso/pkg/requestcontext"
)

// WorkflowService runs one consultation for a raw identifier.
type WorkflowService interface {
	Process(ctx context.Context, raw string) *models.WorkflowResult
}

// Handler exposes the consultation workflow over HTTP.
type Handler struct {
	service WorkflowService
	logger  *slog.Logger
}

func New(service WorkflowService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/consultas", h.HandleConsulta)
}

// ConsultaRequest is the request body for POST /v1/consultas.
// Format checks happen in the workflow so the response carries the hint.
type ConsultaRequest struct {
	Cedula string `json:"cedula"`
}

// ElectorResponse is the display form of a found record.
type ElectorResponse struct {
	Identifier    string `json:"identifier"`
	Nationality   string `json:"nationality,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	FullSurname   string `json:"full_surname,omitempty"`
	PollingCenter string `json:"polling_center,omitempty"`
	HasVoted      bool   `json:"has_voted"`
}

// RegistrationResponse describes the registration attempt, when one was made.
type RegistrationResponse struct {
	Succeeded         bool   `json:"succeeded"`
	AlreadyRegistered bool   `json:"already_registered"`
	Detail            string `json:"detail,omitempty"`
	StatusCode        int    `json:"status_code,omitempty"`
}

// ConsultaResponse is the response body for every workflow outcome.
type ConsultaResponse struct {
	Identifier   string                `json:"identifier"`
	State        models.State          `json:"state"`
	Succeeded    bool                  `json:"succeeded"`
	ErrorKind    models.ErrorKind      `json:"error_kind,omitempty"`
	Detail       string                `json:"detail,omitempty"`
	Hint         string                `json:"hint,omitempty"`
	Elector      *ElectorResponse      `json:"elector,omitempty"`
	Registration *RegistrationResponse `json:"registration,omitempty"`
	RequestID    string                `json:"request_id,omitempty"`
}

// HandleConsulta handles POST /v1/consultas.
func (h *Handler) HandleConsulta(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[ConsultaRequest](w, r, h.logger)
	if !ok {
		return
	}

	ctx := r.Context()
	result := h.service.Process(ctx, req.Cedula)

	response := toResponse(result)
	response.RequestID = requestcontext.RequestID(ctx)
	httputil.WriteJSON(w, StatusFor(result), response)
}

// StatusFor maps a terminal state to the HTTP status returned to the front end.
// A failed registration still returns 200 because the record was found and is shown.
func StatusFor(result *models.WorkflowResult) int {
	switch result.State {
	case models.StateAlreadyVoted, models.StateRegistered, models.StateRegistrationFailed:
		return http.StatusOK
	case models.StateInvalidInput:
		return http.StatusBadRequest
	case models.StateNotFound:
		return http.StatusNotFound
	case models.StateLookupError:
		if result.ErrorKind == models.KindLookupConnection {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(result *models.WorkflowResult) ConsultaResponse {
	resp := ConsultaResponse{
		Identifier: result.IdentifierEcho,
		State:      result.State,
		Succeeded:  result.Succeeded(),
		ErrorKind:  result.ErrorKind,
		Detail:     result.Detail,
		Hint:       result.Hint,
	}
	if rec := result.Record; rec != nil {
		resp.Elector = &ElectorResponse{
			Identifier:    rec.DisplayIdentifier(),
			Nationality:   rec.Nationality,
			FullName:      rec.FullName(),
			FullSurname:   rec.FullSurname(),
			PollingCenter: rec.PollingCenter,
			HasVoted:      rec.HasVoted,
		}
	}
	if reg := result.Registration; reg != nil {
		resp.Registration = &RegistrationResponse{
			Succeeded:         reg.Succeeded,
			AlreadyRegistered: reg.AlreadyRegistered,
			Detail:            reg.FailureDetail,
			StatusCode:        reg.StatusCode,
		}
	}
	return resp
}
