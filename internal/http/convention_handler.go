package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/persistence"
)

type conventionService interface {
	CreateConvention(ctx context.Context, input application.ConventionInput) (persistence.Convention, error)
	UpdateConvention(ctx context.Context, id string, input application.ConventionInput) (persistence.Convention, error)
	GetConvention(ctx context.Context, id string) (persistence.Convention, error)
	ListConventions(ctx context.Context) ([]persistence.Convention, error)
	DeactivateConvention(ctx context.Context, id string) error
	DeleteConvention(ctx context.Context, id string) error
}

// ConventionHandler serves convention CRUD endpoints.
type ConventionHandler struct {
	service   conventionService
	responder responder
	logger    *slog.Logger
}

// NewConventionHandler creates a convention handler.
func NewConventionHandler(service conventionService, logger *slog.Logger) *ConventionHandler {
	base := defaultLogger(logger)
	return &ConventionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ConventionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ConventionHandler", operation, attrs...)
}

func (h *ConventionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req conventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode convention request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	convention, err := h.service.CreateConvention(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "convention creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("convention_id", convention.ID).InfoContext(r.Context(), "convention created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, conventionResponse{Convention: toConventionDTO(convention)})
}

func (h *ConventionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req conventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "convention_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode convention update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "convention_id", id)
	convention, err := h.service.UpdateConvention(r.Context(), id, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "convention update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "convention updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conventionResponse{Convention: toConventionDTO(convention)})
}

func (h *ConventionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	convention, err := h.service.GetConvention(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "convention_id", id).ErrorContext(r.Context(), "convention fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conventionResponse{Convention: toConventionDTO(convention)})
}

func (h *ConventionHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r.Context(), "List")
	conventions, err := h.service.ListConventions(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "convention list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]conventionDTO, 0, len(conventions))
	for _, convention := range conventions {
		dtos = append(dtos, toConventionDTO(convention))
	}
	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "conventions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listConventionsResponse{Conventions: dtos})
}

func (h *ConventionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Deactivate", "convention_id", id)
	if err := h.service.DeactivateConvention(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "convention deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "convention deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ConventionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "convention_id", id)
	if err := h.service.DeleteConvention(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "convention delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "convention deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type conventionRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	StartAt             string `json:"start_at"`
	EndAt               string `json:"end_at"`
	DateFormat          string `json:"date_format"`
	DatetimeFormat      string `json:"datetime_format"`
	URL                 string `json:"url"`
	TimeslotDurationMin int    `json:"timeslot_duration_minutes"`
	NumberOfTimeslots   int    `json:"number_of_timeslots"`
}

func (r conventionRequest) toInput() application.ConventionInput {
	input := application.ConventionInput{
		Name:              strings.TrimSpace(r.Name),
		Description:       r.Description,
		DateFormat:        r.DateFormat,
		DatetimeFormat:    r.DatetimeFormat,
		URL:               r.URL,
		TimeslotDuration:  time.Duration(r.TimeslotDurationMin) * time.Minute,
		NumberOfTimeslots: r.NumberOfTimeslots,
	}
	if t, err := time.Parse(time.RFC3339, r.StartAt); err == nil {
		input.StartAt = t
	}
	if t, err := time.Parse(time.RFC3339, r.EndAt); err == nil {
		input.EndAt = t
	}
	return input
}

type conventionResponse struct {
	Convention conventionDTO `json:"convention"`
}

type listConventionsResponse struct {
	Conventions []conventionDTO `json:"conventions"`
}

type conventionDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	StartAt             string `json:"start_at"`
	EndAt               string `json:"end_at"`
	DateFormat          string `json:"date_format,omitempty"`
	DatetimeFormat      string `json:"datetime_format,omitempty"`
	URL                 string `json:"url,omitempty"`
	TimeslotDurationMin int    `json:"timeslot_duration_minutes"`
	NumberOfTimeslots   int    `json:"number_of_timeslots"`
	Active              bool   `json:"active"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func toConventionDTO(convention persistence.Convention) conventionDTO {
	return conventionDTO{
		ID:                  convention.ID,
		Name:                convention.Name,
		Description:         convention.Description,
		StartAt:             convention.StartAt.UTC().Format(time.RFC3339),
		EndAt:               convention.EndAt.UTC().Format(time.RFC3339),
		DateFormat:          convention.DateFormat,
		DatetimeFormat:      convention.DatetimeFormat,
		URL:                 convention.URL,
		TimeslotDurationMin: int(convention.TimeslotDuration.Minutes()),
		NumberOfTimeslots:   convention.NumberOfTimeslots,
		Active:              convention.Active,
		CreatedAt:           convention.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           convention.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
