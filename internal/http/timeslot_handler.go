package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/persistence"
)

type timeslotService interface {
	CreateTimeslot(ctx context.Context, input application.TimeslotInput) (persistence.Timeslot, error)
	PopulateGrid(ctx context.Context, conventionID string) ([]persistence.Timeslot, error)
	UpdateTimeslot(ctx context.Context, id string, name string, rsvpConflicts int, active bool) (persistence.Timeslot, error)
	ListTimeslots(ctx context.Context, conventionID string) ([]persistence.Timeslot, error)
	DeleteTimeslot(ctx context.Context, id string) error
	SetRoomAvailability(ctx context.Context, timeslotID, roomID string, available bool) error
	AvailableRooms(ctx context.Context, timeslotID string) ([]persistence.Room, error)
}

// TimeslotHandler serves timeslot and room-availability endpoints.
type TimeslotHandler struct {
	service   timeslotService
	responder responder
	logger    *slog.Logger
}

// NewTimeslotHandler creates a timeslot handler.
func NewTimeslotHandler(service timeslotService, logger *slog.Logger) *TimeslotHandler {
	base := defaultLogger(logger)
	return &TimeslotHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimeslotHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "TimeslotHandler", operation, attrs...)
}

func (h *TimeslotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req timeslotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode timeslot request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "convention_id", req.ConventionID)
	timeslot, err := h.service.CreateTimeslot(r.Context(), application.TimeslotInput{
		Index:        req.Index,
		Name:         req.Name,
		ConventionID: req.ConventionID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "timeslot creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("timeslot_id", timeslot.ID).InfoContext(r.Context(), "timeslot created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, timeslotResponse{Timeslot: toTimeslotDTO(timeslot)})
}

// PopulateGrid fills in every missing slot index of a convention's grid.
func (h *TimeslotHandler) PopulateGrid(w http.ResponseWriter, r *http.Request) {
	conventionID := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "PopulateGrid", "convention_id", conventionID)

	timeslots, err := h.service.PopulateGrid(r.Context(), conventionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "grid population failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("timeslot_count", len(timeslots)).InfoContext(r.Context(), "grid populated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTimeslotsResponse{Timeslots: toTimeslotDTOs(timeslots)})
}

func (h *TimeslotHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTimeslotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "timeslot_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode timeslot update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "timeslot_id", id)
	timeslot, err := h.service.UpdateTimeslot(r.Context(), id, req.Name, req.RSVPConflicts, req.Active)
	if err != nil {
		logger.ErrorContext(r.Context(), "timeslot update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "timeslot updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, timeslotResponse{Timeslot: toTimeslotDTO(timeslot)})
}

// List returns a convention's timeslots ordered by index.
func (h *TimeslotHandler) List(w http.ResponseWriter, r *http.Request) {
	conventionID := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "List", "convention_id", conventionID)

	timeslots, err := h.service.ListTimeslots(r.Context(), conventionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "timeslot list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(timeslots)).InfoContext(r.Context(), "timeslots listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTimeslotsResponse{Timeslots: toTimeslotDTOs(timeslots)})
}

func (h *TimeslotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "timeslot_id", id)
	if err := h.service.DeleteTimeslot(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "timeslot delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "timeslot deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// SetRoomAvailability marks or clears a room as bookable in a timeslot.
func (h *TimeslotHandler) SetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	timeslotID, roomID := vars["id"], vars["roomID"]

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetRoomAvailability", "timeslot_id", timeslotID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode availability request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetRoomAvailability", "timeslot_id", timeslotID, "room_id", roomID, "available", req.Available)
	if err := h.service.SetRoomAvailability(r.Context(), timeslotID, roomID, req.Available); err != nil {
		logger.ErrorContext(r.Context(), "availability change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "availability changed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// AvailableRooms returns the active rooms bookable in a timeslot.
func (h *TimeslotHandler) AvailableRooms(w http.ResponseWriter, r *http.Request) {
	timeslotID := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "AvailableRooms", "timeslot_id", timeslotID)

	rooms, err := h.service.AvailableRooms(r.Context(), timeslotID)
	if err != nil {
		logger.ErrorContext(r.Context(), "available rooms lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "available rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: dtos})
}

type timeslotRequest struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	ConventionID string `json:"convention_id"`
}

type updateTimeslotRequest struct {
	Name          string `json:"name"`
	RSVPConflicts int    `json:"rsvp_conflicts"`
	Active        bool   `json:"active"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

type timeslotResponse struct {
	Timeslot timeslotDTO `json:"timeslot"`
}

type listTimeslotsResponse struct {
	Timeslots []timeslotDTO `json:"timeslots"`
}

type timeslotDTO struct {
	ID            string `json:"id"`
	Index         int    `json:"index"`
	Name          string `json:"name,omitempty"`
	ConventionID  string `json:"convention_id"`
	RSVPConflicts int    `json:"rsvp_conflicts"`
	Active        bool   `json:"active"`
}

func toTimeslotDTO(timeslot persistence.Timeslot) timeslotDTO {
	return timeslotDTO{
		ID:            timeslot.ID,
		Index:         timeslot.Index,
		Name:          timeslot.Name,
		ConventionID:  timeslot.ConventionID,
		RSVPConflicts: timeslot.RSVPConflicts,
		Active:        timeslot.Active,
	}
}

func toTimeslotDTOs(timeslots []persistence.Timeslot) []timeslotDTO {
	out := make([]timeslotDTO, 0, len(timeslots))
	for _, timeslot := range timeslots {
		out = append(out, toTimeslotDTO(timeslot))
	}
	return out
}
