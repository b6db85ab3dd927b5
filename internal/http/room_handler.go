package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/persistence"
)

type roomService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (persistence.Room, error)
	UpdateRoom(ctx context.Context, id string, input application.RoomInput) (persistence.Room, error)
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context, conventionID string) ([]persistence.Room, error)
	DeactivateRoom(ctx context.Context, id string) error
	DeleteRoom(ctx context.Context, id string) error
}

// RoomHandler serves room CRUD endpoints.
type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	room, err := h.service.CreateRoom(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "room_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "room_id", id)
	room, err := h.service.UpdateRoom(r.Context(), id, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	room, err := h.service.GetRoom(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "room_id", id).ErrorContext(r.Context(), "room fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

// List returns rooms, optionally scoped via ?convention_id=.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	conventionID := r.URL.Query().Get("convention_id")
	logger := h.log(r.Context(), "List", "convention_id", conventionID)

	rooms, err := h.service.ListRooms(r.Context(), conventionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: dtos})
}

func (h *RoomHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Deactivate", "room_id", id)
	if err := h.service.DeactivateRoom(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "room deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "room deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "room_id", id)
	if err := h.service.DeleteRoom(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type roomRequest struct {
	Name         string  `json:"name"`
	SquareFeet   int     `json:"square_feet"`
	Capacity     int     `json:"capacity"`
	RoomGroupID  *string `json:"room_group_id"`
	ConventionID *string `json:"convention_id"`
}

func (r roomRequest) toInput() application.RoomInput {
	return application.RoomInput{
		Name:         strings.TrimSpace(r.Name),
		SquareFeet:   r.SquareFeet,
		Capacity:     r.Capacity,
		RoomGroupID:  r.RoomGroupID,
		ConventionID: r.ConventionID,
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SquareFeet   int     `json:"square_feet"`
	Capacity     int     `json:"capacity"`
	RoomGroupID  *string `json:"room_group_id,omitempty"`
	ConventionID *string `json:"convention_id,omitempty"`
	Active       bool    `json:"active"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:           room.ID,
		Name:         room.Name,
		SquareFeet:   room.SquareFeet,
		Capacity:     room.Capacity,
		RoomGroupID:  room.RoomGroupID,
		ConventionID: room.ConventionID,
		Active:       room.Active,
	}
}
