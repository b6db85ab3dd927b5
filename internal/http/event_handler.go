package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/persistence"
	"github.com/example/convention-scheduler/internal/projection"
	"github.com/example/convention-scheduler/internal/scheduler"
)

type eventService interface {
	CreateEvent(ctx context.Context, input application.EventInput) (persistence.Event, error)
	UpdateEvent(ctx context.Context, id string, input application.EventInput) (persistence.Event, error)
	GetEvent(ctx context.Context, id string) (persistence.Event, error)
	ListEvents(ctx context.Context, filter application.EventFilter) ([]persistence.Event, error)
	DeactivateEvent(ctx context.Context, id string) error
	DeleteEvent(ctx context.Context, id string) error

	CheckPlacement(ctx context.Context, placement application.Placement) (application.Verdict, error)
	Assign(ctx context.Context, placement application.Placement) error
	CheckAndAssign(ctx context.Context, placement application.Placement) (application.Verdict, error)
	Unassign(ctx context.Context, eventID string) error
	ScheduleStatus(ctx context.Context, eventID string) (scheduler.Status, error)
	ProjectionData(ctx context.Context, eventID string) (projection.EventData, error)
}

// EventHandler serves event CRUD, placement and projection endpoints.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

// NewEventHandler creates an event handler.
func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	event, err := h.service.CreateEvent(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "event creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("event_id", event.ID).InfoContext(r.Context(), "event created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: toEventDTO(event)})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "event_id", id)
	event, err := h.service.UpdateEvent(r.Context(), id, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "event_id", id).ErrorContext(r.Context(), "event fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// List returns events filtered by the convention_id, track_id, room_id,
// presenter_id and active query parameters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := application.EventFilter{
		ConventionID: query.Get("convention_id"),
		TrackID:      query.Get("track_id"),
		RoomID:       query.Get("room_id"),
		PresenterID:  query.Get("presenter_id"),
		ActiveOnly:   query.Get("active") == "true",
	}

	logger := h.log(r.Context(), "List", "convention_id", filter.ConventionID)
	events, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "event list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toEventDTO(event))
	}
	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: dtos})
}

func (h *EventHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Deactivate", "event_id", id)
	if err := h.service.DeactivateEvent(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "event deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "event deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "event_id", id)
	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "event delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CheckPlacement evaluates a candidate placement without changing anything.
// The verdict always comes back 200; a failing check is data, not an error.
func (h *EventHandler) CheckPlacement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CheckPlacement", "event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode placement request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CheckPlacement", "event_id", id, "room_id", req.RoomID, "start_index", req.StartIndex)
	verdict, err := h.service.CheckPlacement(r.Context(), application.Placement{
		EventID:    id,
		RoomID:     req.RoomID,
		StartIndex: req.StartIndex,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "placement check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVerdictDTO(verdict))
}

// AssignPlacement checks and assigns atomically. A failing verdict comes back
// as 409 with the violations; the assignment is not applied.
func (h *EventHandler) AssignPlacement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AssignPlacement", "event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode placement request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	placement := application.Placement{EventID: id, RoomID: req.RoomID, StartIndex: req.StartIndex}
	logger := h.log(r.Context(), "AssignPlacement", "event_id", id, "room_id", req.RoomID, "start_index", req.StartIndex)

	if req.Force {
		// Batch tooling may place events provisionally and validate later.
		if err := h.service.Assign(r.Context(), placement); err != nil {
			logger.ErrorContext(r.Context(), "forced assignment failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		logger.InfoContext(r.Context(), "event assigned without check")
		h.responder.writeJSON(r.Context(), w, http.StatusOK, toVerdictDTO(application.Verdict{Pass: true}))
		return
	}

	verdict, err := h.service.CheckAndAssign(r.Context(), placement)
	if err != nil {
		logger.ErrorContext(r.Context(), "assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !verdict.Pass {
		logger.With("violation_count", len(verdict.Violations)).InfoContext(r.Context(), "assignment rejected")
		h.responder.writeJSON(r.Context(), w, http.StatusConflict, toVerdictDTO(verdict))
		return
	}

	logger.InfoContext(r.Context(), "event assigned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVerdictDTO(verdict))
}

func (h *EventHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Unassign", "event_id", id)
	if err := h.service.Unassign(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "unassign failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "event unassigned")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Status reports the event's derived scheduling status.
func (h *EventHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status, err := h.service.ScheduleStatus(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Status", "event_id", id).ErrorContext(r.Context(), "status lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": string(status)})
}

// Projection renders the event's public or internal view, selected by the
// view query parameter (public is the default).
func (h *EventHandler) Projection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view := strings.ToLower(r.URL.Query().Get("view"))
	if view == "" {
		view = "public"
	}

	logger := h.log(r.Context(), "Projection", "event_id", id, "view", view)

	data, err := h.service.ProjectionData(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "projection data lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	switch view {
	case "public":
		rendered, err := projection.Public(data)
		if err != nil {
			logger.ErrorContext(r.Context(), "projection failed", "error", err)
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, rendered)
	case "internal":
		rendered, err := projection.Internal(data)
		if err != nil {
			logger.ErrorContext(r.Context(), "projection failed", "error", err)
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, rendered)
	default:
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnknownView)
	}
}

var errUnknownView = errors.New("the view parameter must be public or internal")

type eventRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Comments        string   `json:"comments"`
	TrackID         string   `json:"track_id"`
	EventTypeID     *string  `json:"event_type_id"`
	ConventionID    string   `json:"convention_id"`
	Duration        int      `json:"duration"`
	Fixed           bool     `json:"fixed"`
	Players         int      `json:"players"`
	RoundTables     int      `json:"round_tables"`
	LongTables      int      `json:"long_tables"`
	FacilityRequest string   `json:"facility_request"`
	ResourceIDs     []string `json:"resource_ids"`
	PresenterIDs    []string `json:"presenter_ids"`
	SuitableRoomIDs []string `json:"suitable_room_ids"`
}

func (r eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:           strings.TrimSpace(r.Title),
		Description:     r.Description,
		Comments:        r.Comments,
		TrackID:         r.TrackID,
		EventTypeID:     r.EventTypeID,
		ConventionID:    r.ConventionID,
		Duration:        r.Duration,
		Fixed:           r.Fixed,
		Players:         r.Players,
		RoundTables:     r.RoundTables,
		LongTables:      r.LongTables,
		FacilityRequest: r.FacilityRequest,
		ResourceIDs:     r.ResourceIDs,
		PresenterIDs:    r.PresenterIDs,
		SuitableRoomIDs: r.SuitableRoomIDs,
	}
}

type placementRequest struct {
	RoomID     string `json:"room_id"`
	StartIndex int    `json:"start_index"`
	// Force skips the conflict check, for batch placement tooling.
	Force bool `json:"force,omitempty"`
}

type eventResponse struct {
	Event eventDTO `json:"event"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}

type eventDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Comments        string   `json:"comments,omitempty"`
	Active          bool     `json:"active"`
	TrackID         string   `json:"track_id"`
	EventTypeID     *string  `json:"event_type_id,omitempty"`
	ConventionID    string   `json:"convention_id"`
	StartTimeslotID *string  `json:"start_timeslot_id,omitempty"`
	Duration        int      `json:"duration"`
	Fixed           bool     `json:"fixed"`
	Players         int      `json:"players"`
	RoundTables     int      `json:"round_tables"`
	LongTables      int      `json:"long_tables"`
	FacilityRequest string   `json:"facility_request,omitempty"`
	RoomIDs         []string `json:"room_ids,omitempty"`
	ResourceIDs     []string `json:"resource_ids,omitempty"`
	PresenterIDs    []string `json:"presenter_ids,omitempty"`
	SuitableRoomIDs []string `json:"suitable_room_ids,omitempty"`
}

func toEventDTO(event persistence.Event) eventDTO {
	return eventDTO{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Comments:        event.Comments,
		Active:          event.Active,
		TrackID:         event.TrackID,
		EventTypeID:     event.EventTypeID,
		ConventionID:    event.ConventionID,
		StartTimeslotID: event.StartTimeslotID,
		Duration:        event.Duration,
		Fixed:           event.Fixed,
		Players:         event.Players,
		RoundTables:     event.RoundTables,
		LongTables:      event.LongTables,
		FacilityRequest: event.FacilityRequest,
		RoomIDs:         event.RoomIDs,
		ResourceIDs:     event.ResourceIDs,
		PresenterIDs:    event.PresenterIDs,
		SuitableRoomIDs: event.SuitableRoomIDs,
	}
}

type verdictDTO struct {
	Pass       bool           `json:"pass"`
	Violations []violationDTO `json:"violations,omitempty"`
}

type violationDTO struct {
	Kind        string `json:"kind"`
	WithEventID string `json:"with_event_id,omitempty"`
	PresenterID string `json:"presenter_id,omitempty"`
	ResourceID  string `json:"resource_id,omitempty"`
	SlotIndex   int    `json:"slot_index,omitempty"`
}

func toVerdictDTO(verdict application.Verdict) verdictDTO {
	out := verdictDTO{Pass: verdict.Pass}
	for _, violation := range verdict.Violations {
		out.Violations = append(out.Violations, violationDTO{
			Kind:        violation.Kind,
			WithEventID: violation.WithEventID,
			PresenterID: violation.PresenterID,
			ResourceID:  violation.ResourceID,
			SlotIndex:   violation.SlotIndex,
		})
	}
	return out
}
