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

type trackService interface {
	CreateTrack(ctx context.Context, input application.TrackInput) (persistence.Track, error)
	UpdateTrack(ctx context.Context, id string, input application.TrackUpdateInput) (persistence.Track, error)
	GetTrack(ctx context.Context, id string) (persistence.Track, error)
	ListTracks(ctx context.Context) ([]persistence.Track, error)
	DeactivateTrack(ctx context.Context, id string) error
	DeleteTrack(ctx context.Context, id string) error
}

// TrackHandler serves track CRUD endpoints. The list endpoint exposes only
// name and uid per track; head emails never leave the staff surface.
type TrackHandler struct {
	service   trackService
	responder responder
	logger    *slog.Logger
}

// NewTrackHandler creates a track handler.
func NewTrackHandler(service trackService, logger *slog.Logger) *TrackHandler {
	base := defaultLogger(logger)
	return &TrackHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TrackHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "TrackHandler", operation, attrs...)
}

func (h *TrackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode track request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	track, err := h.service.CreateTrack(r.Context(), application.TrackInput{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		HeadFirstName: strings.TrimSpace(req.HeadFirstName),
		HeadLastName:  strings.TrimSpace(req.HeadLastName),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "track creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("track_id", track.ID).InfoContext(r.Context(), "track created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, trackResponse{Track: toTrackDTO(track)})
}

func (h *TrackHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "track_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode track update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "track_id", id)
	track, err := h.service.UpdateTrack(r.Context(), id, application.TrackUpdateInput{
		Name:          strings.TrimSpace(req.Name),
		HeadFirstName: strings.TrimSpace(req.HeadFirstName),
		HeadLastName:  strings.TrimSpace(req.HeadLastName),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "track update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "track updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, trackResponse{Track: toTrackDTO(track)})
}

func (h *TrackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	track, err := h.service.GetTrack(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "track_id", id).ErrorContext(r.Context(), "track fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, trackResponse{Track: toTrackDTO(track)})
}

// List returns every track as (name, uid) pairs only.
func (h *TrackHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r.Context(), "List")
	tracks, err := h.service.ListTracks(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "track list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	summaries := make([]trackSummaryDTO, 0, len(tracks))
	for _, track := range tracks {
		summaries = append(summaries, trackSummaryDTO{Name: track.Name, UID: track.UID})
	}
	logger.With("result_count", len(summaries)).InfoContext(r.Context(), "tracks listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTracksResponse{Tracks: summaries})
}

func (h *TrackHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Deactivate", "track_id", id)
	if err := h.service.DeactivateTrack(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "track deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "track deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TrackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "track_id", id)
	if err := h.service.DeleteTrack(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "track delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "track deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type createTrackRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	HeadFirstName string `json:"head_first_name"`
	HeadLastName  string `json:"head_last_name"`
}

type updateTrackRequest struct {
	Name          string `json:"name"`
	HeadFirstName string `json:"head_first_name"`
	HeadLastName  string `json:"head_last_name"`
}

type trackResponse struct {
	Track trackDTO `json:"track"`
}

type listTracksResponse struct {
	Tracks []trackSummaryDTO `json:"tracks"`
}

// trackSummaryDTO is the only track shape the list endpoint emits.
type trackSummaryDTO struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

type trackDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	UID           string `json:"uid"`
	Email         string `json:"email"`
	HeadFirstName string `json:"head_first_name,omitempty"`
	HeadLastName  string `json:"head_last_name,omitempty"`
	Active        bool   `json:"active"`
}

func toTrackDTO(track persistence.Track) trackDTO {
	return trackDTO{
		ID:            track.ID,
		Name:          track.Name,
		UID:           track.UID,
		Email:         track.Email,
		HeadFirstName: track.HeadFirstName,
		HeadLastName:  track.HeadLastName,
		Active:        track.Active,
	}
}
