package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/convention-scheduler/internal/application"
)

type importService interface {
	ImportEvents(ctx context.Context, conventionID string, rows []application.ImportRow, aliases map[string]string) (application.ImportReport, error)
}

// ImportHandler serves batch event imports.
type ImportHandler struct {
	service   importService
	responder responder
	logger    *slog.Logger
}

// NewImportHandler creates an import handler.
func NewImportHandler(service importService, logger *slog.Logger) *ImportHandler {
	base := defaultLogger(logger)
	return &ImportHandler{service: service, responder: newResponder(base), logger: base}
}

// ImportEvents ingests a batch of event rows for one convention. Rows whose
// track cannot be resolved are reported as skipped, not failed.
func (h *ImportHandler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlerLogger(r.Context(), h.logger, "ImportHandler", "ImportEvents", "error_kind", "bad_request").
			ErrorContext(r.Context(), "failed to decode import request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "ImportHandler", "ImportEvents",
		"convention_id", req.ConventionID, "row_count", len(req.Rows))

	rows := make([]application.ImportRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, application.ImportRow{
			Title:           row.Title,
			Description:     row.Description,
			TrackName:       row.TrackName,
			Duration:        row.Duration,
			FacilityRequest: row.FacilityRequest,
		})
	}

	report, err := h.service.ImportEvents(r.Context(), req.ConventionID, rows, req.TrackAliases)
	if err != nil {
		logger.ErrorContext(r.Context(), "import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("created", report.Created, "skipped", len(report.Skipped)).InfoContext(r.Context(), "import completed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toImportReportDTO(report))
}

type importRequest struct {
	ConventionID string            `json:"convention_id"`
	Rows         []importRowDTO    `json:"rows"`
	TrackAliases map[string]string `json:"track_aliases,omitempty"`
}

type importRowDTO struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	TrackName       string `json:"track_name"`
	Duration        int    `json:"duration"`
	FacilityRequest string `json:"facility_request,omitempty"`
}

type importReportDTO struct {
	Created int             `json:"created"`
	Skipped []skippedRowDTO `json:"skipped"`
}

type skippedRowDTO struct {
	Line      int    `json:"line"`
	TrackName string `json:"track_name"`
	Title     string `json:"title"`
}

func toImportReportDTO(report application.ImportReport) importReportDTO {
	out := importReportDTO{Created: report.Created, Skipped: make([]skippedRowDTO, 0, len(report.Skipped))}
	for _, skipped := range report.Skipped {
		out.Skipped = append(out.Skipped, skippedRowDTO{
			Line:      skipped.Line,
			TrackName: skipped.TrackName,
			Title:     skipped.Title,
		})
	}
	return out
}
