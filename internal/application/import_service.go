package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
)

// ImportService ingests batches of externally sourced event rows, typically
// exported from a registration or survey system. Rows naming a track the
// system does not know are skipped and reported, never failed: a batch with
// one bad row still imports the rest.
type ImportService struct {
	events      persistence.EventRepository
	tracks      persistence.TrackRepository
	conventions persistence.ConventionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewImportService wires dependencies for batch event imports.
func NewImportService(
	events persistence.EventRepository,
	tracks persistence.TrackRepository,
	conventions persistence.ConventionRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *ImportService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ImportService{
		events:      events,
		tracks:      tracks,
		conventions: conventions,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// ImportEvents creates one unscheduled event per importable row. aliases maps
// incoming track spellings to canonical track names and is consulted before
// the track lookup, so legacy exports keep working after a track is renamed.
// Line numbers in the report are 1-based row positions.
func (s *ImportService) ImportEvents(ctx context.Context, conventionID string, rows []ImportRow, aliases map[string]string) (report ImportReport, err error) {
	if s == nil {
		err = fmt.Errorf("ImportService is nil")
		return
	}

	logger := serviceLogger(ctx, s.logger, "ImportService", "ImportEvents",
		"convention_id", conventionID,
		"row_count", len(rows),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to import events", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("created", report.Created, "skipped", len(report.Skipped)).InfoContext(ctx, "events imported")
	}()

	if _, err = s.conventions.GetConvention(ctx, conventionID); err != nil {
		err = mapRepoError(err)
		return
	}

	// Tracks are looked up once per distinct name, not once per row.
	trackIDs := make(map[string]string)

	for i, row := range rows {
		line := i + 1

		trackName := strings.TrimSpace(row.TrackName)
		if alias, ok := aliases[trackName]; ok {
			trackName = alias
		}
		if trackName == "" {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Title: row.Title})
			continue
		}

		trackID, ok := trackIDs[trackName]
		if !ok {
			track, lookupErr := s.tracks.GetTrackByName(ctx, trackName)
			if lookupErr != nil {
				mapped := mapRepoError(lookupErr)
				if errors.Is(mapped, ErrNotFound) {
					report.Skipped = append(report.Skipped, SkippedRow{Line: line, TrackName: trackName, Title: row.Title})
					continue
				}
				err = mapped
				report = ImportReport{}
				return
			}
			trackID = track.ID
			trackIDs[trackName] = trackID
		}

		duration := row.Duration
		if duration < 1 {
			duration = 1
		}

		createdAt := s.now()
		event := persistence.Event{
			ID:              s.idGenerator(),
			Title:           strings.TrimSpace(row.Title),
			Description:     row.Description,
			Active:          true,
			TrackID:         trackID,
			ConventionID:    conventionID,
			Duration:        duration,
			FacilityRequest: row.FacilityRequest,
			CreatedAt:       createdAt,
			UpdatedAt:       createdAt,
		}
		if err = s.events.CreateEvent(ctx, event); err != nil {
			err = mapRepoError(err)
			report = ImportReport{}
			return
		}
		report.Created++
	}
	return
}
