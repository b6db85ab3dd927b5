package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
)

// TrackService orchestrates validation and persistence for tracks.
type TrackService struct {
	tracks      persistence.TrackRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTrackService wires dependencies for track operations.
func NewTrackService(tracks persistence.TrackRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TrackService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TrackService{tracks: tracks, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TrackService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TrackService", operation, attrs...)
}

// CreateTrack persists a new track, deriving the track uid from the email
// local part. Name, uid and email must all be unique.
func (s *TrackService) CreateTrack(ctx context.Context, input TrackInput) (track persistence.Track, err error) {
	if s == nil {
		err = fmt.Errorf("TrackService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTrack", "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create track", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("track_id", track.ID, "track_uid", track.UID).InfoContext(ctx, "track created")
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	uid := DeriveTrackUID(email)
	if uid == "" {
		vErr.add("email", "a contact email with a local part is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	track = persistence.Track{
		ID:            s.idGenerator(),
		Name:          strings.TrimSpace(input.Name),
		UID:           uid,
		Email:         email,
		HeadFirstName: strings.TrimSpace(input.HeadFirstName),
		HeadLastName:  strings.TrimSpace(input.HeadLastName),
		Active:        true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err = s.tracks.CreateTrack(ctx, track); err != nil {
		err = mapRepoError(err)
		track = persistence.Track{}
		return
	}
	return
}

// UpdateTrack applies the mutable track fields. Email and uid are fixed at
// creation and never change here.
func (s *TrackService) UpdateTrack(ctx context.Context, id string, input TrackUpdateInput) (track persistence.Track, err error) {
	if s == nil {
		err = fmt.Errorf("TrackService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateTrack", "track_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update track", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "track updated")
	}()

	existing, getErr := s.tracks.GetTrack(ctx, id)
	if getErr != nil {
		err = mapRepoError(getErr)
		return
	}

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	track = existing
	track.Name = strings.TrimSpace(input.Name)
	track.HeadFirstName = strings.TrimSpace(input.HeadFirstName)
	track.HeadLastName = strings.TrimSpace(input.HeadLastName)
	track.UpdatedAt = s.now()

	if err = s.tracks.UpdateTrack(ctx, track); err != nil {
		err = mapRepoError(err)
		track = persistence.Track{}
		return
	}
	return
}

// GetTrack returns a single track by id.
func (s *TrackService) GetTrack(ctx context.Context, id string) (persistence.Track, error) {
	if s == nil {
		return persistence.Track{}, fmt.Errorf("TrackService is nil")
	}
	track, err := s.tracks.GetTrack(ctx, id)
	if err != nil {
		return persistence.Track{}, mapRepoError(err)
	}
	return track, nil
}

// ListTracks returns all tracks ordered by name.
func (s *TrackService) ListTracks(ctx context.Context) ([]persistence.Track, error) {
	if s == nil {
		return nil, fmt.Errorf("TrackService is nil")
	}
	tracks, err := s.tracks.ListTracks(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Name == tracks[j].Name {
			return tracks[i].ID < tracks[j].ID
		}
		return tracks[i].Name < tracks[j].Name
	})
	return tracks, nil
}

// DeactivateTrack soft-deletes a track.
func (s *TrackService) DeactivateTrack(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("TrackService is nil")
	}
	logger := s.loggerWith(ctx, "DeactivateTrack", "track_id", id)

	track, err := s.tracks.GetTrack(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate track", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	track.Active = false
	track.UpdatedAt = s.now()
	if err := s.tracks.UpdateTrack(ctx, track); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate track", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "track deactivated")
	return nil
}

// DeleteTrack hard-removes a track.
func (s *TrackService) DeleteTrack(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("TrackService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteTrack", "track_id", id)
	if err := s.tracks.DeleteTrack(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete track", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "track deleted")
	return nil
}

// DeriveTrackUID returns the local part of a track contact email, the
// stable identifier the rest of the system refers to the track by. An email
// without a local part yields an empty uid.
func DeriveTrackUID(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return email[:at]
}
