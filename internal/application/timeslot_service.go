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

// TimeslotService manages a convention's timeslot sequence and the
// room_availability relation.
type TimeslotService struct {
	timeslots   persistence.TimeslotRepository
	conventions persistence.ConventionRepository
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	// invalidateVerdicts is set by WireVerdictInvalidation. Availability and
	// active-flag changes feed placement checks.
	invalidateVerdicts func(conventionID string)
}

// NewTimeslotService wires dependencies for timeslot operations.
func NewTimeslotService(
	timeslots persistence.TimeslotRepository,
	conventions persistence.ConventionRepository,
	rooms persistence.RoomRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *TimeslotService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimeslotService{
		timeslots:   timeslots,
		conventions: conventions,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TimeslotService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimeslotService", operation, attrs...)
}

// CreateTimeslot persists a new timeslot. The index must be unique within
// its convention and inside the convention's slot range.
func (s *TimeslotService) CreateTimeslot(ctx context.Context, input TimeslotInput) (timeslot persistence.Timeslot, err error) {
	if s == nil {
		err = fmt.Errorf("TimeslotService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTimeslot", "convention_id", input.ConventionID, "index", input.Index)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create timeslot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("timeslot_id", timeslot.ID).InfoContext(ctx, "timeslot created")
	}()

	convention, getErr := s.conventions.GetConvention(ctx, input.ConventionID)
	if getErr != nil {
		err = mapRepoError(getErr)
		return
	}

	vErr := &ValidationError{}
	if input.Index < 0 || input.Index >= convention.NumberOfTimeslots {
		vErr.add("index", fmt.Sprintf("index must be in [0, %d)", convention.NumberOfTimeslots))
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	timeslot = persistence.Timeslot{
		ID:           s.idGenerator(),
		Index:        input.Index,
		Name:         strings.TrimSpace(input.Name),
		ConventionID: input.ConventionID,
		Active:       true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err = s.timeslots.CreateTimeslot(ctx, timeslot); err != nil {
		err = mapRepoError(err)
		timeslot = persistence.Timeslot{}
		return
	}
	return
}

// PopulateGrid creates one timeslot per grid index for a convention,
// skipping indexes that already exist. Returns the created timeslots.
func (s *TimeslotService) PopulateGrid(ctx context.Context, conventionID string) ([]persistence.Timeslot, error) {
	if s == nil {
		return nil, fmt.Errorf("TimeslotService is nil")
	}
	logger := s.loggerWith(ctx, "PopulateGrid", "convention_id", conventionID)

	convention, err := s.conventions.GetConvention(ctx, conventionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	existing, err := s.timeslots.ListTimeslots(ctx, conventionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	taken := make(map[int]bool, len(existing))
	for _, timeslot := range existing {
		taken[timeslot.Index] = true
	}

	createdAt := s.now()
	var created []persistence.Timeslot
	for index := 0; index < convention.NumberOfTimeslots; index++ {
		if taken[index] {
			continue
		}
		timeslot := persistence.Timeslot{
			ID:           s.idGenerator(),
			Index:        index,
			ConventionID: conventionID,
			Active:       true,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		}
		if err := s.timeslots.CreateTimeslot(ctx, timeslot); err != nil {
			return created, mapRepoError(err)
		}
		created = append(created, timeslot)
	}
	logger.With("created_count", len(created)).InfoContext(ctx, "grid populated")
	return created, nil
}

// UpdateTimeslot applies display name, rsvp counter and active flag changes.
func (s *TimeslotService) UpdateTimeslot(ctx context.Context, id string, name string, rsvpConflicts int, active bool) (persistence.Timeslot, error) {
	if s == nil {
		return persistence.Timeslot{}, fmt.Errorf("TimeslotService is nil")
	}
	timeslot, err := s.timeslots.GetTimeslot(ctx, id)
	if err != nil {
		return persistence.Timeslot{}, mapRepoError(err)
	}
	timeslot.Name = strings.TrimSpace(name)
	timeslot.RSVPConflicts = rsvpConflicts
	timeslot.Active = active
	timeslot.UpdatedAt = s.now()
	if err := s.timeslots.UpdateTimeslot(ctx, timeslot); err != nil {
		return persistence.Timeslot{}, mapRepoError(err)
	}
	notifyVerdictsStale(s.invalidateVerdicts, timeslot.ConventionID)
	return timeslot, nil
}

// ListTimeslots returns a convention's timeslots ordered by index.
func (s *TimeslotService) ListTimeslots(ctx context.Context, conventionID string) ([]persistence.Timeslot, error) {
	if s == nil {
		return nil, fmt.Errorf("TimeslotService is nil")
	}
	timeslots, err := s.timeslots.ListTimeslots(ctx, conventionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(timeslots, func(i, j int) bool { return timeslots[i].Index < timeslots[j].Index })
	return timeslots, nil
}

// DeleteTimeslot hard-removes a timeslot and its availability rows.
func (s *TimeslotService) DeleteTimeslot(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("TimeslotService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteTimeslot", "timeslot_id", id)

	conventionID := ""
	if timeslot, err := s.timeslots.GetTimeslot(ctx, id); err == nil {
		conventionID = timeslot.ConventionID
	}

	if err := s.timeslots.DeleteTimeslot(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete timeslot", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	notifyVerdictsStale(s.invalidateVerdicts, conventionID)
	logger.InfoContext(ctx, "timeslot deleted")
	return nil
}

// SetRoomAvailability declares or retracts that a room is bookable during a
// timeslot.
func (s *TimeslotService) SetRoomAvailability(ctx context.Context, timeslotID, roomID string, available bool) error {
	if s == nil {
		return fmt.Errorf("TimeslotService is nil")
	}
	logger := s.loggerWith(ctx, "SetRoomAvailability", "timeslot_id", timeslotID, "room_id", roomID, "available", available)

	timeslot, err := s.timeslots.GetTimeslot(ctx, timeslotID)
	if err != nil {
		return mapRepoError(err)
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return mapRepoError(err)
	}

	if err := s.timeslots.SetRoomAvailability(ctx, timeslotID, roomID, available); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to set room availability", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	notifyVerdictsStale(s.invalidateVerdicts, timeslot.ConventionID)
	logger.InfoContext(ctx, "room availability updated")
	return nil
}

// AvailableRooms returns the rooms bookable during a timeslot, excluding
// rooms and timeslots that have been deactivated.
func (s *TimeslotService) AvailableRooms(ctx context.Context, timeslotID string) ([]persistence.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("TimeslotService is nil")
	}
	timeslot, err := s.timeslots.GetTimeslot(ctx, timeslotID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !timeslot.Active {
		return nil, nil
	}

	roomIDs, err := s.timeslots.AvailableRoomIDs(ctx, timeslotID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	rooms := make([]persistence.Room, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, err := s.rooms.GetRoom(ctx, roomID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		if !room.Active {
			continue
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}
