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

// RoomService orchestrates validation and persistence for rooms.
type RoomService struct {
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	// invalidateVerdicts is set by WireVerdictInvalidation. Capacity, active
	// flag and convention binding feed placement checks.
	invalidateVerdicts func(conventionID string)
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom", "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	vErr := validateRoomInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	room = persistence.Room{
		ID:           s.idGenerator(),
		Name:         strings.TrimSpace(input.Name),
		SquareFeet:   input.SquareFeet,
		Capacity:     input.Capacity,
		RoomGroupID:  input.RoomGroupID,
		ConventionID: input.ConventionID,
		Active:       true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err = s.rooms.CreateRoom(ctx, room); err != nil {
		err = mapRepoError(err)
		room = persistence.Room{}
		return
	}
	return
}

// UpdateRoom validates input and updates an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, id string, input RoomInput) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	existing, getErr := s.rooms.GetRoom(ctx, id)
	if getErr != nil {
		err = mapRepoError(getErr)
		return
	}

	vErr := validateRoomInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = existing
	room.Name = strings.TrimSpace(input.Name)
	room.SquareFeet = input.SquareFeet
	room.Capacity = input.Capacity
	room.RoomGroupID = input.RoomGroupID
	room.ConventionID = input.ConventionID
	room.UpdatedAt = s.now()

	if err = s.rooms.UpdateRoom(ctx, room); err != nil {
		err = mapRepoError(err)
		room = persistence.Room{}
		return
	}
	notifyVerdictsStale(s.invalidateVerdicts, roomVerdictScope(existing.ConventionID, room.ConventionID))
	return
}

// roomVerdictScope narrows cache invalidation to one convention when a room
// is, and stays, bound to it. Shared rooms and rebindings clear everything.
func roomVerdictScope(before, after *string) string {
	if before == nil || after == nil || *before != *after {
		return ""
	}
	return *before
}

// GetRoom returns a single room by id.
func (s *RoomService) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if s == nil {
		return persistence.Room{}, fmt.Errorf("RoomService is nil")
	}
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	return room, nil
}

// ListRooms returns rooms ordered by name, optionally scoped to one
// convention.
func (s *RoomService) ListRooms(ctx context.Context, conventionID string) ([]persistence.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	rooms, err := s.rooms.ListRooms(ctx, conventionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name == rooms[j].Name {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Name < rooms[j].Name
	})
	return rooms, nil
}

// DeactivateRoom soft-deletes a room, removing it from active scheduling
// views without breaking historical associations.
func (s *RoomService) DeactivateRoom(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	logger := s.loggerWith(ctx, "DeactivateRoom", "room_id", id)

	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate room", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	room.Active = false
	room.UpdatedAt = s.now()
	if err := s.rooms.UpdateRoom(ctx, room); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate room", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	scope := ""
	if room.ConventionID != nil {
		scope = *room.ConventionID
	}
	notifyVerdictsStale(s.invalidateVerdicts, scope)
	logger.InfoContext(ctx, "room deactivated")
	return nil
}

// DeleteRoom hard-removes a room; association rows referencing it are
// removed by cascade without touching the events themselves.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", id)
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	notifyVerdictsStale(s.invalidateVerdicts, "")
	logger.InfoContext(ctx, "room deleted")
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity must not be negative")
	}
	if input.SquareFeet < 0 {
		vErr.add("square_feet", "square footage must not be negative")
	}

	return vErr
}
