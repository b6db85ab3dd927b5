package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
	"github.com/example/convention-scheduler/internal/timegrid"
)

// ConventionService orchestrates validation and persistence for conventions.
type ConventionService struct {
	conventions persistence.ConventionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewConventionService wires dependencies for convention operations.
func NewConventionService(conventions persistence.ConventionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ConventionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ConventionService{conventions: conventions, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ConventionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ConventionService", operation, attrs...)
}

// CreateConvention validates the grid settings and persists a new convention.
func (s *ConventionService) CreateConvention(ctx context.Context, input ConventionInput) (convention persistence.Convention, err error) {
	if s == nil {
		err = fmt.Errorf("ConventionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateConvention", "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create convention", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("convention_id", convention.ID).InfoContext(ctx, "convention created")
	}()

	vErr := validateConventionInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	convention = persistence.Convention{
		ID:                s.idGenerator(),
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		StartAt:           input.StartAt,
		EndAt:             input.EndAt,
		DateFormat:        strings.TrimSpace(input.DateFormat),
		DatetimeFormat:    strings.TrimSpace(input.DatetimeFormat),
		URL:               strings.TrimSpace(input.URL),
		TimeslotDuration:  input.TimeslotDuration,
		NumberOfTimeslots: input.NumberOfTimeslots,
		Active:            true,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}

	if err = s.conventions.CreateConvention(ctx, convention); err != nil {
		err = mapRepoError(err)
		convention = persistence.Convention{}
		return
	}
	return
}

// UpdateConvention validates and applies changes to an existing convention.
func (s *ConventionService) UpdateConvention(ctx context.Context, id string, input ConventionInput) (convention persistence.Convention, err error) {
	if s == nil {
		err = fmt.Errorf("ConventionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateConvention", "convention_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update convention", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "convention updated")
	}()

	existing, getErr := s.conventions.GetConvention(ctx, id)
	if getErr != nil {
		err = mapRepoError(getErr)
		return
	}

	vErr := validateConventionInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	convention = existing
	convention.Name = strings.TrimSpace(input.Name)
	convention.Description = input.Description
	convention.StartAt = input.StartAt
	convention.EndAt = input.EndAt
	convention.DateFormat = strings.TrimSpace(input.DateFormat)
	convention.DatetimeFormat = strings.TrimSpace(input.DatetimeFormat)
	convention.URL = strings.TrimSpace(input.URL)
	convention.TimeslotDuration = input.TimeslotDuration
	convention.NumberOfTimeslots = input.NumberOfTimeslots
	convention.UpdatedAt = s.now()

	if err = s.conventions.UpdateConvention(ctx, convention); err != nil {
		err = mapRepoError(err)
		convention = persistence.Convention{}
		return
	}
	return
}

// GetConvention returns a single convention by id.
func (s *ConventionService) GetConvention(ctx context.Context, id string) (persistence.Convention, error) {
	if s == nil {
		return persistence.Convention{}, fmt.Errorf("ConventionService is nil")
	}
	convention, err := s.conventions.GetConvention(ctx, id)
	if err != nil {
		return persistence.Convention{}, mapRepoError(err)
	}
	return convention, nil
}

// ListConventions returns all conventions ordered by start instant.
func (s *ConventionService) ListConventions(ctx context.Context) ([]persistence.Convention, error) {
	if s == nil {
		return nil, fmt.Errorf("ConventionService is nil")
	}
	conventions, err := s.conventions.ListConventions(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(conventions, func(i, j int) bool {
		if conventions[i].StartAt.Equal(conventions[j].StartAt) {
			return conventions[i].ID < conventions[j].ID
		}
		return conventions[i].StartAt.Before(conventions[j].StartAt)
	})
	return conventions, nil
}

// DeactivateConvention soft-deletes a convention, hiding it from active
// scheduling views while preserving its history.
func (s *ConventionService) DeactivateConvention(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("ConventionService is nil")
	}
	logger := s.loggerWith(ctx, "DeactivateConvention", "convention_id", id)

	convention, err := s.conventions.GetConvention(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate convention", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	convention.Active = false
	convention.UpdatedAt = s.now()
	if err := s.conventions.UpdateConvention(ctx, convention); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate convention", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "convention deactivated")
	return nil
}

// DeleteConvention hard-removes a convention and cascades to its rooms,
// timeslots and events.
func (s *ConventionService) DeleteConvention(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("ConventionService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteConvention", "convention_id", id)
	if err := s.conventions.DeleteConvention(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete convention", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "convention deleted")
	return nil
}

func validateConventionInput(input ConventionInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.StartAt.IsZero() {
		vErr.add("start_at", "start instant is required")
	}
	if input.EndAt.IsZero() {
		vErr.add("end_at", "end instant is required")
	}
	if !input.StartAt.IsZero() && !input.EndAt.IsZero() && !input.StartAt.Before(input.EndAt) {
		vErr.add("time", "start must be before end")
	}
	if input.TimeslotDuration <= 0 {
		vErr.add("timeslot_duration", "timeslot duration must be positive")
	}
	if input.NumberOfTimeslots < 1 {
		vErr.add("number_of_timeslots", "at least one timeslot is required")
	}
	if layout := strings.TrimSpace(input.DatetimeFormat); layout != "" {
		if err := timegrid.ValidateLayout(layout); err != nil {
			vErr.add("datetime_format", "must be a valid datetime layout")
		}
	}

	return vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("references", "related records are missing")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("fields", "a stored constraint rejected the change")
		return vErr
	}
	return err
}
