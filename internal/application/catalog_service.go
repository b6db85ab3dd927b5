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

// CatalogService manages the convention-wide reference entities: room
// groups, resources, presenters and event types. These share a plain CRUD
// shape with no scheduling logic of their own.
type CatalogService struct {
	roomGroups  persistence.RoomGroupRepository
	resources   persistence.ResourceRepository
	presenters  persistence.PresenterRepository
	eventTypes  persistence.EventTypeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	// invalidateVerdicts is set by WireVerdictInvalidation. The exclusive
	// and active flags on resources feed placement checks; resources are
	// shared across conventions, so mutations always clear the whole cache.
	invalidateVerdicts func(conventionID string)
}

// NewCatalogService wires dependencies for the catalog entities.
func NewCatalogService(
	roomGroups persistence.RoomGroupRepository,
	resources persistence.ResourceRepository,
	presenters persistence.PresenterRepository,
	eventTypes persistence.EventTypeRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		roomGroups:  roomGroups,
		resources:   resources,
		presenters:  presenters,
		eventTypes:  eventTypes,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// CreateRoomGroup persists a new room group.
func (s *CatalogService) CreateRoomGroup(ctx context.Context, input RoomGroupInput) (persistence.RoomGroup, error) {
	if s == nil {
		return persistence.RoomGroup{}, fmt.Errorf("CatalogService is nil")
	}
	logger := s.loggerWith(ctx, "CreateRoomGroup", "name", input.Name)

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		logger.ErrorContext(ctx, "failed to create room group", "error", vErr, "error_kind", ErrorKind(vErr))
		return persistence.RoomGroup{}, vErr
	}

	createdAt := s.now()
	group := persistence.RoomGroup{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.roomGroups.CreateRoomGroup(ctx, group); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create room group", "error", err, "error_kind", ErrorKind(err))
		return persistence.RoomGroup{}, err
	}
	logger.With("room_group_id", group.ID).InfoContext(ctx, "room group created")
	return group, nil
}

// ListRoomGroups returns all room groups ordered by name.
func (s *CatalogService) ListRoomGroups(ctx context.Context) ([]persistence.RoomGroup, error) {
	groups, err := s.roomGroups.ListRoomGroups(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// DeleteRoomGroup hard-removes a room group; member rooms keep existing
// with their group reference cleared by the storage layer.
func (s *CatalogService) DeleteRoomGroup(ctx context.Context, id string) error {
	if err := s.roomGroups.DeleteRoomGroup(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// CreateResource persists a new resource. Resource names are unique.
func (s *CatalogService) CreateResource(ctx context.Context, input ResourceInput) (persistence.Resource, error) {
	if s == nil {
		return persistence.Resource{}, fmt.Errorf("CatalogService is nil")
	}
	logger := s.loggerWith(ctx, "CreateResource", "name", input.Name)

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		logger.ErrorContext(ctx, "failed to create resource", "error", vErr, "error_kind", ErrorKind(vErr))
		return persistence.Resource{}, vErr
	}

	createdAt := s.now()
	resource := persistence.Resource{
		ID:                     s.idGenerator(),
		Name:                   strings.TrimSpace(input.Name),
		RequestFormLabel:       strings.TrimSpace(input.RequestFormLabel),
		DisplayedOnRequestForm: input.DisplayedOnRequestForm,
		Exclusive:              input.Exclusive,
		Active:                 true,
		CreatedAt:              createdAt,
		UpdatedAt:              createdAt,
	}
	if err := s.resources.CreateResource(ctx, resource); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create resource", "error", err, "error_kind", ErrorKind(err))
		return persistence.Resource{}, err
	}
	logger.With("resource_id", resource.ID).InfoContext(ctx, "resource created")
	return resource, nil
}

// UpdateResource applies changes to an existing resource.
func (s *CatalogService) UpdateResource(ctx context.Context, id string, input ResourceInput) (persistence.Resource, error) {
	existing, err := s.resources.GetResource(ctx, id)
	if err != nil {
		return persistence.Resource{}, mapRepoError(err)
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.Resource{}, vErr
	}
	existing.Name = strings.TrimSpace(input.Name)
	existing.RequestFormLabel = strings.TrimSpace(input.RequestFormLabel)
	existing.DisplayedOnRequestForm = input.DisplayedOnRequestForm
	existing.Exclusive = input.Exclusive
	existing.UpdatedAt = s.now()
	if err := s.resources.UpdateResource(ctx, existing); err != nil {
		return persistence.Resource{}, mapRepoError(err)
	}
	notifyVerdictsStale(s.invalidateVerdicts, "")
	return existing, nil
}

// ListResources returns all resources ordered by name.
func (s *CatalogService) ListResources(ctx context.Context) ([]persistence.Resource, error) {
	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Name < resources[j].Name })
	return resources, nil
}

// DeactivateResource soft-deletes a resource.
func (s *CatalogService) DeactivateResource(ctx context.Context, id string) error {
	resource, err := s.resources.GetResource(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	resource.Active = false
	resource.UpdatedAt = s.now()
	if err := s.resources.UpdateResource(ctx, resource); err != nil {
		return mapRepoError(err)
	}
	notifyVerdictsStale(s.invalidateVerdicts, "")
	return nil
}

// DeleteResource hard-removes a resource and its event associations.
func (s *CatalogService) DeleteResource(ctx context.Context, id string) error {
	if err := s.resources.DeleteResource(ctx, id); err != nil {
		return mapRepoError(err)
	}
	notifyVerdictsStale(s.invalidateVerdicts, "")
	return nil
}

// CreatePresenter persists a new presenter. Presenter names carry no
// uniqueness constraint; email and phone are optional.
func (s *CatalogService) CreatePresenter(ctx context.Context, input PresenterInput) (persistence.Presenter, error) {
	if s == nil {
		return persistence.Presenter{}, fmt.Errorf("CatalogService is nil")
	}
	logger := s.loggerWith(ctx, "CreatePresenter")

	if strings.TrimSpace(input.FirstName) == "" && strings.TrimSpace(input.LastName) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "a first or last name is required")
		logger.ErrorContext(ctx, "failed to create presenter", "error", vErr, "error_kind", ErrorKind(vErr))
		return persistence.Presenter{}, vErr
	}

	createdAt := s.now()
	presenter := persistence.Presenter{
		ID:        s.idGenerator(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.presenters.CreatePresenter(ctx, presenter); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create presenter", "error", err, "error_kind", ErrorKind(err))
		return persistence.Presenter{}, err
	}
	logger.With("presenter_id", presenter.ID).InfoContext(ctx, "presenter created")
	return presenter, nil
}

// UpdatePresenter applies changes to an existing presenter.
func (s *CatalogService) UpdatePresenter(ctx context.Context, id string, input PresenterInput) (persistence.Presenter, error) {
	existing, err := s.presenters.GetPresenter(ctx, id)
	if err != nil {
		return persistence.Presenter{}, mapRepoError(err)
	}
	if strings.TrimSpace(input.FirstName) == "" && strings.TrimSpace(input.LastName) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "a first or last name is required")
		return persistence.Presenter{}, vErr
	}
	existing.FirstName = strings.TrimSpace(input.FirstName)
	existing.LastName = strings.TrimSpace(input.LastName)
	existing.Email = strings.TrimSpace(input.Email)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.UpdatedAt = s.now()
	if err := s.presenters.UpdatePresenter(ctx, existing); err != nil {
		return persistence.Presenter{}, mapRepoError(err)
	}
	return existing, nil
}

// ListPresenters returns all presenters ordered by last then first name.
func (s *CatalogService) ListPresenters(ctx context.Context) ([]persistence.Presenter, error) {
	presenters, err := s.presenters.ListPresenters(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(presenters, func(i, j int) bool {
		if presenters[i].LastName == presenters[j].LastName {
			return presenters[i].FirstName < presenters[j].FirstName
		}
		return presenters[i].LastName < presenters[j].LastName
	})
	return presenters, nil
}

// DeactivatePresenter soft-deletes a presenter.
func (s *CatalogService) DeactivatePresenter(ctx context.Context, id string) error {
	presenter, err := s.presenters.GetPresenter(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	presenter.Active = false
	presenter.UpdatedAt = s.now()
	if err := s.presenters.UpdatePresenter(ctx, presenter); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// DeletePresenter hard-removes a presenter and their event associations.
func (s *CatalogService) DeletePresenter(ctx context.Context, id string) error {
	if err := s.presenters.DeletePresenter(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// CreateEventType persists a new event type. Names are unique.
func (s *CatalogService) CreateEventType(ctx context.Context, input EventTypeInput) (persistence.EventType, error) {
	if s == nil {
		return persistence.EventType{}, fmt.Errorf("CatalogService is nil")
	}
	logger := s.loggerWith(ctx, "CreateEventType", "name", input.Name)

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		logger.ErrorContext(ctx, "failed to create event type", "error", vErr, "error_kind", ErrorKind(vErr))
		return persistence.EventType{}, vErr
	}

	createdAt := s.now()
	eventType := persistence.EventType{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.eventTypes.CreateEventType(ctx, eventType); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create event type", "error", err, "error_kind", ErrorKind(err))
		return persistence.EventType{}, err
	}
	logger.With("event_type_id", eventType.ID).InfoContext(ctx, "event type created")
	return eventType, nil
}

// ListEventTypes returns all event types ordered by name.
func (s *CatalogService) ListEventTypes(ctx context.Context) ([]persistence.EventType, error) {
	eventTypes, err := s.eventTypes.ListEventTypes(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(eventTypes, func(i, j int) bool { return eventTypes[i].Name < eventTypes[j].Name })
	return eventTypes, nil
}

// DeactivateEventType soft-deletes an event type.
func (s *CatalogService) DeactivateEventType(ctx context.Context, id string) error {
	eventType, err := s.eventTypes.GetEventType(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	eventType.Active = false
	eventType.UpdatedAt = s.now()
	if err := s.eventTypes.UpdateEventType(ctx, eventType); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// DeleteEventType hard-removes an event type.
func (s *CatalogService) DeleteEventType(ctx context.Context, id string) error {
	if err := s.eventTypes.DeleteEventType(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}
