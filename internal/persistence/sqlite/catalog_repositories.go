package sqlite

import (
	"context"

	"github.com/example/convention-scheduler/internal/persistence"
)

// The catalog repositories cover the small supporting entities: room groups,
// resources, presenters and event types. They share the query helper and
// error mapper with the larger repositories.

// RoomGroupRepository implements persistence.RoomGroupRepository using SQLite.
type RoomGroupRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomGroupRepository creates a new SQLite room group repository.
func NewRoomGroupRepository(pool *ConnectionPool) *RoomGroupRepository {
	return &RoomGroupRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

func (r *RoomGroupRepository) CreateRoomGroup(ctx context.Context, group persistence.RoomGroup) error {
	if group.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO room_groups (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		group.ID, group.Name, formatTimestamp(group.CreatedAt), formatTimestamp(group.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

func (r *RoomGroupRepository) UpdateRoomGroup(ctx context.Context, group persistence.RoomGroup) error {
	result, err := r.helper.Exec(ctx,
		`UPDATE room_groups SET name = ?, updated_at = ? WHERE id = ?`,
		group.Name, formatTimestamp(group.UpdatedAt), group.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func (r *RoomGroupRepository) GetRoomGroup(ctx context.Context, id string) (persistence.RoomGroup, error) {
	var group persistence.RoomGroup
	var createdAt, updatedAt string
	err := r.helper.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM room_groups WHERE id = ?`, id,
	).Scan(&group.ID, &group.Name, &createdAt, &updatedAt)
	if err != nil {
		return persistence.RoomGroup{}, r.mapper.MapError(err)
	}
	if group.CreatedAt, group.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.RoomGroup{}, err
	}
	return group, nil
}

func (r *RoomGroupRepository) ListRoomGroups(ctx context.Context) ([]persistence.RoomGroup, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM room_groups ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var groups []persistence.RoomGroup
	for rows.Next() {
		var group persistence.RoomGroup
		var createdAt, updatedAt string
		if err := rows.Scan(&group.ID, &group.Name, &createdAt, &updatedAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if group.CreatedAt, group.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return groups, nil
}

func (r *RoomGroupRepository) DeleteRoomGroup(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM room_groups WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// ResourceRepository implements persistence.ResourceRepository using SQLite.
type ResourceRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewResourceRepository creates a new SQLite resource repository.
func NewResourceRepository(pool *ConnectionPool) *ResourceRepository {
	return &ResourceRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

const resourceColumns = `id, name, request_form_label, displayed_on_request_form,
	exclusive, active, created_at, updated_at`

func (r *ResourceRepository) CreateResource(ctx context.Context, resource persistence.Resource) error {
	if resource.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		resource.ID,
		resource.Name,
		resource.RequestFormLabel,
		boolToInt(resource.DisplayedOnRequestForm),
		boolToInt(resource.Exclusive),
		boolToInt(resource.Active),
		formatTimestamp(resource.CreatedAt),
		formatTimestamp(resource.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

func (r *ResourceRepository) UpdateResource(ctx context.Context, resource persistence.Resource) error {
	result, err := r.helper.Exec(ctx,
		`UPDATE resources
		 SET name = ?, request_form_label = ?, displayed_on_request_form = ?,
			 exclusive = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		resource.Name,
		resource.RequestFormLabel,
		boolToInt(resource.DisplayedOnRequestForm),
		boolToInt(resource.Exclusive),
		boolToInt(resource.Active),
		formatTimestamp(resource.UpdatedAt),
		resource.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func (r *ResourceRepository) GetResource(ctx context.Context, id string) (persistence.Resource, error) {
	resource, err := scanResource(r.helper.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
	if err != nil {
		return persistence.Resource{}, r.mapper.MapError(err)
	}
	return resource, nil
}

func (r *ResourceRepository) ListResources(ctx context.Context) ([]persistence.Resource, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var resources []persistence.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return resources, nil
}

func (r *ResourceRepository) DeleteResource(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func scanResource(row rowScanner) (persistence.Resource, error) {
	var resource persistence.Resource
	var createdAt, updatedAt string
	var displayed, exclusive, active int

	err := row.Scan(
		&resource.ID,
		&resource.Name,
		&resource.RequestFormLabel,
		&displayed,
		&exclusive,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Resource{}, err
	}

	resource.DisplayedOnRequestForm = displayed != 0
	resource.Exclusive = exclusive != 0
	resource.Active = active != 0
	if resource.CreatedAt, resource.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Resource{}, err
	}
	return resource, nil
}

// PresenterRepository implements persistence.PresenterRepository using SQLite.
type PresenterRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPresenterRepository creates a new SQLite presenter repository.
func NewPresenterRepository(pool *ConnectionPool) *PresenterRepository {
	return &PresenterRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

const presenterColumns = `id, first_name, last_name, email, phone, active,
	created_at, updated_at`

func (r *PresenterRepository) CreatePresenter(ctx context.Context, presenter persistence.Presenter) error {
	if presenter.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO presenters (`+presenterColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		presenter.ID,
		presenter.FirstName,
		presenter.LastName,
		presenter.Email,
		presenter.Phone,
		boolToInt(presenter.Active),
		formatTimestamp(presenter.CreatedAt),
		formatTimestamp(presenter.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

func (r *PresenterRepository) UpdatePresenter(ctx context.Context, presenter persistence.Presenter) error {
	result, err := r.helper.Exec(ctx,
		`UPDATE presenters
		 SET first_name = ?, last_name = ?, email = ?, phone = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		presenter.FirstName,
		presenter.LastName,
		presenter.Email,
		presenter.Phone,
		boolToInt(presenter.Active),
		formatTimestamp(presenter.UpdatedAt),
		presenter.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func (r *PresenterRepository) GetPresenter(ctx context.Context, id string) (persistence.Presenter, error) {
	presenter, err := scanPresenter(r.helper.QueryRow(ctx,
		`SELECT `+presenterColumns+` FROM presenters WHERE id = ?`, id))
	if err != nil {
		return persistence.Presenter{}, r.mapper.MapError(err)
	}
	return presenter, nil
}

func (r *PresenterRepository) ListPresenters(ctx context.Context) ([]persistence.Presenter, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+presenterColumns+` FROM presenters ORDER BY last_name ASC, first_name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var presenters []persistence.Presenter
	for rows.Next() {
		presenter, err := scanPresenter(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		presenters = append(presenters, presenter)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return presenters, nil
}

func (r *PresenterRepository) DeletePresenter(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM presenters WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func scanPresenter(row rowScanner) (persistence.Presenter, error) {
	var presenter persistence.Presenter
	var createdAt, updatedAt string
	var active int

	err := row.Scan(
		&presenter.ID,
		&presenter.FirstName,
		&presenter.LastName,
		&presenter.Email,
		&presenter.Phone,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Presenter{}, err
	}

	presenter.Active = active != 0
	if presenter.CreatedAt, presenter.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Presenter{}, err
	}
	return presenter, nil
}

// EventTypeRepository implements persistence.EventTypeRepository using SQLite.
type EventTypeRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEventTypeRepository creates a new SQLite event type repository.
func NewEventTypeRepository(pool *ConnectionPool) *EventTypeRepository {
	return &EventTypeRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

func (r *EventTypeRepository) CreateEventType(ctx context.Context, eventType persistence.EventType) error {
	if eventType.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO event_types (id, name, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		eventType.ID,
		eventType.Name,
		boolToInt(eventType.Active),
		formatTimestamp(eventType.CreatedAt),
		formatTimestamp(eventType.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

func (r *EventTypeRepository) UpdateEventType(ctx context.Context, eventType persistence.EventType) error {
	result, err := r.helper.Exec(ctx,
		`UPDATE event_types SET name = ?, active = ?, updated_at = ? WHERE id = ?`,
		eventType.Name,
		boolToInt(eventType.Active),
		formatTimestamp(eventType.UpdatedAt),
		eventType.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func (r *EventTypeRepository) GetEventType(ctx context.Context, id string) (persistence.EventType, error) {
	var eventType persistence.EventType
	var createdAt, updatedAt string
	var active int
	err := r.helper.QueryRow(ctx,
		`SELECT id, name, active, created_at, updated_at FROM event_types WHERE id = ?`, id,
	).Scan(&eventType.ID, &eventType.Name, &active, &createdAt, &updatedAt)
	if err != nil {
		return persistence.EventType{}, r.mapper.MapError(err)
	}
	eventType.Active = active != 0
	if eventType.CreatedAt, eventType.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.EventType{}, err
	}
	return eventType, nil
}

func (r *EventTypeRepository) ListEventTypes(ctx context.Context) ([]persistence.EventType, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT id, name, active, created_at, updated_at FROM event_types ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var eventTypes []persistence.EventType
	for rows.Next() {
		var eventType persistence.EventType
		var createdAt, updatedAt string
		var active int
		if err := rows.Scan(&eventType.ID, &eventType.Name, &active, &createdAt, &updatedAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		eventType.Active = active != 0
		if eventType.CreatedAt, eventType.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
			return nil, err
		}
		eventTypes = append(eventTypes, eventType)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return eventTypes, nil
}

func (r *EventTypeRepository) DeleteEventType(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM event_types WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}
