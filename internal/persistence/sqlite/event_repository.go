package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/convention-scheduler/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite. Create
// and Update write the event row and all four association tables in one
// transaction so readers never observe a half-written association set.
type EventRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const eventColumns = `id, title, description, comments, active, track_id,
	event_type_id, convention_id, start_timeslot_id, duration, fixed, players,
	round_tables, long_tables, facility_request, created_at, updated_at`

// associationTables maps each association table to its non-event column.
var associationTables = []struct {
	table  string
	column string
}{
	{"room_event", "room_id"},
	{"event_resources", "resource_id"},
	{"presenter_event", "presenter_id"},
	{"room_suitability", "room_id"},
}

// CreateEvent inserts a new event with its association sets.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO events (` + eventColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := r.helper.ExecTx(tx, query,
			event.ID,
			event.Title,
			event.Description,
			event.Comments,
			boolToInt(event.Active),
			event.TrackID,
			nullableString(event.EventTypeID),
			event.ConventionID,
			nullableString(event.StartTimeslotID),
			event.Duration,
			boolToInt(event.Fixed),
			event.Players,
			event.RoundTables,
			event.LongTables,
			event.FacilityRequest,
			formatTimestamp(event.CreatedAt),
			formatTimestamp(event.UpdatedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.writeAssociationsTx(tx, event)
	})
}

// UpdateEvent rewrites the event row and replaces its association sets.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE events
			SET title = ?, description = ?, comments = ?, active = ?, track_id = ?,
				event_type_id = ?, start_timeslot_id = ?, duration = ?, fixed = ?,
				players = ?, round_tables = ?, long_tables = ?, facility_request = ?,
				updated_at = ?
			WHERE id = ?
		`
		result, err := r.helper.ExecTx(tx, query,
			event.Title,
			event.Description,
			event.Comments,
			boolToInt(event.Active),
			event.TrackID,
			nullableString(event.EventTypeID),
			nullableString(event.StartTimeslotID),
			event.Duration,
			boolToInt(event.Fixed),
			event.Players,
			event.RoundTables,
			event.LongTables,
			event.FacilityRequest,
			formatTimestamp(event.UpdatedAt),
			event.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if err := requireRowsAffected(result); err != nil {
			return err
		}

		for _, assoc := range associationTables {
			if _, err := r.helper.ExecTx(tx, "DELETE FROM "+assoc.table+" WHERE event_id = ?", event.ID); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return r.writeAssociationsTx(tx, event)
	})
}

// GetEvent retrieves an event by ID, association sets included.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	if id == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	event, err := scanEvent(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		return persistence.Event{}, r.mapper.MapError(err)
	}

	if err := r.loadAssociations(ctx, &event); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// ListEvents returns events matching the filter, ordered by title then ID,
// association sets included.
func (r *EventRepository) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var clauses []string
	var args []any

	if filter.ConventionID != "" {
		clauses = append(clauses, "convention_id = ?")
		args = append(args, filter.ConventionID)
	}
	if filter.TrackID != "" {
		clauses = append(clauses, "track_id = ?")
		args = append(args, filter.TrackID)
	}
	if filter.RoomID != "" {
		clauses = append(clauses, "id IN (SELECT event_id FROM room_event WHERE room_id = ?)")
		args = append(args, filter.RoomID)
	}
	if filter.PresenterID != "" {
		clauses = append(clauses, "id IN (SELECT event_id FROM presenter_event WHERE presenter_id = ?)")
		args = append(args, filter.PresenterID)
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "active = 1")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY title ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range events {
		if err := r.loadAssociations(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// DeleteEvent removes an event. Association rows cascade away.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func (r *EventRepository) writeAssociationsTx(tx *sql.Tx, event persistence.Event) error {
	sets := [][]string{event.RoomIDs, event.ResourceIDs, event.PresenterIDs, event.SuitableRoomIDs}
	for i, assoc := range associationTables {
		insert := "INSERT INTO " + assoc.table + " (event_id, " + assoc.column + ") VALUES (?, ?)"
		for _, id := range sets[i] {
			if _, err := r.helper.ExecTx(tx, insert, event.ID, id); err != nil {
				return r.mapper.MapError(err)
			}
		}
	}
	return nil
}

func (r *EventRepository) loadAssociations(ctx context.Context, event *persistence.Event) error {
	targets := []*[]string{&event.RoomIDs, &event.ResourceIDs, &event.PresenterIDs, &event.SuitableRoomIDs}
	for i, assoc := range associationTables {
		query := "SELECT " + assoc.column + " FROM " + assoc.table + " WHERE event_id = ? ORDER BY " + assoc.column + " ASC"
		rows, err := r.helper.Query(ctx, query, event.ID)
		if err != nil {
			return r.mapper.MapError(err)
		}

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return r.mapper.MapError(err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return r.mapper.MapError(err)
		}
		rows.Close()
		*targets[i] = ids
	}
	return nil
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var eventTypeID, startTimeslotID sql.NullString
	var createdAt, updatedAt string
	var active, fixed int

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Comments,
		&active,
		&event.TrackID,
		&eventTypeID,
		&event.ConventionID,
		&startTimeslotID,
		&event.Duration,
		&fixed,
		&event.Players,
		&event.RoundTables,
		&event.LongTables,
		&event.FacilityRequest,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Event{}, err
	}

	event.Active = active != 0
	event.Fixed = fixed != 0
	event.EventTypeID = stringPointer(eventTypeID)
	event.StartTimeslotID = stringPointer(startTimeslotID)
	if event.CreatedAt, event.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}
