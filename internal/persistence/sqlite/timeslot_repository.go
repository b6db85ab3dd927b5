package sqlite

import (
	"context"

	"github.com/example/convention-scheduler/internal/persistence"
)

// TimeslotRepository implements persistence.TimeslotRepository using SQLite,
// including the room_availability relation.
type TimeslotRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTimeslotRepository creates a new SQLite timeslot repository.
func NewTimeslotRepository(pool *ConnectionPool) *TimeslotRepository {
	return &TimeslotRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const timeslotColumns = `id, slot_index, name, convention_id, rsvp_conflicts,
	active, created_at, updated_at`

// CreateTimeslot inserts a new timeslot. The (convention, index) pair is
// unique, enforced by the schema.
func (r *TimeslotRepository) CreateTimeslot(ctx context.Context, timeslot persistence.Timeslot) error {
	if timeslot.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO timeslots (` + timeslotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		timeslot.ID,
		timeslot.Index,
		timeslot.Name,
		timeslot.ConventionID,
		timeslot.RSVPConflicts,
		boolToInt(timeslot.Active),
		formatTimestamp(timeslot.CreatedAt),
		formatTimestamp(timeslot.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateTimeslot updates an existing timeslot.
func (r *TimeslotRepository) UpdateTimeslot(ctx context.Context, timeslot persistence.Timeslot) error {
	if timeslot.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE timeslots
		SET slot_index = ?, name = ?, rsvp_conflicts = ?, active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		timeslot.Index,
		timeslot.Name,
		timeslot.RSVPConflicts,
		boolToInt(timeslot.Active),
		formatTimestamp(timeslot.UpdatedAt),
		timeslot.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// GetTimeslot retrieves a timeslot by ID.
func (r *TimeslotRepository) GetTimeslot(ctx context.Context, id string) (persistence.Timeslot, error) {
	if id == "" {
		return persistence.Timeslot{}, persistence.ErrNotFound
	}

	query := `SELECT ` + timeslotColumns + ` FROM timeslots WHERE id = ?`
	timeslot, err := scanTimeslot(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		return persistence.Timeslot{}, r.mapper.MapError(err)
	}
	return timeslot, nil
}

// ListTimeslots returns a convention's timeslots ordered by index.
func (r *TimeslotRepository) ListTimeslots(ctx context.Context, conventionID string) ([]persistence.Timeslot, error) {
	query := `SELECT ` + timeslotColumns + ` FROM timeslots WHERE convention_id = ? ORDER BY slot_index ASC`

	rows, err := r.helper.Query(ctx, query, conventionID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var timeslots []persistence.Timeslot
	for rows.Next() {
		timeslot, err := scanTimeslot(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		timeslots = append(timeslots, timeslot)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return timeslots, nil
}

// DeleteTimeslot removes a timeslot. Availability rows cascade; events whose
// start referenced it become unscheduled via ON DELETE SET NULL.
func (r *TimeslotRepository) DeleteTimeslot(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM timeslots WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// SetRoomAvailability adds or removes a (timeslot, room) availability pair.
// Adding an existing pair and removing a missing pair are both no-ops.
func (r *TimeslotRepository) SetRoomAvailability(ctx context.Context, timeslotID, roomID string, available bool) error {
	if available {
		_, err := r.helper.Exec(ctx,
			`INSERT OR IGNORE INTO room_availability (timeslot_id, room_id) VALUES (?, ?)`,
			timeslotID, roomID,
		)
		return r.mapper.MapError(err)
	}
	_, err := r.helper.Exec(ctx,
		`DELETE FROM room_availability WHERE timeslot_id = ? AND room_id = ?`,
		timeslotID, roomID,
	)
	return r.mapper.MapError(err)
}

// AvailableRoomIDs returns the rooms bookable in the given timeslot.
func (r *TimeslotRepository) AvailableRoomIDs(ctx context.Context, timeslotID string) ([]string, error) {
	return r.availabilityColumn(ctx,
		`SELECT room_id FROM room_availability WHERE timeslot_id = ? ORDER BY room_id ASC`,
		timeslotID,
	)
}

// AvailableTimeslotIDs returns the timeslots in which the given room is bookable.
func (r *TimeslotRepository) AvailableTimeslotIDs(ctx context.Context, roomID string) ([]string, error) {
	return r.availabilityColumn(ctx,
		`SELECT timeslot_id FROM room_availability WHERE room_id = ? ORDER BY timeslot_id ASC`,
		roomID,
	)
}

func (r *TimeslotRepository) availabilityColumn(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.helper.Query(ctx, query, arg)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, r.mapper.MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return ids, nil
}

func scanTimeslot(row rowScanner) (persistence.Timeslot, error) {
	var timeslot persistence.Timeslot
	var createdAt, updatedAt string
	var active int

	err := row.Scan(
		&timeslot.ID,
		&timeslot.Index,
		&timeslot.Name,
		&timeslot.ConventionID,
		&timeslot.RSVPConflicts,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Timeslot{}, err
	}

	timeslot.Active = active != 0
	if timeslot.CreatedAt, timeslot.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Timeslot{}, err
	}
	return timeslot, nil
}
