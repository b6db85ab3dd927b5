package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
)

// ConventionRepository implements persistence.ConventionRepository using SQLite.
type ConventionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewConventionRepository creates a new SQLite convention repository.
func NewConventionRepository(pool *ConnectionPool) *ConventionRepository {
	return &ConventionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const conventionColumns = `id, name, description, start_at, end_at, date_format,
	datetime_format, url, timeslot_duration_minutes, number_of_timeslots,
	active, created_at, updated_at`

// CreateConvention inserts a new convention.
func (r *ConventionRepository) CreateConvention(ctx context.Context, convention persistence.Convention) error {
	if convention.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO conventions (` + conventionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		convention.ID,
		convention.Name,
		convention.Description,
		convention.StartAt.UTC().Format(time.RFC3339),
		convention.EndAt.UTC().Format(time.RFC3339),
		convention.DateFormat,
		convention.DatetimeFormat,
		convention.URL,
		int(convention.TimeslotDuration.Minutes()),
		convention.NumberOfTimeslots,
		boolToInt(convention.Active),
		convention.CreatedAt.UTC().Format(time.RFC3339),
		convention.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return r.mapper.MapError(err)
}

// UpdateConvention updates an existing convention.
func (r *ConventionRepository) UpdateConvention(ctx context.Context, convention persistence.Convention) error {
	if convention.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE conventions
		SET name = ?, description = ?, start_at = ?, end_at = ?, date_format = ?,
			datetime_format = ?, url = ?, timeslot_duration_minutes = ?,
			number_of_timeslots = ?, active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		convention.Name,
		convention.Description,
		convention.StartAt.UTC().Format(time.RFC3339),
		convention.EndAt.UTC().Format(time.RFC3339),
		convention.DateFormat,
		convention.DatetimeFormat,
		convention.URL,
		int(convention.TimeslotDuration.Minutes()),
		convention.NumberOfTimeslots,
		boolToInt(convention.Active),
		convention.UpdatedAt.UTC().Format(time.RFC3339),
		convention.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// GetConvention retrieves a convention by ID.
func (r *ConventionRepository) GetConvention(ctx context.Context, id string) (persistence.Convention, error) {
	if id == "" {
		return persistence.Convention{}, persistence.ErrNotFound
	}

	query := `SELECT ` + conventionColumns + ` FROM conventions WHERE id = ?`
	row := r.helper.QueryRow(ctx, query, id)
	convention, err := scanConvention(row)
	if err != nil {
		return persistence.Convention{}, r.mapper.MapError(err)
	}
	return convention, nil
}

// ListConventions returns all conventions ordered by start date descending,
// most recent first.
func (r *ConventionRepository) ListConventions(ctx context.Context) ([]persistence.Convention, error) {
	query := `SELECT ` + conventionColumns + ` FROM conventions ORDER BY start_at DESC, id ASC`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var conventions []persistence.Convention
	for rows.Next() {
		convention, err := scanConvention(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		conventions = append(conventions, convention)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return conventions, nil
}

// DeleteConvention removes a convention. Rooms, timeslots, events and their
// association rows go with it via ON DELETE CASCADE.
func (r *ConventionRepository) DeleteConvention(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM conventions WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConvention(row rowScanner) (persistence.Convention, error) {
	var convention persistence.Convention
	var startAt, endAt, createdAt, updatedAt string
	var durationMinutes, active int

	err := row.Scan(
		&convention.ID,
		&convention.Name,
		&convention.Description,
		&startAt,
		&endAt,
		&convention.DateFormat,
		&convention.DatetimeFormat,
		&convention.URL,
		&durationMinutes,
		&convention.NumberOfTimeslots,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Convention{}, err
	}

	convention.TimeslotDuration = time.Duration(durationMinutes) * time.Minute
	convention.Active = active != 0
	if convention.StartAt, err = time.Parse(time.RFC3339, startAt); err != nil {
		return persistence.Convention{}, fmt.Errorf("failed to parse start_at: %w", err)
	}
	if convention.EndAt, err = time.Parse(time.RFC3339, endAt); err != nil {
		return persistence.Convention{}, fmt.Errorf("failed to parse end_at: %w", err)
	}
	if convention.CreatedAt, convention.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Convention{}, err
	}
	return convention, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return created, updated, nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
