package sqlite

import (
	"context"

	"github.com/example/convention-scheduler/internal/persistence"
)

// TrackRepository implements persistence.TrackRepository using SQLite.
type TrackRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTrackRepository creates a new SQLite track repository.
func NewTrackRepository(pool *ConnectionPool) *TrackRepository {
	return &TrackRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const trackColumns = `id, name, uid, email, head_first_name, head_last_name,
	active, created_at, updated_at`

// CreateTrack inserts a new track.
func (r *TrackRepository) CreateTrack(ctx context.Context, track persistence.Track) error {
	if track.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		track.ID,
		track.Name,
		track.UID,
		track.Email,
		track.HeadFirstName,
		track.HeadLastName,
		boolToInt(track.Active),
		formatTimestamp(track.CreatedAt),
		formatTimestamp(track.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateTrack updates an existing track. Email and uid are written as given;
// immutability of those fields is the application layer's contract.
func (r *TrackRepository) UpdateTrack(ctx context.Context, track persistence.Track) error {
	if track.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE tracks
		SET name = ?, uid = ?, email = ?, head_first_name = ?, head_last_name = ?,
			active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		track.Name,
		track.UID,
		track.Email,
		track.HeadFirstName,
		track.HeadLastName,
		boolToInt(track.Active),
		formatTimestamp(track.UpdatedAt),
		track.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// GetTrack retrieves a track by ID.
func (r *TrackRepository) GetTrack(ctx context.Context, id string) (persistence.Track, error) {
	if id == "" {
		return persistence.Track{}, persistence.ErrNotFound
	}

	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`
	track, err := scanTrack(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		return persistence.Track{}, r.mapper.MapError(err)
	}
	return track, nil
}

// GetTrackByName retrieves a track by its unique name.
func (r *TrackRepository) GetTrackByName(ctx context.Context, name string) (persistence.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE name = ?`
	track, err := scanTrack(r.helper.QueryRow(ctx, query, name))
	if err != nil {
		return persistence.Track{}, r.mapper.MapError(err)
	}
	return track, nil
}

// ListTracks returns all tracks ordered by name then ID.
func (r *TrackRepository) ListTracks(ctx context.Context) ([]persistence.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY name ASC, id ASC`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var tracks []persistence.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return tracks, nil
}

// DeleteTrack removes a track by ID. Fails with a foreign key violation while
// events still reference it.
func (r *TrackRepository) DeleteTrack(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func scanTrack(row rowScanner) (persistence.Track, error) {
	var track persistence.Track
	var createdAt, updatedAt string
	var active int

	err := row.Scan(
		&track.ID,
		&track.Name,
		&track.UID,
		&track.Email,
		&track.HeadFirstName,
		&track.HeadLastName,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Track{}, err
	}

	track.Active = active != 0
	if track.CreatedAt, track.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.Track{}, err
	}
	return track, nil
}
