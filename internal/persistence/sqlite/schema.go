package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements defines the full schema. Statements are idempotent and
// ordered so foreign key targets exist before their referrers. Association
// tables cascade on delete, which is what makes deleting a convention remove
// its rooms, timeslots, events and their association rows in one statement.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS conventions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		date_format TEXT NOT NULL DEFAULT '',
		datetime_format TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		timeslot_duration_minutes INTEGER NOT NULL CHECK (timeslot_duration_minutes > 0),
		number_of_timeslots INTEGER NOT NULL CHECK (number_of_timeslots >= 1),
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		uid TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		head_first_name TEXT NOT NULL DEFAULT '',
		head_last_name TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		square_feet INTEGER NOT NULL DEFAULT 0 CHECK (square_feet >= 0),
		capacity INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
		room_group_id TEXT REFERENCES room_groups(id) ON DELETE SET NULL,
		convention_id TEXT REFERENCES conventions(id) ON DELETE CASCADE,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		request_form_label TEXT NOT NULL DEFAULT '',
		displayed_on_request_form INTEGER NOT NULL DEFAULT 0,
		exclusive INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS presenters (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS timeslots (
		id TEXT PRIMARY KEY,
		slot_index INTEGER NOT NULL CHECK (slot_index >= 0),
		name TEXT NOT NULL DEFAULT '',
		convention_id TEXT NOT NULL REFERENCES conventions(id) ON DELETE CASCADE,
		rsvp_conflicts INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (convention_id, slot_index)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		comments TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		track_id TEXT NOT NULL REFERENCES tracks(id),
		event_type_id TEXT REFERENCES event_types(id) ON DELETE SET NULL,
		convention_id TEXT NOT NULL REFERENCES conventions(id) ON DELETE CASCADE,
		start_timeslot_id TEXT REFERENCES timeslots(id) ON DELETE SET NULL,
		duration INTEGER NOT NULL DEFAULT 1 CHECK (duration >= 1),
		fixed INTEGER NOT NULL DEFAULT 0,
		players INTEGER NOT NULL DEFAULT 0,
		round_tables INTEGER NOT NULL DEFAULT 0,
		long_tables INTEGER NOT NULL DEFAULT 0,
		facility_request TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_event (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, room_id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_resources (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, resource_id)
	)`,
	`CREATE TABLE IF NOT EXISTS presenter_event (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		presenter_id TEXT NOT NULL REFERENCES presenters(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, presenter_id)
	)`,
	`CREATE TABLE IF NOT EXISTS room_suitability (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, room_id)
	)`,
	`CREATE TABLE IF NOT EXISTS room_availability (
		timeslot_id TEXT NOT NULL REFERENCES timeslots(id) ON DELETE CASCADE,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		PRIMARY KEY (timeslot_id, room_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_convention ON events(convention_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_track ON events(track_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeslots_convention ON timeslots(convention_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_convention ON rooms(convention_id)`,
}

// Migrate creates the schema. Safe to call on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: failed to apply schema statement: %w", err)
		}
	}
	return nil
}
