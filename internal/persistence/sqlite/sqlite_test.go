package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
)

// setupPool opens a file-backed database in a per-test temp directory and
// applies the schema.
func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "crem_test.db")
	pool, err := NewConnectionPool(DefaultConfig(dsn))
	if err != nil {
		t.Fatalf("NewConnectionPool failed: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return pool
}

func testTimestamp() time.Time {
	return time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
}

func seedConvention(t *testing.T, pool *ConnectionPool, id string) persistence.Convention {
	t.Helper()

	convention := persistence.Convention{
		ID:                id,
		Name:              "Convention " + id,
		StartAt:           time.Date(2026, time.April, 24, 18, 0, 0, 0, time.UTC),
		EndAt:             time.Date(2026, time.April, 26, 17, 0, 0, 0, time.UTC),
		TimeslotDuration:  30 * time.Minute,
		NumberOfTimeslots: 94,
		Active:            true,
		CreatedAt:         testTimestamp(),
		UpdatedAt:         testTimestamp(),
	}
	if err := NewConventionRepository(pool).CreateConvention(context.Background(), convention); err != nil {
		t.Fatalf("seed convention failed: %v", err)
	}
	return convention
}

func seedTrack(t *testing.T, pool *ConnectionPool, id, name string) persistence.Track {
	t.Helper()

	track := persistence.Track{
		ID:        id,
		Name:      name,
		UID:       id,
		Email:     id + "@example.org",
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if err := NewTrackRepository(pool).CreateTrack(context.Background(), track); err != nil {
		t.Fatalf("seed track failed: %v", err)
	}
	return track
}

func seedRoom(t *testing.T, pool *ConnectionPool, id, conventionID string) persistence.Room {
	t.Helper()

	room := persistence.Room{
		ID:        id,
		Name:      "Room " + id,
		Capacity:  50,
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if conventionID != "" {
		room.ConventionID = &conventionID
	}
	if err := NewRoomRepository(pool).CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("seed room failed: %v", err)
	}
	return room
}

func seedTimeslot(t *testing.T, pool *ConnectionPool, id, conventionID string, index int) persistence.Timeslot {
	t.Helper()

	timeslot := persistence.Timeslot{
		ID:           id,
		Index:        index,
		ConventionID: conventionID,
		Active:       true,
		CreatedAt:    testTimestamp(),
		UpdatedAt:    testTimestamp(),
	}
	if err := NewTimeslotRepository(pool).CreateTimeslot(context.Background(), timeslot); err != nil {
		t.Fatalf("seed timeslot failed: %v", err)
	}
	return timeslot
}

func TestConnectionDSNEncodesPragmas(t *testing.T) {
	dsn := connectionDSN(DefaultConfig("/var/lib/crem/crem.db"))
	want := "/var/lib/crem/crem.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}

	// An existing query string gets extended, not duplicated.
	dsn = connectionDSN(Config{DSN: "file:crem.db?cache=shared", BusyTimeout: time.Second})
	want = "file:crem.db?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(1000)"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}
}

func TestConnectionPool_ForeignKeysOnFreshConnections(t *testing.T) {
	pool := setupPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")

	// With no idle connections every statement runs on a new connection,
	// which must still enforce foreign keys.
	pool.DB().SetMaxIdleConns(0)

	for attempt := 0; attempt < 3; attempt++ {
		event := persistence.Event{
			ID:           fmt.Sprintf("event%d", attempt),
			Title:        "Orphan",
			Active:       true,
			TrackID:      "missing-track",
			ConventionID: "con1",
			Duration:     1,
			CreatedAt:    testTimestamp(),
			UpdatedAt:    testTimestamp(),
		}
		if err := repo.CreateEvent(ctx, event); err != persistence.ErrForeignKeyViolation {
			t.Fatalf("attempt %d: expected ErrForeignKeyViolation, got %v", attempt, err)
		}
	}
}

func TestConventionRepository_CreateAndGet(t *testing.T) {
	pool := setupPool(t)
	repo := NewConventionRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")

	retrieved, err := repo.GetConvention(ctx, "con1")
	if err != nil {
		t.Fatalf("GetConvention failed: %v", err)
	}
	if retrieved.NumberOfTimeslots != 94 {
		t.Errorf("Expected 94 timeslots, got %d", retrieved.NumberOfTimeslots)
	}
	if retrieved.TimeslotDuration != 30*time.Minute {
		t.Errorf("Expected 30m slot duration, got %v", retrieved.TimeslotDuration)
	}
}

func TestConventionRepository_DuplicateName(t *testing.T) {
	pool := setupPool(t)
	repo := NewConventionRepository(pool)
	ctx := context.Background()

	first := seedConvention(t, pool, "con1")
	duplicate := first
	duplicate.ID = "con2"

	err := repo.CreateConvention(ctx, duplicate)
	if err != persistence.ErrDuplicate {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestConventionRepository_GetMissing(t *testing.T) {
	pool := setupPool(t)
	repo := NewConventionRepository(pool)

	_, err := repo.GetConvention(context.Background(), "missing")
	if err != persistence.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestTrackRepository_UIDAndEmailUnique(t *testing.T) {
	pool := setupPool(t)
	repo := NewTrackRepository(pool)
	ctx := context.Background()

	first := persistence.Track{
		ID:        "track1",
		Name:      "Tech",
		UID:       "tech",
		Email:     "tech@penguicon.org",
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if err := repo.CreateTrack(ctx, first); err != nil {
		t.Fatalf("CreateTrack failed: %v", err)
	}

	sameEmail := persistence.Track{
		ID:        "track2",
		Name:      "Technology",
		UID:       "technology",
		Email:     "tech@penguicon.org",
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if err := repo.CreateTrack(ctx, sameEmail); err != persistence.ErrDuplicate {
		t.Fatalf("Expected ErrDuplicate for reused email, got %v", err)
	}

	sameUID := persistence.Track{
		ID:        "track3",
		Name:      "Technical",
		UID:       "tech",
		Email:     "technical@penguicon.org",
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if err := repo.CreateTrack(ctx, sameUID); err != persistence.ErrDuplicate {
		t.Fatalf("Expected ErrDuplicate for reused uid, got %v", err)
	}
}

func TestTimeslotRepository_IndexUniquePerConvention(t *testing.T) {
	pool := setupPool(t)
	repo := NewTimeslotRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedConvention(t, pool, "con2")
	seedTimeslot(t, pool, "slot1", "con1", 0)

	clash := persistence.Timeslot{
		ID:           "slot2",
		Index:        0,
		ConventionID: "con1",
		Active:       true,
		CreatedAt:    testTimestamp(),
		UpdatedAt:    testTimestamp(),
	}
	if err := repo.CreateTimeslot(ctx, clash); err != persistence.ErrDuplicate {
		t.Fatalf("Expected ErrDuplicate for reused index, got %v", err)
	}

	// The same index in a different convention is fine.
	seedTimeslot(t, pool, "slot3", "con2", 0)
}

func TestTimeslotRepository_RoomAvailability(t *testing.T) {
	pool := setupPool(t)
	repo := NewTimeslotRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedRoom(t, pool, "room1", "con1")
	seedTimeslot(t, pool, "slot1", "con1", 0)
	seedTimeslot(t, pool, "slot2", "con1", 1)

	if err := repo.SetRoomAvailability(ctx, "slot1", "room1", true); err != nil {
		t.Fatalf("SetRoomAvailability failed: %v", err)
	}
	// Marking twice is a no-op, not an error.
	if err := repo.SetRoomAvailability(ctx, "slot1", "room1", true); err != nil {
		t.Fatalf("Repeated SetRoomAvailability failed: %v", err)
	}

	roomIDs, err := repo.AvailableRoomIDs(ctx, "slot1")
	if err != nil {
		t.Fatalf("AvailableRoomIDs failed: %v", err)
	}
	if len(roomIDs) != 1 || roomIDs[0] != "room1" {
		t.Errorf("Expected [room1], got %v", roomIDs)
	}

	timeslotIDs, err := repo.AvailableTimeslotIDs(ctx, "room1")
	if err != nil {
		t.Fatalf("AvailableTimeslotIDs failed: %v", err)
	}
	if len(timeslotIDs) != 1 || timeslotIDs[0] != "slot1" {
		t.Errorf("Expected [slot1], got %v", timeslotIDs)
	}

	if err := repo.SetRoomAvailability(ctx, "slot1", "room1", false); err != nil {
		t.Fatalf("Clearing availability failed: %v", err)
	}
	roomIDs, err = repo.AvailableRoomIDs(ctx, "slot1")
	if err != nil {
		t.Fatalf("AvailableRoomIDs failed: %v", err)
	}
	if len(roomIDs) != 0 {
		t.Errorf("Expected no available rooms, got %v", roomIDs)
	}
}

func TestEventRepository_CreateWithAssociations(t *testing.T) {
	pool := setupPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedTrack(t, pool, "track1", "Tech")
	seedRoom(t, pool, "room1", "con1")
	presenter := persistence.Presenter{
		ID:        "presenter1",
		FirstName: "Jo",
		LastName:  "Lee",
		Active:    true,
		CreatedAt: testTimestamp(),
		UpdatedAt: testTimestamp(),
	}
	if err := NewPresenterRepository(pool).CreatePresenter(ctx, presenter); err != nil {
		t.Fatalf("seed presenter failed: %v", err)
	}

	event := persistence.Event{
		ID:              "event1",
		Title:           "Soldering 101",
		Active:          true,
		TrackID:         "track1",
		ConventionID:    "con1",
		Duration:        2,
		PresenterIDs:    []string{"presenter1"},
		SuitableRoomIDs: []string{"room1"},
		CreatedAt:       testTimestamp(),
		UpdatedAt:       testTimestamp(),
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	retrieved, err := repo.GetEvent(ctx, "event1")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if len(retrieved.PresenterIDs) != 1 || retrieved.PresenterIDs[0] != "presenter1" {
		t.Errorf("Expected presenter association, got %v", retrieved.PresenterIDs)
	}
	if len(retrieved.SuitableRoomIDs) != 1 || retrieved.SuitableRoomIDs[0] != "room1" {
		t.Errorf("Expected suitability association, got %v", retrieved.SuitableRoomIDs)
	}
	if retrieved.StartTimeslotID != nil {
		t.Errorf("Expected unscheduled event, got start timeslot %v", *retrieved.StartTimeslotID)
	}
}

func TestEventRepository_UpdateReplacesAssociations(t *testing.T) {
	pool := setupPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedTrack(t, pool, "track1", "Tech")
	seedRoom(t, pool, "room1", "con1")
	seedRoom(t, pool, "room2", "con1")
	timeslot := seedTimeslot(t, pool, "slot1", "con1", 0)

	event := persistence.Event{
		ID:           "event1",
		Title:        "Soldering 101",
		Active:       true,
		TrackID:      "track1",
		ConventionID: "con1",
		Duration:     1,
		RoomIDs:      []string{"room1"},
		CreatedAt:    testTimestamp(),
		UpdatedAt:    testTimestamp(),
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	event.RoomIDs = []string{"room2"}
	event.StartTimeslotID = &timeslot.ID
	if err := repo.UpdateEvent(ctx, event); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	retrieved, err := repo.GetEvent(ctx, "event1")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if len(retrieved.RoomIDs) != 1 || retrieved.RoomIDs[0] != "room2" {
		t.Errorf("Expected room association replaced with room2, got %v", retrieved.RoomIDs)
	}
	if retrieved.StartTimeslotID == nil || *retrieved.StartTimeslotID != "slot1" {
		t.Errorf("Expected start timeslot slot1, got %v", retrieved.StartTimeslotID)
	}
}

func TestEventRepository_UnknownTrackRejected(t *testing.T) {
	pool := setupPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")

	event := persistence.Event{
		ID:           "event1",
		Title:        "Orphan",
		Active:       true,
		TrackID:      "missing-track",
		ConventionID: "con1",
		Duration:     1,
		CreatedAt:    testTimestamp(),
		UpdatedAt:    testTimestamp(),
	}
	if err := repo.CreateEvent(ctx, event); err != persistence.ErrForeignKeyViolation {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestEventRepository_ListFiltersByPresenter(t *testing.T) {
	pool := setupPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedTrack(t, pool, "track1", "Tech")
	presenter := persistence.Presenter{
		ID: "presenter1", FirstName: "Jo", LastName: "Lee", Active: true,
		CreatedAt: testTimestamp(), UpdatedAt: testTimestamp(),
	}
	if err := NewPresenterRepository(pool).CreatePresenter(ctx, presenter); err != nil {
		t.Fatalf("seed presenter failed: %v", err)
	}

	for _, spec := range []struct {
		id         string
		presenters []string
	}{
		{"event1", []string{"presenter1"}},
		{"event2", nil},
	} {
		event := persistence.Event{
			ID:           spec.id,
			Title:        "Event " + spec.id,
			Active:       true,
			TrackID:      "track1",
			ConventionID: "con1",
			Duration:     1,
			PresenterIDs: spec.presenters,
			CreatedAt:    testTimestamp(),
			UpdatedAt:    testTimestamp(),
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent %s failed: %v", spec.id, err)
		}
	}

	events, err := repo.ListEvents(ctx, persistence.EventFilter{PresenterID: "presenter1"})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "event1" {
		t.Errorf("Expected [event1], got %d events", len(events))
	}
}

func TestConventionRepository_DeleteCascades(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	seedConvention(t, pool, "con1")
	seedTrack(t, pool, "track1", "Tech")
	seedRoom(t, pool, "room1", "con1")
	seedTimeslot(t, pool, "slot1", "con1", 0)

	events := NewEventRepository(pool)
	event := persistence.Event{
		ID:           "event1",
		Title:        "Soldering 101",
		Active:       true,
		TrackID:      "track1",
		ConventionID: "con1",
		Duration:     1,
		RoomIDs:      []string{"room1"},
		CreatedAt:    testTimestamp(),
		UpdatedAt:    testTimestamp(),
	}
	if err := events.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := NewConventionRepository(pool).DeleteConvention(ctx, "con1"); err != nil {
		t.Fatalf("DeleteConvention failed: %v", err)
	}

	if _, err := events.GetEvent(ctx, "event1"); err != persistence.ErrNotFound {
		t.Fatalf("Expected event gone after cascade, got %v", err)
	}
	if _, err := NewRoomRepository(pool).GetRoom(ctx, "room1"); err != persistence.ErrNotFound {
		t.Fatalf("Expected room gone after cascade, got %v", err)
	}
	if _, err := NewTimeslotRepository(pool).GetTimeslot(ctx, "slot1"); err != persistence.ErrNotFound {
		t.Fatalf("Expected timeslot gone after cascade, got %v", err)
	}

	// Shared entities survive.
	if _, err := NewTrackRepository(pool).GetTrack(ctx, "track1"); err != nil {
		t.Fatalf("Expected track to survive cascade, got %v", err)
	}
}
