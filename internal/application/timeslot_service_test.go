package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/convention-scheduler/internal/testfixtures"
)

func newTimeslotEnv() (*memoryStore, *TimeslotService) {
	store := newMemoryStore()
	service := NewTimeslotService(
		memoryTimeslotRepo{store},
		memoryConventionRepo{store},
		memoryRoomRepo{store},
		testfixtures.NewIDGenerator("slot").NextFunc(),
		testfixtures.NewClock(testfixtures.ReferenceTime()).NowFunc(),
		nil,
	)
	return store, service
}

func TestPopulateGridFillsMissingIndexes(t *testing.T) {
	store, service := newTimeslotEnv()
	convention := testfixtures.NewConvention(testfixtures.WithConventionGrid(testfixtures.ReferenceTime(), 30*time.Minute, 8))
	store.conventions[convention.ID] = convention

	// Index 3 already exists; populate must fill around it.
	existing := testfixtures.NewTimeslot(convention.ID, 3)
	store.timeslots[existing.ID] = existing

	created, err := service.PopulateGrid(context.Background(), convention.ID)
	if err != nil {
		t.Fatalf("PopulateGrid: %v", err)
	}
	if len(created) != 7 {
		t.Errorf("created %d timeslots, want 7", len(created))
	}

	all, err := service.ListTimeslots(context.Background(), convention.ID)
	if err != nil {
		t.Fatalf("ListTimeslots: %v", err)
	}
	if len(all) != 8 {
		t.Fatalf("grid has %d timeslots, want 8", len(all))
	}
	for i, timeslot := range all {
		if timeslot.Index != i {
			t.Errorf("position %d holds index %d", i, timeslot.Index)
		}
	}
}

func TestPopulateGridIsIdempotent(t *testing.T) {
	store, service := newTimeslotEnv()
	convention := testfixtures.NewConvention(testfixtures.WithConventionGrid(testfixtures.ReferenceTime(), 30*time.Minute, 4))
	store.conventions[convention.ID] = convention
	ctx := context.Background()

	if _, err := service.PopulateGrid(ctx, convention.ID); err != nil {
		t.Fatalf("first PopulateGrid: %v", err)
	}
	created, err := service.PopulateGrid(ctx, convention.ID)
	if err != nil {
		t.Fatalf("second PopulateGrid: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("second populate created %d timeslots, want 0", len(created))
	}
}

func TestCreateTimeslotDuplicateIndex(t *testing.T) {
	store, service := newTimeslotEnv()
	convention := testfixtures.NewConvention()
	store.conventions[convention.ID] = convention
	ctx := context.Background()

	if _, err := service.CreateTimeslot(ctx, TimeslotInput{Index: 5, ConventionID: convention.ID}); err != nil {
		t.Fatalf("first CreateTimeslot: %v", err)
	}
	_, err := service.CreateTimeslot(ctx, TimeslotInput{Index: 5, ConventionID: convention.ID})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestSetRoomAvailability(t *testing.T) {
	store, service := newTimeslotEnv()
	convention := testfixtures.NewConvention()
	store.conventions[convention.ID] = convention
	timeslot := testfixtures.NewTimeslot(convention.ID, 0)
	store.timeslots[timeslot.ID] = timeslot
	room := testfixtures.NewRoom()
	store.rooms[room.ID] = room
	ctx := context.Background()

	if err := service.SetRoomAvailability(ctx, timeslot.ID, room.ID, true); err != nil {
		t.Fatalf("SetRoomAvailability: %v", err)
	}
	rooms, err := service.AvailableRooms(ctx, timeslot.ID)
	if err != nil {
		t.Fatalf("AvailableRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != room.ID {
		t.Fatalf("available rooms = %+v", rooms)
	}

	if err := service.SetRoomAvailability(ctx, timeslot.ID, room.ID, false); err != nil {
		t.Fatalf("clear SetRoomAvailability: %v", err)
	}
	rooms, err = service.AvailableRooms(ctx, timeslot.ID)
	if err != nil {
		t.Fatalf("AvailableRooms after clear: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("available rooms after clear = %+v", rooms)
	}
}
