package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/convention-scheduler/internal/testfixtures"
)

func newConventionService(store *memoryStore) *ConventionService {
	return NewConventionService(
		memoryConventionRepo{store},
		testfixtures.NewIDGenerator("convention").NextFunc(),
		testfixtures.NewClock(testfixtures.ReferenceTime()).NowFunc(),
		nil,
	)
}

func validConventionInput() ConventionInput {
	start := testfixtures.ReferenceTime()
	return ConventionInput{
		Name:              "Penguicon 2026",
		StartAt:           start,
		EndAt:             start.Add(54 * time.Hour),
		DatetimeFormat:    "01/02/2006 03:04 PM",
		TimeslotDuration:  30 * time.Minute,
		NumberOfTimeslots: 108,
	}
}

func TestCreateConvention(t *testing.T) {
	store := newMemoryStore()
	service := newConventionService(store)

	convention, err := service.CreateConvention(context.Background(), validConventionInput())
	if err != nil {
		t.Fatalf("CreateConvention: %v", err)
	}
	if convention.ID == "" {
		t.Error("expected a generated id")
	}
	if !convention.Active {
		t.Error("new conventions start active")
	}
	if _, ok := store.conventions[convention.ID]; !ok {
		t.Error("convention not persisted")
	}
}

func TestCreateConventionValidation(t *testing.T) {
	service := newConventionService(newMemoryStore())

	cases := []struct {
		name   string
		mutate func(*ConventionInput)
		field  string
	}{
		{"missing name", func(in *ConventionInput) { in.Name = " " }, "name"},
		{"zero start", func(in *ConventionInput) { in.StartAt = time.Time{} }, "start_at"},
		{"end before start", func(in *ConventionInput) { in.EndAt = in.StartAt.Add(-time.Hour) }, "time"},
		{"non-positive slot width", func(in *ConventionInput) { in.TimeslotDuration = 0 }, "timeslot_duration"},
		{"no slots", func(in *ConventionInput) { in.NumberOfTimeslots = 0 }, "number_of_timeslots"},
		{"bad datetime layout", func(in *ConventionInput) { in.DatetimeFormat = "%m/%d/%Y %I:%M %p" }, "datetime_format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validConventionInput()
			tc.mutate(&input)

			_, err := service.CreateConvention(context.Background(), input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Errorf("missing field error for %q: %v", tc.field, vErr.FieldErrors)
			}
		})
	}
}

func TestCreateConventionDuplicateName(t *testing.T) {
	service := newConventionService(newMemoryStore())
	ctx := context.Background()

	if _, err := service.CreateConvention(ctx, validConventionInput()); err != nil {
		t.Fatalf("first CreateConvention: %v", err)
	}
	_, err := service.CreateConvention(ctx, validConventionInput())
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestUpdateConvention(t *testing.T) {
	store := newMemoryStore()
	service := newConventionService(store)
	ctx := context.Background()

	created, err := service.CreateConvention(ctx, validConventionInput())
	if err != nil {
		t.Fatalf("CreateConvention: %v", err)
	}

	input := validConventionInput()
	input.Name = "Penguicon 2027"
	input.NumberOfTimeslots = 120
	updated, err := service.UpdateConvention(ctx, created.ID, input)
	if err != nil {
		t.Fatalf("UpdateConvention: %v", err)
	}
	if updated.Name != "Penguicon 2027" || updated.NumberOfTimeslots != 120 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Error("creation timestamp must not change")
	}
}

func TestDeactivateConvention(t *testing.T) {
	store := newMemoryStore()
	service := newConventionService(store)
	ctx := context.Background()

	created, err := service.CreateConvention(ctx, validConventionInput())
	if err != nil {
		t.Fatalf("CreateConvention: %v", err)
	}
	if err := service.DeactivateConvention(ctx, created.ID); err != nil {
		t.Fatalf("DeactivateConvention: %v", err)
	}
	if store.conventions[created.ID].Active {
		t.Error("convention should be inactive")
	}
}

func TestGetConventionNotFound(t *testing.T) {
	service := newConventionService(newMemoryStore())

	_, err := service.GetConvention(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
