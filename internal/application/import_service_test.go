package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/convention-scheduler/internal/testfixtures"
)

func newImportEnv() (*memoryStore, *ImportService) {
	store := newMemoryStore()
	service := NewImportService(
		memoryEventRepo{store},
		memoryTrackRepo{store},
		memoryConventionRepo{store},
		testfixtures.NewIDGenerator("import").NextFunc(),
		testfixtures.NewClock(testfixtures.ReferenceTime()).NowFunc(),
		nil,
	)
	return store, service
}

func TestImportEventsSkipsUnknownTracks(t *testing.T) {
	store, service := newImportEnv()
	convention := testfixtures.NewConvention()
	store.conventions[convention.ID] = convention
	track := testfixtures.NewTrack(testfixtures.WithTrackName("Tech"))
	store.tracks[track.ID] = track

	report, err := service.ImportEvents(context.Background(), convention.ID, []ImportRow{
		{Title: "Lockpicking 101", TrackName: "Tech", Duration: 2},
		{Title: "Mystery Panel", TrackName: "Nonexistent", Duration: 1},
		{Title: "Untracked", TrackName: "", Duration: 1},
	}, nil)
	if err != nil {
		t.Fatalf("ImportEvents: %v", err)
	}

	if report.Created != 1 {
		t.Errorf("created = %d, want 1", report.Created)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("skipped = %+v, want 2 rows", report.Skipped)
	}
	if report.Skipped[0].Line != 2 || report.Skipped[0].Title != "Mystery Panel" {
		t.Errorf("first skip = %+v", report.Skipped[0])
	}
	if report.Skipped[1].Line != 3 {
		t.Errorf("second skip = %+v", report.Skipped[1])
	}

	if len(store.events) != 1 {
		t.Fatalf("stored %d events, want 1", len(store.events))
	}
	for _, event := range store.events {
		if event.TrackID != track.ID {
			t.Errorf("event track = %s, want %s", event.TrackID, track.ID)
		}
		if event.StartTimeslotID != nil {
			t.Error("imported events start unscheduled")
		}
		if event.Duration != 2 {
			t.Errorf("duration = %d, want 2", event.Duration)
		}
	}
}

func TestImportEventsAppliesAliases(t *testing.T) {
	store, service := newImportEnv()
	convention := testfixtures.NewConvention()
	store.conventions[convention.ID] = convention
	track := testfixtures.NewTrack(testfixtures.WithTrackName("Gaming"))
	store.tracks[track.ID] = track

	report, err := service.ImportEvents(context.Background(), convention.ID, []ImportRow{
		{Title: "D&D One-Shot", TrackName: "Tabletop", Duration: 4},
	}, map[string]string{"Tabletop": "Gaming"})
	if err != nil {
		t.Fatalf("ImportEvents: %v", err)
	}
	if report.Created != 1 || len(report.Skipped) != 0 {
		t.Fatalf("report = %+v", report)
	}
	for _, event := range store.events {
		if event.TrackID != track.ID {
			t.Errorf("alias not applied: track = %s, want %s", event.TrackID, track.ID)
		}
	}
}

func TestImportEventsFloorsDuration(t *testing.T) {
	store, service := newImportEnv()
	convention := testfixtures.NewConvention()
	store.conventions[convention.ID] = convention
	track := testfixtures.NewTrack(testfixtures.WithTrackName("Science"))
	store.tracks[track.ID] = track

	_, err := service.ImportEvents(context.Background(), convention.ID, []ImportRow{
		{Title: "Lightning Talks", TrackName: "Science", Duration: 0},
	}, nil)
	if err != nil {
		t.Fatalf("ImportEvents: %v", err)
	}
	for _, event := range store.events {
		if event.Duration != 1 {
			t.Errorf("duration = %d, want floor of 1", event.Duration)
		}
	}
}

func TestImportEventsUnknownConvention(t *testing.T) {
	_, service := newImportEnv()

	_, err := service.ImportEvents(context.Background(), "missing", []ImportRow{
		{Title: "Anything", TrackName: "Tech", Duration: 1},
	}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
