package timegrid

import (
	"errors"
	"testing"
	"time"
)

func TestGrid_SlotStart(t *testing.T) {
	t.Parallel()

	grid := Grid{
		StartAt:      time.Date(2026, time.April, 24, 16, 0, 0, 0, time.UTC),
		SlotDuration: time.Hour,
	}

	cases := []struct {
		index int
		want  time.Time
	}{
		{index: 0, want: time.Date(2026, time.April, 24, 16, 0, 0, 0, time.UTC)},
		{index: 1, want: time.Date(2026, time.April, 24, 17, 0, 0, 0, time.UTC)},
		{index: 27, want: time.Date(2026, time.April, 25, 19, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		if got := grid.SlotStart(tc.index); !got.Equal(tc.want) {
			t.Fatalf("SlotStart(%d) = %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestFormat_FallbackLayout(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, time.April, 24, 19, 30, 0, 0, time.UTC)
	got, err := Format(instant, "")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if got != "04/24/2026 07:30 PM" {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormat_ConfiguredLayout(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, time.April, 25, 10, 0, 0, 0, time.UTC)
	got, err := Format(instant, "Mon 3:04 PM")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if got != "Sat 10:00 AM" {
		t.Fatalf("Format = %q", got)
	}
}

func TestValidateLayout_RejectsStrftimePatterns(t *testing.T) {
	t.Parallel()

	for _, layout := range []string{"%m/%d/%Y %I:%M %p", "%H:%M", "   "} {
		if err := ValidateLayout(layout); !errors.Is(err, ErrBadLayout) {
			t.Fatalf("ValidateLayout(%q) = %v, want ErrBadLayout", layout, err)
		}
	}
}

func TestFormat_MalformedLayoutPropagates(t *testing.T) {
	t.Parallel()

	_, err := Format(time.Now(), "%Y-%m-%d")
	if !errors.Is(err, ErrBadLayout) {
		t.Fatalf("expected ErrBadLayout, got %v", err)
	}
}
