// Package timegrid converts between a convention's discrete timeslot indexes
// and wall-clock instants. Functions here are pure: index bounds are the
// conflict checker's concern, not the grid's.
package timegrid

import (
	"errors"
	"strings"
	"time"
)

// FallbackLayout renders instants as MM/DD/YYYY hh:mm AM/PM when a
// convention declares no datetime format of its own.
const FallbackLayout = "01/02/2006 03:04 PM"

// ErrBadLayout is returned when a convention's configured datetime format is
// not a usable Go reference layout.
var ErrBadLayout = errors.New("timegrid: malformed datetime layout")

// Grid positions timeslot indexes on the wall clock for one convention.
type Grid struct {
	StartAt      time.Time
	SlotDuration time.Duration
}

// SlotStart returns the instant at which the timeslot with the given 0-based
// index begins.
func (g Grid) SlotStart(index int) time.Time {
	return g.StartAt.Add(g.SlotDuration * time.Duration(index))
}

// Format renders an instant using the given layout, falling back to
// FallbackLayout when the layout is empty.
func Format(t time.Time, layout string) (string, error) {
	if strings.TrimSpace(layout) == "" {
		layout = FallbackLayout
	}
	if err := ValidateLayout(layout); err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ValidateLayout reports whether layout is usable as a Go reference layout.
// Conventions migrated from older tooling sometimes carry strftime patterns;
// those are rejected rather than rendered as literal text.
func ValidateLayout(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return ErrBadLayout
	}
	if strings.Contains(layout, "%") {
		return ErrBadLayout
	}
	reference := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	if _, err := time.Parse(layout, reference.Format(layout)); err != nil {
		return ErrBadLayout
	}
	return nil
}
