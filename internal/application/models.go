package application

import "time"

// ConventionInput captures caller provided convention fields.
type ConventionInput struct {
	Name              string
	Description       string
	StartAt           time.Time
	EndAt             time.Time
	DateFormat        string
	DatetimeFormat    string
	URL               string
	TimeslotDuration  time.Duration
	NumberOfTimeslots int
}

// TrackInput captures caller provided track fields. The track uid is derived
// from Email at creation and is not a caller concern.
type TrackInput struct {
	Name          string
	Email         string
	HeadFirstName string
	HeadLastName  string
}

// TrackUpdateInput carries the mutable track fields. Name stays unique;
// email and uid are fixed at creation.
type TrackUpdateInput struct {
	Name          string
	HeadFirstName string
	HeadLastName  string
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name         string
	SquareFeet   int
	Capacity     int
	RoomGroupID  *string
	ConventionID *string
}

// RoomGroupInput captures caller provided room group fields.
type RoomGroupInput struct {
	Name string
}

// ResourceInput captures caller provided resource fields.
type ResourceInput struct {
	Name                   string
	RequestFormLabel       string
	DisplayedOnRequestForm bool
	Exclusive              bool
}

// PresenterInput captures caller provided presenter fields.
type PresenterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// EventTypeInput captures caller provided event type fields.
type EventTypeInput struct {
	Name string
}

// TimeslotInput captures caller provided timeslot fields.
type TimeslotInput struct {
	Index        int
	Name         string
	ConventionID string
}

// EventInput captures caller provided event fields and association sets.
type EventInput struct {
	Title           string
	Description     string
	Comments        string
	TrackID         string
	EventTypeID     *string
	ConventionID    string
	Duration        int
	Fixed           bool
	Players         int
	RoundTables     int
	LongTables      int
	FacilityRequest string
	ResourceIDs     []string
	PresenterIDs    []string
	SuitableRoomIDs []string
}

// Placement identifies a proposed (event, room, starting timeslot index)
// assignment.
type Placement struct {
	EventID    string
	RoomID     string
	StartIndex int
}

// Violation mirrors a single scheduler violation for external callers.
type Violation struct {
	Kind        string
	WithEventID string
	PresenterID string
	ResourceID  string
	SlotIndex   int
}

// Verdict is the externally visible outcome of a placement check.
type Verdict struct {
	Pass       bool
	Violations []Violation
}

// EventFilter narrows event listings.
type EventFilter struct {
	ConventionID string
	TrackID      string
	RoomID       string
	PresenterID  string
	ActiveOnly   bool
}

// ImportRow is one record of a batch event import.
type ImportRow struct {
	Title           string
	Description     string
	TrackName       string
	Duration        int
	FacilityRequest string
}

// SkippedRow reports an import row excluded because its track is unknown.
type SkippedRow struct {
	Line      int
	TrackName string
	Title     string
}

// ImportReport summarises a batch import: how many events were created and
// which rows were skipped. Skipped rows are a policy outcome, not an error.
type ImportReport struct {
	Created int
	Skipped []SkippedRow
}
