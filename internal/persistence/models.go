package persistence

import "time"

// Convention represents a single convention and its scheduling grid settings.
type Convention struct {
	ID                string
	Name              string
	Description       string
	StartAt           time.Time
	EndAt             time.Time
	DateFormat        string
	DatetimeFormat    string
	URL               string
	TimeslotDuration  time.Duration
	NumberOfTimeslots int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Track represents a subject-matter programming division headed by staff.
// UID is derived from the email local part at creation and never changes.
type Track struct {
	ID            string
	Name          string
	UID           string
	Email         string
	HeadFirstName string
	HeadLastName  string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Room represents a bookable physical room.
type Room struct {
	ID          string
	Name        string
	SquareFeet  int
	Capacity    int
	RoomGroupID *string
	// ConventionID is nil for rooms shared across conventions.
	ConventionID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoomGroup clusters rooms, typically by building or floor.
type RoomGroup struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resource represents equipment or needs an event may require.
type Resource struct {
	ID                     string
	Name                   string
	RequestFormLabel       string
	DisplayedOnRequestForm bool
	// Exclusive marks the resource as single-use across overlapping events.
	Exclusive bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Presenter represents a person presenting at zero or more events.
type Presenter struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventType is a categorical tag for events (panel, workshop, LARP, ...).
type EventType struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Timeslot is a fixed-width time bucket, indexed 0-based within a convention.
type Timeslot struct {
	ID            string
	Index         int
	Name          string
	ConventionID  string
	RSVPConflicts int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Event represents a programming item together with its association sets.
// The association slices map one-to-one onto the room_event, event_resources,
// presenter_event and room_suitability tables.
type Event struct {
	ID              string
	Title           string
	Description     string
	Comments        string
	Active          bool
	TrackID         string
	EventTypeID     *string
	ConventionID    string
	StartTimeslotID *string
	// Duration counts consecutive timeslots, starting at StartTimeslotID.
	Duration        int
	Fixed           bool
	Players         int
	RoundTables     int
	LongTables      int
	FacilityRequest string
	RoomIDs         []string
	ResourceIDs     []string
	PresenterIDs    []string
	SuitableRoomIDs []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
