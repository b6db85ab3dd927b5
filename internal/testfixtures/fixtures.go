package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
)

var (
	conventionCounter uint64
	trackCounter      uint64
	roomCounter       uint64
	timeslotCounter   uint64
	eventCounter      uint64
	presenterCounter  uint64
	resourceCounter   uint64
)

var referenceTime = time.Date(2026, time.April, 24, 18, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It doubles as the default convention opening instant.
func ReferenceTime() time.Time {
	return referenceTime
}

// -------------------------- Convention fixtures --------------------------

// ConventionOption configures the generated convention record.
type ConventionOption func(*persistence.Convention)

// NewConvention returns a deterministic convention record with optional
// overrides. The grid defaults to a weekend of half-hour timeslots.
func NewConvention(opts ...ConventionOption) persistence.Convention {
	idx := atomic.AddUint64(&conventionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	convention := persistence.Convention{
		ID:                fmt.Sprintf("convention-%03d", idx),
		Name:              fmt.Sprintf("Convention %03d", idx),
		StartAt:           referenceTime,
		EndAt:             referenceTime.Add(54 * time.Hour),
		DateFormat:        "01/02/2006",
		DatetimeFormat:    "01/02/2006 03:04 PM",
		URL:               fmt.Sprintf("https://convention-%03d.example.org", idx),
		TimeslotDuration:  30 * time.Minute,
		NumberOfTimeslots: 108,
		Active:            true,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	for _, opt := range opts {
		opt(&convention)
	}
	return convention
}

// WithConventionID overrides the generated convention ID.
func WithConventionID(id string) ConventionOption {
	return func(c *persistence.Convention) {
		c.ID = id
	}
}

// WithConventionGrid sets the grid origin, slot width and slot count.
func WithConventionGrid(startAt time.Time, slotDuration time.Duration, slots int) ConventionOption {
	return func(c *persistence.Convention) {
		c.StartAt = startAt
		c.EndAt = startAt.Add(time.Duration(slots) * slotDuration)
		c.TimeslotDuration = slotDuration
		c.NumberOfTimeslots = slots
	}
}

// WithConventionInactive marks the convention inactive.
func WithConventionInactive() ConventionOption {
	return func(c *persistence.Convention) {
		c.Active = false
	}
}

// ----------------------------- Track fixtures -----------------------------

// TrackOption configures the generated track record.
type TrackOption func(*persistence.Track)

// NewTrack returns a deterministic track record with optional overrides.
func NewTrack(opts ...TrackOption) persistence.Track {
	idx := atomic.AddUint64(&trackCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	uid := fmt.Sprintf("track%03d", idx)
	track := persistence.Track{
		ID:            fmt.Sprintf("track-%03d", idx),
		Name:          fmt.Sprintf("Track %03d", idx),
		UID:           uid,
		Email:         fmt.Sprintf("%s@example.org", uid),
		HeadFirstName: "Head",
		HeadLastName:  fmt.Sprintf("Of%03d", idx),
		Active:        true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&track)
	}
	return track
}

// WithTrackID overrides the generated track ID.
func WithTrackID(id string) TrackOption {
	return func(tr *persistence.Track) {
		tr.ID = id
	}
}

// WithTrackName overrides the generated track name.
func WithTrackName(name string) TrackOption {
	return func(tr *persistence.Track) {
		tr.Name = name
	}
}

// WithTrackEmail overrides both the email and the derived uid.
func WithTrackEmail(email, uid string) TrackOption {
	return func(tr *persistence.Track) {
		tr.Email = email
		tr.UID = uid
	}
}

// ----------------------------- Room fixtures ------------------------------

// RoomOption configures the generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic room record with optional overrides.
// Rooms default to shared (no convention) with seating for forty.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:         fmt.Sprintf("room-%03d", idx),
		Name:       fmt.Sprintf("Room %03d", idx),
		SquareFeet: 600,
		Capacity:   40,
		Active:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// WithRoomCapacity sets the room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) {
		r.Capacity = capacity
	}
}

// WithRoomConvention ties the room to a single convention.
func WithRoomConvention(conventionID string) RoomOption {
	return func(r *persistence.Room) {
		r.ConventionID = &conventionID
	}
}

// WithRoomGroup places the room in a room group.
func WithRoomGroup(groupID string) RoomOption {
	return func(r *persistence.Room) {
		r.RoomGroupID = &groupID
	}
}

// --------------------------- Timeslot fixtures ----------------------------

// TimeslotOption configures the generated timeslot record.
type TimeslotOption func(*persistence.Timeslot)

// NewTimeslot returns a deterministic timeslot record. Callers normally set
// the convention and index explicitly; the defaults only guarantee
// uniqueness.
func NewTimeslot(conventionID string, index int, opts ...TimeslotOption) persistence.Timeslot {
	idx := atomic.AddUint64(&timeslotCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	timeslot := persistence.Timeslot{
		ID:           fmt.Sprintf("timeslot-%03d", idx),
		Index:        index,
		ConventionID: conventionID,
		Active:       true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&timeslot)
	}
	return timeslot
}

// WithTimeslotID overrides the generated timeslot ID.
func WithTimeslotID(id string) TimeslotOption {
	return func(ts *persistence.Timeslot) {
		ts.ID = id
	}
}

// WithTimeslotName sets a display name on the timeslot.
func WithTimeslotName(name string) TimeslotOption {
	return func(ts *persistence.Timeslot) {
		ts.Name = name
	}
}

// WithTimeslotInactive marks the timeslot inactive.
func WithTimeslotInactive() TimeslotOption {
	return func(ts *persistence.Timeslot) {
		ts.Active = false
	}
}

// ----------------------------- Event fixtures -----------------------------

// EventOption configures the generated event record.
type EventOption func(*persistence.Event)

// NewEvent returns a deterministic unscheduled event record belonging to the
// supplied convention and track.
func NewEvent(conventionID, trackID string, opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	event := persistence.Event{
		ID:           fmt.Sprintf("event-%03d", idx),
		Title:        fmt.Sprintf("Event %03d", idx),
		Active:       true,
		TrackID:      trackID,
		ConventionID: conventionID,
		Duration:     1,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventID overrides the generated event ID.
func WithEventID(id string) EventOption {
	return func(e *persistence.Event) {
		e.ID = id
	}
}

// WithEventDuration sets the duration in timeslots.
func WithEventDuration(duration int) EventOption {
	return func(e *persistence.Event) {
		e.Duration = duration
	}
}

// WithEventPlacement assigns the event to a room and starting timeslot.
func WithEventPlacement(roomID, startTimeslotID string) EventOption {
	return func(e *persistence.Event) {
		e.RoomIDs = []string{roomID}
		e.StartTimeslotID = &startTimeslotID
	}
}

// WithEventPresenters sets the presenter association.
func WithEventPresenters(presenterIDs ...string) EventOption {
	return func(e *persistence.Event) {
		e.PresenterIDs = presenterIDs
	}
}

// WithEventResources sets the resource association.
func WithEventResources(resourceIDs ...string) EventOption {
	return func(e *persistence.Event) {
		e.ResourceIDs = resourceIDs
	}
}

// WithEventSuitableRooms restricts the event to the listed rooms.
func WithEventSuitableRooms(roomIDs ...string) EventOption {
	return func(e *persistence.Event) {
		e.SuitableRoomIDs = roomIDs
	}
}

// WithEventSeating sets players and table counts for expected attendance.
func WithEventSeating(players, roundTables, longTables int) EventOption {
	return func(e *persistence.Event) {
		e.Players = players
		e.RoundTables = roundTables
		e.LongTables = longTables
	}
}

// WithEventFixed pins the event to its current placement.
func WithEventFixed() EventOption {
	return func(e *persistence.Event) {
		e.Fixed = true
	}
}

// --------------------------- Presenter fixtures ---------------------------

// PresenterOption configures the generated presenter record.
type PresenterOption func(*persistence.Presenter)

// NewPresenter returns a deterministic presenter record.
func NewPresenter(opts ...PresenterOption) persistence.Presenter {
	idx := atomic.AddUint64(&presenterCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	presenter := persistence.Presenter{
		ID:        fmt.Sprintf("presenter-%03d", idx),
		FirstName: "Presenter",
		LastName:  fmt.Sprintf("%03d", idx),
		Email:     fmt.Sprintf("presenter-%03d@example.org", idx),
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&presenter)
	}
	return presenter
}

// WithPresenterID overrides the generated presenter ID.
func WithPresenterID(id string) PresenterOption {
	return func(p *persistence.Presenter) {
		p.ID = id
	}
}

// WithPresenterName sets the presenter's name.
func WithPresenterName(first, last string) PresenterOption {
	return func(p *persistence.Presenter) {
		p.FirstName = first
		p.LastName = last
	}
}

// ---------------------------- Resource fixtures ---------------------------

// ResourceOption configures the generated resource record.
type ResourceOption func(*persistence.Resource)

// NewResource returns a deterministic resource record.
func NewResource(opts ...ResourceOption) persistence.Resource {
	idx := atomic.AddUint64(&resourceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	resource := persistence.Resource{
		ID:        fmt.Sprintf("resource-%03d", idx),
		Name:      fmt.Sprintf("Resource %03d", idx),
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&resource)
	}
	return resource
}

// WithResourceID overrides the generated resource ID.
func WithResourceID(id string) ResourceOption {
	return func(r *persistence.Resource) {
		r.ID = id
	}
}

// WithResourceExclusive marks the resource exclusive-use.
func WithResourceExclusive() ResourceOption {
	return func(r *persistence.Resource) {
		r.Exclusive = true
	}
}
