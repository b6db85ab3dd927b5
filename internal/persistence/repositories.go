package persistence

import "context"

// ConventionRepository exposes CRUD operations for conventions. Deleting a
// convention cascades to its rooms, timeslots and events.
type ConventionRepository interface {
	CreateConvention(ctx context.Context, convention Convention) error
	UpdateConvention(ctx context.Context, convention Convention) error
	GetConvention(ctx context.Context, id string) (Convention, error)
	ListConventions(ctx context.Context) ([]Convention, error)
	DeleteConvention(ctx context.Context, id string) error
}

// TrackRepository exposes CRUD operations for tracks.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track Track) error
	UpdateTrack(ctx context.Context, track Track) error
	GetTrack(ctx context.Context, id string) (Track, error)
	GetTrackByName(ctx context.Context, name string) (Track, error)
	ListTracks(ctx context.Context) ([]Track, error)
	DeleteTrack(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, conventionID string) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomGroupRepository exposes CRUD operations for room groups.
type RoomGroupRepository interface {
	CreateRoomGroup(ctx context.Context, group RoomGroup) error
	UpdateRoomGroup(ctx context.Context, group RoomGroup) error
	GetRoomGroup(ctx context.Context, id string) (RoomGroup, error)
	ListRoomGroups(ctx context.Context) ([]RoomGroup, error)
	DeleteRoomGroup(ctx context.Context, id string) error
}

// ResourceRepository exposes CRUD operations for resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource Resource) error
	UpdateResource(ctx context.Context, resource Resource) error
	GetResource(ctx context.Context, id string) (Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// PresenterRepository exposes CRUD operations for presenters.
type PresenterRepository interface {
	CreatePresenter(ctx context.Context, presenter Presenter) error
	UpdatePresenter(ctx context.Context, presenter Presenter) error
	GetPresenter(ctx context.Context, id string) (Presenter, error)
	ListPresenters(ctx context.Context) ([]Presenter, error)
	DeletePresenter(ctx context.Context, id string) error
}

// EventTypeRepository exposes CRUD operations for event types.
type EventTypeRepository interface {
	CreateEventType(ctx context.Context, eventType EventType) error
	UpdateEventType(ctx context.Context, eventType EventType) error
	GetEventType(ctx context.Context, id string) (EventType, error)
	ListEventTypes(ctx context.Context) ([]EventType, error)
	DeleteEventType(ctx context.Context, id string) error
}

// TimeslotRepository stores timeslots and the room_availability relation.
type TimeslotRepository interface {
	CreateTimeslot(ctx context.Context, timeslot Timeslot) error
	UpdateTimeslot(ctx context.Context, timeslot Timeslot) error
	GetTimeslot(ctx context.Context, id string) (Timeslot, error)
	ListTimeslots(ctx context.Context, conventionID string) ([]Timeslot, error)
	DeleteTimeslot(ctx context.Context, id string) error

	// SetRoomAvailability adds or removes a (timeslot, room) availability pair.
	SetRoomAvailability(ctx context.Context, timeslotID, roomID string, available bool) error
	AvailableRoomIDs(ctx context.Context, timeslotID string) ([]string, error)
	AvailableTimeslotIDs(ctx context.Context, roomID string) ([]string, error)
}

// EventFilter narrows event queries.
type EventFilter struct {
	ConventionID string
	TrackID      string
	RoomID       string
	PresenterID  string
	ActiveOnly   bool
}

// EventRepository stores events and their association sets. Create and
// Update persist the event row and all four association tables atomically.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
