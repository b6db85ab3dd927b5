package application

import (
	"context"
	"sort"

	"github.com/example/convention-scheduler/internal/persistence"
)

// memoryStore backs the service tests with map based repositories sharing
// one dataset, mirroring the relational layout closely enough for the
// snapshot assembly paths.
type memoryStore struct {
	conventions map[string]persistence.Convention
	tracks      map[string]persistence.Track
	rooms       map[string]persistence.Room
	roomGroups  map[string]persistence.RoomGroup
	resources   map[string]persistence.Resource
	presenters  map[string]persistence.Presenter
	eventTypes  map[string]persistence.EventType
	timeslots   map[string]persistence.Timeslot
	events      map[string]persistence.Event
	// availability holds timeslotID -> roomID -> available.
	availability map[string]map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		conventions:  map[string]persistence.Convention{},
		tracks:       map[string]persistence.Track{},
		rooms:        map[string]persistence.Room{},
		roomGroups:   map[string]persistence.RoomGroup{},
		resources:    map[string]persistence.Resource{},
		presenters:   map[string]persistence.Presenter{},
		eventTypes:   map[string]persistence.EventType{},
		timeslots:    map[string]persistence.Timeslot{},
		events:       map[string]persistence.Event{},
		availability: map[string]map[string]bool{},
	}
}

type memoryConventionRepo struct{ store *memoryStore }

func (r memoryConventionRepo) CreateConvention(_ context.Context, convention persistence.Convention) error {
	if _, ok := r.store.conventions[convention.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range r.store.conventions {
		if existing.Name == convention.Name {
			return persistence.ErrDuplicate
		}
	}
	r.store.conventions[convention.ID] = convention
	return nil
}

func (r memoryConventionRepo) UpdateConvention(_ context.Context, convention persistence.Convention) error {
	if _, ok := r.store.conventions[convention.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.conventions[convention.ID] = convention
	return nil
}

func (r memoryConventionRepo) GetConvention(_ context.Context, id string) (persistence.Convention, error) {
	convention, ok := r.store.conventions[id]
	if !ok {
		return persistence.Convention{}, persistence.ErrNotFound
	}
	return convention, nil
}

func (r memoryConventionRepo) ListConventions(context.Context) ([]persistence.Convention, error) {
	out := make([]persistence.Convention, 0, len(r.store.conventions))
	for _, convention := range r.store.conventions {
		out = append(out, convention)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryConventionRepo) DeleteConvention(_ context.Context, id string) error {
	if _, ok := r.store.conventions[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.conventions, id)
	return nil
}

type memoryTrackRepo struct{ store *memoryStore }

func (r memoryTrackRepo) CreateTrack(_ context.Context, track persistence.Track) error {
	for _, existing := range r.store.tracks {
		if existing.Name == track.Name || existing.UID == track.UID || existing.Email == track.Email {
			return persistence.ErrDuplicate
		}
	}
	r.store.tracks[track.ID] = track
	return nil
}

func (r memoryTrackRepo) UpdateTrack(_ context.Context, track persistence.Track) error {
	if _, ok := r.store.tracks[track.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.tracks[track.ID] = track
	return nil
}

func (r memoryTrackRepo) GetTrack(_ context.Context, id string) (persistence.Track, error) {
	track, ok := r.store.tracks[id]
	if !ok {
		return persistence.Track{}, persistence.ErrNotFound
	}
	return track, nil
}

func (r memoryTrackRepo) GetTrackByName(_ context.Context, name string) (persistence.Track, error) {
	for _, track := range r.store.tracks {
		if track.Name == name {
			return track, nil
		}
	}
	return persistence.Track{}, persistence.ErrNotFound
}

func (r memoryTrackRepo) ListTracks(context.Context) ([]persistence.Track, error) {
	out := make([]persistence.Track, 0, len(r.store.tracks))
	for _, track := range r.store.tracks {
		out = append(out, track)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryTrackRepo) DeleteTrack(_ context.Context, id string) error {
	if _, ok := r.store.tracks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.tracks, id)
	return nil
}

type memoryRoomRepo struct{ store *memoryStore }

func (r memoryRoomRepo) CreateRoom(_ context.Context, room persistence.Room) error {
	r.store.rooms[room.ID] = room
	return nil
}

func (r memoryRoomRepo) UpdateRoom(_ context.Context, room persistence.Room) error {
	if _, ok := r.store.rooms[room.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.rooms[room.ID] = room
	return nil
}

func (r memoryRoomRepo) GetRoom(_ context.Context, id string) (persistence.Room, error) {
	room, ok := r.store.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (r memoryRoomRepo) ListRooms(_ context.Context, conventionID string) ([]persistence.Room, error) {
	out := make([]persistence.Room, 0, len(r.store.rooms))
	for _, room := range r.store.rooms {
		if conventionID != "" && room.ConventionID != nil && *room.ConventionID != conventionID {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryRoomRepo) DeleteRoom(_ context.Context, id string) error {
	if _, ok := r.store.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.rooms, id)
	return nil
}

type memoryRoomGroupRepo struct{ store *memoryStore }

func (r memoryRoomGroupRepo) CreateRoomGroup(_ context.Context, group persistence.RoomGroup) error {
	for _, existing := range r.store.roomGroups {
		if existing.Name == group.Name {
			return persistence.ErrDuplicate
		}
	}
	r.store.roomGroups[group.ID] = group
	return nil
}

func (r memoryRoomGroupRepo) UpdateRoomGroup(_ context.Context, group persistence.RoomGroup) error {
	if _, ok := r.store.roomGroups[group.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.roomGroups[group.ID] = group
	return nil
}

func (r memoryRoomGroupRepo) GetRoomGroup(_ context.Context, id string) (persistence.RoomGroup, error) {
	group, ok := r.store.roomGroups[id]
	if !ok {
		return persistence.RoomGroup{}, persistence.ErrNotFound
	}
	return group, nil
}

func (r memoryRoomGroupRepo) ListRoomGroups(context.Context) ([]persistence.RoomGroup, error) {
	out := make([]persistence.RoomGroup, 0, len(r.store.roomGroups))
	for _, group := range r.store.roomGroups {
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryRoomGroupRepo) DeleteRoomGroup(_ context.Context, id string) error {
	if _, ok := r.store.roomGroups[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.roomGroups, id)
	return nil
}

type memoryResourceRepo struct{ store *memoryStore }

func (r memoryResourceRepo) CreateResource(_ context.Context, resource persistence.Resource) error {
	r.store.resources[resource.ID] = resource
	return nil
}

func (r memoryResourceRepo) UpdateResource(_ context.Context, resource persistence.Resource) error {
	if _, ok := r.store.resources[resource.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.resources[resource.ID] = resource
	return nil
}

func (r memoryResourceRepo) GetResource(_ context.Context, id string) (persistence.Resource, error) {
	resource, ok := r.store.resources[id]
	if !ok {
		return persistence.Resource{}, persistence.ErrNotFound
	}
	return resource, nil
}

func (r memoryResourceRepo) ListResources(context.Context) ([]persistence.Resource, error) {
	out := make([]persistence.Resource, 0, len(r.store.resources))
	for _, resource := range r.store.resources {
		out = append(out, resource)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryResourceRepo) DeleteResource(_ context.Context, id string) error {
	if _, ok := r.store.resources[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.resources, id)
	return nil
}

type memoryPresenterRepo struct{ store *memoryStore }

func (r memoryPresenterRepo) CreatePresenter(_ context.Context, presenter persistence.Presenter) error {
	r.store.presenters[presenter.ID] = presenter
	return nil
}

func (r memoryPresenterRepo) UpdatePresenter(_ context.Context, presenter persistence.Presenter) error {
	if _, ok := r.store.presenters[presenter.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.presenters[presenter.ID] = presenter
	return nil
}

func (r memoryPresenterRepo) GetPresenter(_ context.Context, id string) (persistence.Presenter, error) {
	presenter, ok := r.store.presenters[id]
	if !ok {
		return persistence.Presenter{}, persistence.ErrNotFound
	}
	return presenter, nil
}

func (r memoryPresenterRepo) ListPresenters(context.Context) ([]persistence.Presenter, error) {
	out := make([]persistence.Presenter, 0, len(r.store.presenters))
	for _, presenter := range r.store.presenters {
		out = append(out, presenter)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryPresenterRepo) DeletePresenter(_ context.Context, id string) error {
	if _, ok := r.store.presenters[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.presenters, id)
	return nil
}

type memoryEventTypeRepo struct{ store *memoryStore }

func (r memoryEventTypeRepo) CreateEventType(_ context.Context, eventType persistence.EventType) error {
	r.store.eventTypes[eventType.ID] = eventType
	return nil
}

func (r memoryEventTypeRepo) UpdateEventType(_ context.Context, eventType persistence.EventType) error {
	if _, ok := r.store.eventTypes[eventType.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.eventTypes[eventType.ID] = eventType
	return nil
}

func (r memoryEventTypeRepo) GetEventType(_ context.Context, id string) (persistence.EventType, error) {
	eventType, ok := r.store.eventTypes[id]
	if !ok {
		return persistence.EventType{}, persistence.ErrNotFound
	}
	return eventType, nil
}

func (r memoryEventTypeRepo) ListEventTypes(context.Context) ([]persistence.EventType, error) {
	out := make([]persistence.EventType, 0, len(r.store.eventTypes))
	for _, eventType := range r.store.eventTypes {
		out = append(out, eventType)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryEventTypeRepo) DeleteEventType(_ context.Context, id string) error {
	if _, ok := r.store.eventTypes[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.eventTypes, id)
	return nil
}

type memoryTimeslotRepo struct{ store *memoryStore }

func (r memoryTimeslotRepo) CreateTimeslot(_ context.Context, timeslot persistence.Timeslot) error {
	for _, existing := range r.store.timeslots {
		if existing.ConventionID == timeslot.ConventionID && existing.Index == timeslot.Index {
			return persistence.ErrDuplicate
		}
	}
	r.store.timeslots[timeslot.ID] = timeslot
	return nil
}

func (r memoryTimeslotRepo) UpdateTimeslot(_ context.Context, timeslot persistence.Timeslot) error {
	if _, ok := r.store.timeslots[timeslot.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.timeslots[timeslot.ID] = timeslot
	return nil
}

func (r memoryTimeslotRepo) GetTimeslot(_ context.Context, id string) (persistence.Timeslot, error) {
	timeslot, ok := r.store.timeslots[id]
	if !ok {
		return persistence.Timeslot{}, persistence.ErrNotFound
	}
	return timeslot, nil
}

func (r memoryTimeslotRepo) ListTimeslots(_ context.Context, conventionID string) ([]persistence.Timeslot, error) {
	out := make([]persistence.Timeslot, 0, len(r.store.timeslots))
	for _, timeslot := range r.store.timeslots {
		if timeslot.ConventionID == conventionID {
			out = append(out, timeslot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r memoryTimeslotRepo) DeleteTimeslot(_ context.Context, id string) error {
	if _, ok := r.store.timeslots[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.timeslots, id)
	return nil
}

func (r memoryTimeslotRepo) SetRoomAvailability(_ context.Context, timeslotID, roomID string, available bool) error {
	rooms := r.store.availability[timeslotID]
	if rooms == nil {
		rooms = map[string]bool{}
		r.store.availability[timeslotID] = rooms
	}
	if available {
		rooms[roomID] = true
	} else {
		delete(rooms, roomID)
	}
	return nil
}

func (r memoryTimeslotRepo) AvailableRoomIDs(_ context.Context, timeslotID string) ([]string, error) {
	var out []string
	for roomID := range r.store.availability[timeslotID] {
		out = append(out, roomID)
	}
	sort.Strings(out)
	return out, nil
}

func (r memoryTimeslotRepo) AvailableTimeslotIDs(_ context.Context, roomID string) ([]string, error) {
	var out []string
	for timeslotID, rooms := range r.store.availability {
		if rooms[roomID] {
			out = append(out, timeslotID)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memoryEventRepo struct{ store *memoryStore }

func (r memoryEventRepo) CreateEvent(_ context.Context, event persistence.Event) error {
	r.store.events[event.ID] = event
	return nil
}

func (r memoryEventRepo) UpdateEvent(_ context.Context, event persistence.Event) error {
	if _, ok := r.store.events[event.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.store.events[event.ID] = event
	return nil
}

func (r memoryEventRepo) GetEvent(_ context.Context, id string) (persistence.Event, error) {
	event, ok := r.store.events[id]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return event, nil
}

func (r memoryEventRepo) ListEvents(_ context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	out := make([]persistence.Event, 0, len(r.store.events))
	for _, event := range r.store.events {
		if filter.ConventionID != "" && event.ConventionID != filter.ConventionID {
			continue
		}
		if filter.TrackID != "" && event.TrackID != filter.TrackID {
			continue
		}
		if filter.ActiveOnly && !event.Active {
			continue
		}
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryEventRepo) DeleteEvent(_ context.Context, id string) error {
	if _, ok := r.store.events[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.store.events, id)
	return nil
}
