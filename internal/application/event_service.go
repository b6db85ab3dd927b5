package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/convention-scheduler/internal/persistence"
	"github.com/example/convention-scheduler/internal/projection"
	"github.com/example/convention-scheduler/internal/scheduler"
)

// EventService orchestrates event CRUD, the assignment model and placement
// checks. Assign and Unassign are serialized per convention so a
// check-then-assign sequence cannot race with another operator's concurrent
// assignment to the same room, timeslot or presenter.
type EventService struct {
	events      persistence.EventRepository
	conventions persistence.ConventionRepository
	tracks      persistence.TrackRepository
	rooms       persistence.RoomRepository
	timeslots   persistence.TimeslotRepository
	resources   persistence.ResourceRepository
	presenters  persistence.PresenterRepository
	eventTypes  persistence.EventTypeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	verdicts *verdictCache
	// locks holds one *sync.Mutex per convention id.
	locks sync.Map
}

// NewEventService wires dependencies for event operations.
func NewEventService(
	events persistence.EventRepository,
	conventions persistence.ConventionRepository,
	tracks persistence.TrackRepository,
	rooms persistence.RoomRepository,
	timeslots persistence.TimeslotRepository,
	resources persistence.ResourceRepository,
	presenters persistence.PresenterRepository,
	eventTypes persistence.EventTypeRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:      events,
		conventions: conventions,
		tracks:      tracks,
		rooms:       rooms,
		timeslots:   timeslots,
		resources:   resources,
		presenters:  presenters,
		eventTypes:  eventTypes,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		verdicts:    newVerdictCache(0, 0, now),
	}
}

// ConfigureVerdictCache replaces the verdict cache settings. Zero values keep
// the defaults.
func (s *EventService) ConfigureVerdictCache(ttl time.Duration, maxEntries int) {
	s.verdicts = newVerdictCache(ttl, maxEntries, s.now)
}

// InvalidateVerdicts drops cached placement verdicts for one convention, or
// for all conventions when the id is empty. Rooms and resources can be shared
// across conventions, so their mutations pass an empty id.
func (s *EventService) InvalidateVerdicts(conventionID string) {
	if s == nil {
		return
	}
	if conventionID == "" {
		s.verdicts.InvalidateAll()
		return
	}
	s.verdicts.InvalidateConvention(conventionID)
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

func (s *EventService) conventionLock(conventionID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(conventionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// CreateEvent validates the input and persists a new event with its
// association sets. Events start out unscheduled.
func (s *EventService) CreateEvent(ctx context.Context, input EventInput) (event persistence.Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent", "title", input.Title, "convention_id", input.ConventionID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	if err = s.validateEventInput(ctx, input); err != nil {
		return
	}

	createdAt := s.now()
	event = persistence.Event{
		ID:              s.idGenerator(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Comments:        input.Comments,
		Active:          true,
		TrackID:         input.TrackID,
		EventTypeID:     input.EventTypeID,
		ConventionID:    input.ConventionID,
		Duration:        input.Duration,
		Fixed:           input.Fixed,
		Players:         input.Players,
		RoundTables:     input.RoundTables,
		LongTables:      input.LongTables,
		FacilityRequest: input.FacilityRequest,
		ResourceIDs:     uniqueStrings(input.ResourceIDs),
		PresenterIDs:    uniqueStrings(input.PresenterIDs),
		SuitableRoomIDs: uniqueStrings(input.SuitableRoomIDs),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	if err = s.events.CreateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		event = persistence.Event{}
		return
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	return
}

// UpdateEvent validates and applies changes to an existing event, replacing
// its association sets wholesale. The room and start timeslot are managed
// through Assign and Unassign, not here.
func (s *EventService) UpdateEvent(ctx context.Context, id string, input EventInput) (event persistence.Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvent", "event_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	existing, getErr := s.events.GetEvent(ctx, id)
	if getErr != nil {
		err = mapRepoError(getErr)
		return
	}

	if input.ConventionID != existing.ConventionID {
		vErr := &ValidationError{}
		vErr.add("convention_id", "an event cannot move between conventions")
		err = vErr
		return
	}
	if err = s.validateEventInput(ctx, input); err != nil {
		return
	}

	event = existing
	event.Title = strings.TrimSpace(input.Title)
	event.Description = input.Description
	event.Comments = input.Comments
	event.TrackID = input.TrackID
	event.EventTypeID = input.EventTypeID
	event.Duration = input.Duration
	event.Fixed = input.Fixed
	event.Players = input.Players
	event.RoundTables = input.RoundTables
	event.LongTables = input.LongTables
	event.FacilityRequest = input.FacilityRequest
	event.ResourceIDs = uniqueStrings(input.ResourceIDs)
	event.PresenterIDs = uniqueStrings(input.PresenterIDs)
	event.SuitableRoomIDs = uniqueStrings(input.SuitableRoomIDs)
	event.UpdatedAt = s.now()

	if err = s.events.UpdateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		event = persistence.Event{}
		return
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	return
}

// GetEvent returns a single event by id.
func (s *EventService) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	if s == nil {
		return persistence.Event{}, fmt.Errorf("EventService is nil")
	}
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return persistence.Event{}, mapRepoError(err)
	}
	return event, nil
}

// ListEvents returns events matching the filter, ordered by title.
func (s *EventService) ListEvents(ctx context.Context, filter EventFilter) ([]persistence.Event, error) {
	if s == nil {
		return nil, fmt.Errorf("EventService is nil")
	}
	events, err := s.events.ListEvents(ctx, persistence.EventFilter{
		ConventionID: filter.ConventionID,
		TrackID:      filter.TrackID,
		RoomID:       filter.RoomID,
		PresenterID:  filter.PresenterID,
		ActiveOnly:   filter.ActiveOnly,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Title == events[j].Title {
			return events[i].ID < events[j].ID
		}
		return events[i].Title < events[j].Title
	})
	return events, nil
}

// DeactivateEvent soft-deletes an event. Its assignments stay recorded but
// stop participating in conflict detection.
func (s *EventService) DeactivateEvent(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "DeactivateEvent", "event_id", id)

	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	event.Active = false
	event.UpdatedAt = s.now()
	if err := s.events.UpdateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to deactivate event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	logger.InfoContext(ctx, "event deactivated")
	return nil
}

// DeleteEvent hard-removes an event and its association rows.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteEvent", "event_id", id)

	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	logger.InfoContext(ctx, "event deleted")
	return nil
}

// CheckPlacement evaluates a candidate placement against a consistent
// snapshot of the convention's assignment state. It never mutates state.
func (s *EventService) CheckPlacement(ctx context.Context, placement Placement) (Verdict, error) {
	if s == nil {
		return Verdict{}, fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "CheckPlacement",
		"event_id", placement.EventID,
		"room_id", placement.RoomID,
		"start_index", placement.StartIndex,
	)

	key := buildVerdictCacheKey(placement)
	if verdict, ok := s.verdicts.Get(key); ok {
		return verdict, nil
	}

	verdict, conventionID, err := s.checkPlacement(ctx, placement)
	if err != nil {
		logger.ErrorContext(ctx, "placement check failed", "error", err, "error_kind", ErrorKind(err))
		return Verdict{}, err
	}

	s.verdicts.Store(key, conventionID, verdict)
	logger.With("pass", verdict.Pass, "violation_count", len(verdict.Violations)).InfoContext(ctx, "placement checked")
	return verdict, nil
}

// Assign idempotently books the event into the room at the timeslot with
// the given index. No constraints are validated here: callers are expected
// to have invoked CheckPlacement first, and batch paths may assign
// provisionally and validate in bulk afterward.
func (s *EventService) Assign(ctx context.Context, placement Placement) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "Assign",
		"event_id", placement.EventID,
		"room_id", placement.RoomID,
		"start_index", placement.StartIndex,
	)

	event, err := s.events.GetEvent(ctx, placement.EventID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to assign event", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	lock := s.conventionLock(event.ConventionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.assignLocked(ctx, event, placement); err != nil {
		logger.ErrorContext(ctx, "failed to assign event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "event assigned")
	return nil
}

// CheckAndAssign runs the placement check and applies the assignment only on
// a pass verdict, all under the convention's lock, making the
// check-then-assign sequence atomic with respect to concurrent operators.
// The verdict is returned either way.
func (s *EventService) CheckAndAssign(ctx context.Context, placement Placement) (Verdict, error) {
	if s == nil {
		return Verdict{}, fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "CheckAndAssign",
		"event_id", placement.EventID,
		"room_id", placement.RoomID,
		"start_index", placement.StartIndex,
	)

	event, err := s.events.GetEvent(ctx, placement.EventID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to assign event", "error", err, "error_kind", ErrorKind(err))
		return Verdict{}, err
	}

	lock := s.conventionLock(event.ConventionID)
	lock.Lock()
	defer lock.Unlock()

	verdict, _, err := s.checkPlacement(ctx, placement)
	if err != nil {
		logger.ErrorContext(ctx, "placement check failed", "error", err, "error_kind", ErrorKind(err))
		return Verdict{}, err
	}
	if !verdict.Pass {
		logger.With("violation_count", len(verdict.Violations)).InfoContext(ctx, "placement rejected")
		return verdict, nil
	}

	if err := s.assignLocked(ctx, event, placement); err != nil {
		logger.ErrorContext(ctx, "failed to assign event", "error", err, "error_kind", ErrorKind(err))
		return Verdict{}, err
	}
	logger.InfoContext(ctx, "event assigned")
	return verdict, nil
}

// Unassign clears the event's room and starting timeslot without deleting
// the event.
func (s *EventService) Unassign(ctx context.Context, eventID string) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	logger := s.loggerWith(ctx, "Unassign", "event_id", eventID)

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to unassign event", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	lock := s.conventionLock(event.ConventionID)
	lock.Lock()
	defer lock.Unlock()

	event.StartTimeslotID = nil
	event.RoomIDs = nil
	event.UpdatedAt = s.now()

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to unassign event", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	logger.InfoContext(ctx, "event unassigned")
	return nil
}

// ScheduleStatus derives the event's scheduling status from its current
// assignment and a fresh check. The status is never persisted.
func (s *EventService) ScheduleStatus(ctx context.Context, eventID string) (scheduler.Status, error) {
	if s == nil {
		return "", fmt.Errorf("EventService is nil")
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return "", mapRepoError(err)
	}
	if event.StartTimeslotID == nil || len(event.RoomIDs) == 0 {
		return scheduler.StatusUnscheduled, nil
	}

	timeslot, err := s.timeslots.GetTimeslot(ctx, *event.StartTimeslotID)
	if err != nil {
		return "", mapRepoError(err)
	}
	verdict, _, err := s.checkPlacement(ctx, Placement{
		EventID:    eventID,
		RoomID:     event.RoomIDs[0],
		StartIndex: timeslot.Index,
	})
	if err != nil {
		return "", err
	}

	checked := toSchedulerVerdict(verdict)
	return scheduler.DeriveStatus(true, &checked), nil
}

// ProjectionData resolves an event's association ids into the entities a
// presentation view needs.
func (s *EventService) ProjectionData(ctx context.Context, eventID string) (projection.EventData, error) {
	if s == nil {
		return projection.EventData{}, fmt.Errorf("EventService is nil")
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return projection.EventData{}, mapRepoError(err)
	}
	convention, err := s.conventions.GetConvention(ctx, event.ConventionID)
	if err != nil {
		return projection.EventData{}, mapRepoError(err)
	}
	track, err := s.tracks.GetTrack(ctx, event.TrackID)
	if err != nil {
		return projection.EventData{}, mapRepoError(err)
	}

	data := projection.EventData{
		Event:      event,
		Convention: convention,
		Track:      track,
	}

	if event.EventTypeID != nil {
		eventType, err := s.eventTypes.GetEventType(ctx, *event.EventTypeID)
		if err != nil {
			return projection.EventData{}, mapRepoError(err)
		}
		data.EventType = &eventType
	}

	if event.StartTimeslotID != nil {
		timeslot, err := s.timeslots.GetTimeslot(ctx, *event.StartTimeslotID)
		if err != nil {
			return projection.EventData{}, mapRepoError(err)
		}
		data.StartTimeslot = &timeslot
	}

	for _, roomID := range event.RoomIDs {
		room, err := s.rooms.GetRoom(ctx, roomID)
		if err != nil {
			return projection.EventData{}, mapRepoError(err)
		}
		data.Rooms = append(data.Rooms, room)
	}

	if len(event.ResourceIDs) > 0 {
		all, err := s.resources.ListResources(ctx)
		if err != nil {
			return projection.EventData{}, mapRepoError(err)
		}
		wanted := make(map[string]bool, len(event.ResourceIDs))
		for _, id := range event.ResourceIDs {
			wanted[id] = true
		}
		for _, resource := range all {
			if wanted[resource.ID] {
				data.Resources = append(data.Resources, resource)
			}
		}
	}

	for _, presenterID := range event.PresenterIDs {
		presenter, err := s.presenters.GetPresenter(ctx, presenterID)
		if err != nil {
			return projection.EventData{}, mapRepoError(err)
		}
		data.Presenters = append(data.Presenters, presenter)
	}
	return data, nil
}

func (s *EventService) assignLocked(ctx context.Context, event persistence.Event, placement Placement) error {
	room, err := s.rooms.GetRoom(ctx, placement.RoomID)
	if err != nil {
		return mapRepoError(err)
	}
	if room.ConventionID != nil && *room.ConventionID != event.ConventionID {
		vErr := &ValidationError{}
		vErr.add("room_id", "room belongs to a different convention")
		return vErr
	}

	timeslot, err := s.timeslotByIndex(ctx, event.ConventionID, placement.StartIndex)
	if err != nil {
		return err
	}

	event.RoomIDs = []string{room.ID}
	timeslotID := timeslot.ID
	event.StartTimeslotID = &timeslotID
	event.UpdatedAt = s.now()

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return mapRepoError(err)
	}
	s.verdicts.InvalidateConvention(event.ConventionID)
	return nil
}

func (s *EventService) timeslotByIndex(ctx context.Context, conventionID string, index int) (persistence.Timeslot, error) {
	timeslots, err := s.timeslots.ListTimeslots(ctx, conventionID)
	if err != nil {
		return persistence.Timeslot{}, mapRepoError(err)
	}
	for _, timeslot := range timeslots {
		if timeslot.Index == index {
			return timeslot, nil
		}
	}
	vErr := &ValidationError{}
	vErr.add("start_index", fmt.Sprintf("no timeslot with index %d in convention", index))
	return persistence.Timeslot{}, vErr
}

// checkPlacement assembles a snapshot of the convention's assignment state
// and evaluates the candidate. Returns the verdict and the convention id
// for cache bookkeeping.
func (s *EventService) checkPlacement(ctx context.Context, placement Placement) (Verdict, string, error) {
	event, err := s.events.GetEvent(ctx, placement.EventID)
	if err != nil {
		return Verdict{}, "", mapRepoError(err)
	}
	convention, err := s.conventions.GetConvention(ctx, event.ConventionID)
	if err != nil {
		return Verdict{}, "", mapRepoError(err)
	}
	room, err := s.rooms.GetRoom(ctx, placement.RoomID)
	if err != nil {
		return Verdict{}, "", mapRepoError(err)
	}
	if room.ConventionID != nil && *room.ConventionID != convention.ID {
		vErr := &ValidationError{}
		vErr.add("room_id", "room belongs to a different convention")
		return Verdict{}, "", vErr
	}

	timeslots, err := s.timeslots.ListTimeslots(ctx, convention.ID)
	if err != nil {
		return Verdict{}, "", mapRepoError(err)
	}
	indexByID := make(map[string]int, len(timeslots))
	activeByID := make(map[string]bool, len(timeslots))
	for _, timeslot := range timeslots {
		indexByID[timeslot.ID] = timeslot.Index
		activeByID[timeslot.ID] = timeslot.Active
	}

	exclusive, err := s.exclusiveResourceIDs(ctx)
	if err != nil {
		return Verdict{}, "", err
	}

	availableSlots, err := s.roomAvailableSlots(ctx, room, indexByID, activeByID)
	if err != nil {
		return Verdict{}, "", err
	}

	existing, err := s.existingBookings(ctx, convention.ID, event.ID, indexByID, activeByID, exclusive)
	if err != nil {
		return Verdict{}, "", err
	}

	candidate := scheduler.Candidate{
		Event:      toSchedulerEvent(event, indexByID, exclusive),
		Room:       scheduler.Room{ID: room.ID, Capacity: room.Capacity, AvailableSlots: availableSlots},
		StartIndex: placement.StartIndex,
	}
	snapshot := scheduler.Snapshot{
		SlotCount: convention.NumberOfTimeslots,
		Existing:  existing,
	}

	verdict := scheduler.CheckPlacement(snapshot, candidate)
	return toVerdict(verdict), convention.ID, nil
}

// exclusiveResourceIDs returns the ids of active resources marked
// exclusive-use under the deployment policy.
func (s *EventService) exclusiveResourceIDs(ctx context.Context) (map[string]bool, error) {
	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	exclusive := make(map[string]bool)
	for _, resource := range resources {
		if resource.Active && resource.Exclusive {
			exclusive[resource.ID] = true
		}
	}
	return exclusive, nil
}

// roomAvailableSlots resolves the room_availability relation into slot
// indexes. A deactivated room or timeslot contributes nothing.
func (s *EventService) roomAvailableSlots(ctx context.Context, room persistence.Room, indexByID map[string]int, activeByID map[string]bool) (map[int]bool, error) {
	available := make(map[int]bool)
	if !room.Active {
		return available, nil
	}
	timeslotIDs, err := s.timeslots.AvailableTimeslotIDs(ctx, room.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	for _, timeslotID := range timeslotIDs {
		index, ok := indexByID[timeslotID]
		if !ok || !activeByID[timeslotID] {
			continue
		}
		available[index] = true
	}
	return available, nil
}

// existingBookings collects every other active, scheduled event of the
// convention, ordered by event id for deterministic verdicts.
func (s *EventService) existingBookings(ctx context.Context, conventionID, candidateEventID string, indexByID map[string]int, activeByID map[string]bool, exclusive map[string]bool) ([]scheduler.Booking, error) {
	events, err := s.events.ListEvents(ctx, persistence.EventFilter{ConventionID: conventionID, ActiveOnly: true})
	if err != nil {
		return nil, mapRepoError(err)
	}

	bookings := make([]scheduler.Booking, 0, len(events))
	for _, other := range events {
		if other.ID == candidateEventID {
			continue
		}
		if other.StartTimeslotID == nil || len(other.RoomIDs) == 0 {
			continue
		}
		startIndex, ok := indexByID[*other.StartTimeslotID]
		if !ok || !activeByID[*other.StartTimeslotID] {
			continue
		}
		duration := other.Duration
		if duration < 1 {
			duration = 1
		}
		bookings = append(bookings, scheduler.Booking{
			EventID:              other.ID,
			RoomIDs:              append([]string(nil), other.RoomIDs...),
			StartIndex:           startIndex,
			Duration:             duration,
			PresenterIDs:         append([]string(nil), other.PresenterIDs...),
			ExclusiveResourceIDs: intersectIDs(other.ResourceIDs, exclusive),
		})
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].EventID < bookings[j].EventID })
	return bookings, nil
}

func (s *EventService) validateEventInput(ctx context.Context, input EventInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.Duration < 1 {
		vErr.add("duration", "duration must be at least one timeslot")
	}
	if input.Players < 0 || input.RoundTables < 0 || input.LongTables < 0 {
		vErr.add("seating", "seating hints must not be negative")
	}
	if input.ConventionID == "" {
		vErr.add("convention_id", "convention is required")
	}
	if input.TrackID == "" {
		vErr.add("track_id", "track is required")
	}
	if vErr.HasErrors() {
		return vErr
	}

	if _, err := s.conventions.GetConvention(ctx, input.ConventionID); err != nil {
		err = mapRepoError(err)
		if err == ErrNotFound {
			vErr.add("convention_id", "convention does not exist")
			return vErr
		}
		return err
	}
	if _, err := s.tracks.GetTrack(ctx, input.TrackID); err != nil {
		err = mapRepoError(err)
		if err == ErrNotFound {
			vErr.add("track_id", "track does not exist")
			return vErr
		}
		return err
	}
	return nil
}

func toSchedulerEvent(event persistence.Event, indexByID map[string]int, exclusive map[string]bool) scheduler.Event {
	out := scheduler.Event{
		ID:                   event.ID,
		Fixed:                event.Fixed,
		Duration:             event.Duration,
		Players:              event.Players,
		RoundTables:          event.RoundTables,
		LongTables:           event.LongTables,
		PresenterIDs:         append([]string(nil), event.PresenterIDs...),
		SuitableRoomIDs:      append([]string(nil), event.SuitableRoomIDs...),
		ExclusiveResourceIDs: intersectIDs(event.ResourceIDs, exclusive),
	}
	if len(event.RoomIDs) > 0 {
		roomID := event.RoomIDs[0]
		out.CurrentRoomID = &roomID
	}
	if event.StartTimeslotID != nil {
		if index, ok := indexByID[*event.StartTimeslotID]; ok {
			out.CurrentStartIndex = &index
		}
	}
	return out
}

func toVerdict(verdict scheduler.Verdict) Verdict {
	out := Verdict{Pass: verdict.Pass()}
	for _, violation := range verdict.Violations {
		out.Violations = append(out.Violations, Violation{
			Kind:        string(violation.Kind),
			WithEventID: violation.WithEventID,
			PresenterID: violation.PresenterID,
			ResourceID:  violation.ResourceID,
			SlotIndex:   violation.SlotIndex,
		})
	}
	return out
}

// toSchedulerVerdict is the inverse of toVerdict, for callers that feed a
// checked verdict back into the scheduler package.
func toSchedulerVerdict(verdict Verdict) scheduler.Verdict {
	out := scheduler.Verdict{}
	for _, violation := range verdict.Violations {
		out.Violations = append(out.Violations, scheduler.Violation{
			Kind:        scheduler.ViolationKind(violation.Kind),
			WithEventID: violation.WithEventID,
			PresenterID: violation.PresenterID,
			ResourceID:  violation.ResourceID,
			SlotIndex:   violation.SlotIndex,
		})
	}
	return out
}

func intersectIDs(ids []string, allowed map[string]bool) []string {
	var out []string
	for _, id := range ids {
		if allowed[id] {
			out = append(out, id)
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
