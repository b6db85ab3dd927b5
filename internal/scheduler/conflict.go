// Package scheduler evaluates candidate event placements against the
// assignment state of a convention. Everything here is a pure query over a
// snapshot assembled by the caller; nothing mutates state.
package scheduler

// ViolationKind tags one reason a candidate placement fails.
type ViolationKind string

const (
	// ViolationDurationOverrun indicates the event runs past the convention's last timeslot.
	ViolationDurationOverrun ViolationKind = "duration_overrun"
	// ViolationFixedEventAltered indicates a fixed event would be moved from its current assignment.
	ViolationFixedEventAltered ViolationKind = "fixed_event_altered"
	// ViolationCapacityExceeded indicates the room seats fewer people than the event expects.
	ViolationCapacityExceeded ViolationKind = "capacity_exceeded"
	// ViolationNotSuitable indicates the room is outside the event's declared suitable set.
	ViolationNotSuitable ViolationKind = "not_suitable"
	// ViolationRoomUnavailable indicates the room is not bookable for some occupied timeslot.
	ViolationRoomUnavailable ViolationKind = "room_unavailable"
	// ViolationRoomDoubleBooked indicates another active event occupies the room in an overlapping range.
	ViolationRoomDoubleBooked ViolationKind = "room_double_booked"
	// ViolationPresenterDoubleBooked indicates a presenter already presents an overlapping event.
	ViolationPresenterDoubleBooked ViolationKind = "presenter_double_booked"
	// ViolationResourceConflict indicates an exclusive-use resource is committed elsewhere.
	ViolationResourceConflict ViolationKind = "resource_conflict"
)

// Violation details one failed constraint so operators can see every reason
// a placement was rejected.
type Violation struct {
	Kind ViolationKind
	// WithEventID names the already-scheduled event involved, for the
	// double-booking and resource kinds.
	WithEventID string
	PresenterID string
	ResourceID  string
	// SlotIndex identifies the unavailable timeslot for ViolationRoomUnavailable.
	SlotIndex int
}

// Verdict is the outcome of a placement check: pass, or an ordered list of
// violations. Verdicts are data, never errors.
type Verdict struct {
	Violations []Violation
}

// Pass reports whether the candidate placement satisfies every constraint.
func (v Verdict) Pass() bool {
	return len(v.Violations) == 0
}

// Event carries the scheduling-relevant attributes of the candidate event.
type Event struct {
	ID              string
	Fixed           bool
	Duration        int
	Players         int
	RoundTables     int
	LongTables      int
	PresenterIDs    []string
	SuitableRoomIDs []string
	// ExclusiveResourceIDs lists required resources marked exclusive-use.
	ExclusiveResourceIDs []string
	// CurrentRoomID and CurrentStartIndex describe the event's present
	// assignment, if any. Both are nil for unscheduled events.
	CurrentRoomID     *string
	CurrentStartIndex *int
}

// Room carries the placement-relevant attributes of the candidate room.
type Room struct {
	ID       string
	Capacity int
	// AvailableSlots holds the timeslot indexes where the room is bookable
	// per the room_availability relation.
	AvailableSlots map[int]bool
}

// Booking describes another active event's current occupation of the grid.
type Booking struct {
	EventID              string
	RoomIDs              []string
	StartIndex           int
	Duration             int
	PresenterIDs         []string
	ExclusiveResourceIDs []string
}

// Candidate is a proposed (event, room, starting timeslot) placement.
type Candidate struct {
	Event      Event
	Room       Room
	StartIndex int
}

// Snapshot is the consistent assignment state a placement is checked
// against. Callers must populate Existing with every other active, scheduled
// event of the same convention.
type Snapshot struct {
	SlotCount int
	Existing  []Booking
}

// Per deployment policy: round tables seat eight, long banquet tables six.
const (
	roundTableSeats = 8
	longTableSeats  = 6
)

// ExpectedAttendance estimates how many seats an event needs: the larger of
// the declared player count and the requested table seating.
func ExpectedAttendance(players, roundTables, longTables int) int {
	seating := roundTables*roundTableSeats + longTables*longTableSeats
	if players > seating {
		return players
	}
	return seating
}

// Overlaps reports whether the half-open ranges [a, a+da) and [b, b+db)
// intersect. This is the single tie-break rule used for room, presenter and
// resource conflicts alike.
func Overlaps(a, da, b, db int) bool {
	return a < b+db && b < a+da
}

// CheckPlacement evaluates every constraint class for the candidate and
// returns the full list of violations. Checks are independent and none
// short-circuits, so a single call surfaces every reason a placement fails.
func CheckPlacement(snap Snapshot, candidate Candidate) Verdict {
	event := candidate.Event
	room := candidate.Room
	start := candidate.StartIndex

	duration := event.Duration
	if duration < 1 {
		duration = 1
	}

	var violations []Violation

	if start < 0 || start+duration > snap.SlotCount {
		violations = append(violations, Violation{Kind: ViolationDurationOverrun})
	}

	if event.Fixed && event.CurrentRoomID != nil && event.CurrentStartIndex != nil {
		if room.ID != *event.CurrentRoomID || start != *event.CurrentStartIndex {
			violations = append(violations, Violation{Kind: ViolationFixedEventAltered})
		}
	}

	if room.Capacity < ExpectedAttendance(event.Players, event.RoundTables, event.LongTables) {
		violations = append(violations, Violation{Kind: ViolationCapacityExceeded})
	}

	// An empty suitable set means no suitability constraint was declared.
	if len(event.SuitableRoomIDs) > 0 && !containsString(event.SuitableRoomIDs, room.ID) {
		violations = append(violations, Violation{Kind: ViolationNotSuitable})
	}

	for index := start; index < start+duration; index++ {
		if index < 0 || index >= snap.SlotCount {
			continue
		}
		if !room.AvailableSlots[index] {
			violations = append(violations, Violation{Kind: ViolationRoomUnavailable, SlotIndex: index})
		}
	}

	for _, booking := range snap.Existing {
		if booking.EventID == event.ID {
			continue
		}
		if !Overlaps(start, duration, booking.StartIndex, booking.Duration) {
			continue
		}

		sameRoom := containsString(booking.RoomIDs, room.ID)
		if sameRoom {
			violations = append(violations, Violation{
				Kind:        ViolationRoomDoubleBooked,
				WithEventID: booking.EventID,
			})
		}

		for _, presenterID := range event.PresenterIDs {
			if containsString(booking.PresenterIDs, presenterID) {
				violations = append(violations, Violation{
					Kind:        ViolationPresenterDoubleBooked,
					WithEventID: booking.EventID,
					PresenterID: presenterID,
				})
			}
		}

		if !sameRoom {
			for _, resourceID := range event.ExclusiveResourceIDs {
				if containsString(booking.ExclusiveResourceIDs, resourceID) {
					violations = append(violations, Violation{
						Kind:        ViolationResourceConflict,
						WithEventID: booking.EventID,
						ResourceID:  resourceID,
					})
				}
			}
		}
	}

	return Verdict{Violations: violations}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
