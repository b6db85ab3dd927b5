package scheduler

import "testing"

func slots(indexes ...int) map[int]bool {
	m := make(map[int]bool, len(indexes))
	for _, index := range indexes {
		m[index] = true
	}
	return m
}

func hasKind(verdict Verdict, kind ViolationKind) bool {
	for _, violation := range verdict.Violations {
		if violation.Kind == kind {
			return true
		}
	}
	return false
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		a, da, b, db   int
		expectsOverlap bool
	}{
		{name: "adjacent ranges do not overlap", a: 0, da: 2, b: 2, db: 2, expectsOverlap: false},
		{name: "partial overlap", a: 0, da: 3, b: 2, db: 2, expectsOverlap: true},
		{name: "contained range", a: 1, da: 1, b: 0, db: 4, expectsOverlap: true},
		{name: "identical ranges", a: 2, da: 2, b: 2, db: 2, expectsOverlap: true},
		{name: "disjoint ranges", a: 0, da: 1, b: 3, db: 1, expectsOverlap: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.a, tc.da, tc.b, tc.db); got != tc.expectsOverlap {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", tc.a, tc.da, tc.b, tc.db, got, tc.expectsOverlap)
			}
			// The tie-break rule is symmetric.
			if got := Overlaps(tc.b, tc.db, tc.a, tc.da); got != tc.expectsOverlap {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", tc.b, tc.db, tc.a, tc.da, got, tc.expectsOverlap)
			}
		})
	}
}

func TestExpectedAttendance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                             string
		players, roundTables, longTables int
		want                             int
	}{
		{name: "players dominate", players: 60, roundTables: 2, longTables: 0, want: 60},
		{name: "table seating dominates", players: 10, roundTables: 3, longTables: 2, want: 36},
		{name: "no hints", players: 0, roundTables: 0, longTables: 0, want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ExpectedAttendance(tc.players, tc.roundTables, tc.longTables); got != tc.want {
				t.Fatalf("ExpectedAttendance = %d, want %d", got, tc.want)
			}
		})
	}
}

// The capacity scenario: four timeslots, room capacity 50, a two-slot talk
// with 60 expected attendees starting at slot 1 fails on capacity; after
// reducing attendance to 40 with the room available for slots 1-2 it passes.
func TestCheckPlacement_CapacityScenario(t *testing.T) {
	t.Parallel()

	snap := Snapshot{SlotCount: 4}
	room := Room{ID: "room-main", Capacity: 50, AvailableSlots: slots(1, 2)}
	talk := Event{ID: "event-talk", Duration: 2, Players: 60}

	verdict := CheckPlacement(snap, Candidate{Event: talk, Room: room, StartIndex: 1})
	if verdict.Pass() {
		t.Fatal("expected violations for oversubscribed talk")
	}
	if !hasKind(verdict, ViolationCapacityExceeded) {
		t.Fatalf("expected capacity violation, got %+v", verdict.Violations)
	}

	talk.Players = 40
	verdict = CheckPlacement(snap, Candidate{Event: talk, Room: room, StartIndex: 1})
	if !verdict.Pass() {
		t.Fatalf("expected pass after reducing attendance, got %+v", verdict.Violations)
	}
}

// Shared-presenter scenario: Panel A occupies [1,3); Panel B proposed at
// [2,4) in a different room shares presenter Jo Lee and must be rejected.
func TestCheckPlacement_PresenterDoubleBooked(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		SlotCount: 4,
		Existing: []Booking{
			{
				EventID:      "event-panel-a",
				RoomIDs:      []string{"room-a"},
				StartIndex:   1,
				Duration:     2,
				PresenterIDs: []string{"presenter-jo-lee"},
			},
		},
	}
	panelB := Event{ID: "event-panel-b", Duration: 2, PresenterIDs: []string{"presenter-jo-lee"}}
	roomB := Room{ID: "room-b", Capacity: 20, AvailableSlots: slots(0, 1, 2, 3)}

	verdict := CheckPlacement(snap, Candidate{Event: panelB, Room: roomB, StartIndex: 2})

	if !hasKind(verdict, ViolationPresenterDoubleBooked) {
		t.Fatalf("expected presenter double-booking, got %+v", verdict.Violations)
	}
	if hasKind(verdict, ViolationRoomDoubleBooked) {
		t.Fatal("different rooms must not report a room double-booking")
	}
	for _, violation := range verdict.Violations {
		if violation.Kind == ViolationPresenterDoubleBooked {
			if violation.WithEventID != "event-panel-a" || violation.PresenterID != "presenter-jo-lee" {
				t.Fatalf("violation context incomplete: %+v", violation)
			}
		}
	}
}

func TestCheckPlacement_RoomDoubleBooked(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		SlotCount: 6,
		Existing: []Booking{
			{EventID: "event-first", RoomIDs: []string{"room-a"}, StartIndex: 0, Duration: 3},
		},
	}
	room := Room{ID: "room-a", Capacity: 10, AvailableSlots: slots(0, 1, 2, 3, 4, 5)}

	verdict := CheckPlacement(snap, Candidate{
		Event:      Event{ID: "event-second", Duration: 2},
		Room:       room,
		StartIndex: 2,
	})
	if !hasKind(verdict, ViolationRoomDoubleBooked) {
		t.Fatalf("expected room double-booking, got %+v", verdict.Violations)
	}

	// Adjacent placement at [3,5) must pass: the half-open ranges touch but
	// do not intersect.
	verdict = CheckPlacement(snap, Candidate{
		Event:      Event{ID: "event-second", Duration: 2},
		Room:       room,
		StartIndex: 3,
	})
	if !verdict.Pass() {
		t.Fatalf("adjacent ranges must not conflict, got %+v", verdict.Violations)
	}
}

// Fixed-event scenario: an event pinned at (room X, slot 2) reports
// FixedEventAltered for any differing candidate but not for its own slot.
func TestCheckPlacement_FixedEventAltered(t *testing.T) {
	t.Parallel()

	currentRoom := "room-x"
	currentStart := 2
	fixed := Event{
		ID:                "event-fixed",
		Fixed:             true,
		Duration:          1,
		CurrentRoomID:     &currentRoom,
		CurrentStartIndex: &currentStart,
	}
	snap := Snapshot{SlotCount: 5}
	available := slots(0, 1, 2, 3, 4)

	cases := []struct {
		name    string
		room    Room
		start   int
		altered bool
	}{
		{name: "same room different slot", room: Room{ID: "room-x", Capacity: 10, AvailableSlots: available}, start: 3, altered: true},
		{name: "different room same slot", room: Room{ID: "room-y", Capacity: 10, AvailableSlots: available}, start: 2, altered: true},
		{name: "current assignment", room: Room{ID: "room-x", Capacity: 10, AvailableSlots: available}, start: 2, altered: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			verdict := CheckPlacement(snap, Candidate{Event: fixed, Room: tc.room, StartIndex: tc.start})
			if got := hasKind(verdict, ViolationFixedEventAltered); got != tc.altered {
				t.Fatalf("fixed violation = %v, want %v (%+v)", got, tc.altered, verdict.Violations)
			}
		})
	}
}

func TestCheckPlacement_RoomUnavailableAndOverrun(t *testing.T) {
	t.Parallel()

	snap := Snapshot{SlotCount: 4}
	room := Room{ID: "room-a", Capacity: 10, AvailableSlots: slots(1)}

	verdict := CheckPlacement(snap, Candidate{
		Event:      Event{ID: "event-long", Duration: 3},
		Room:       room,
		StartIndex: 2,
	})

	if !hasKind(verdict, ViolationDurationOverrun) {
		t.Fatalf("expected duration overrun, got %+v", verdict.Violations)
	}
	// Slots 2 and 3 are inside the grid but not available; the out-of-grid
	// slot 4 is reported only as the overrun.
	var unavailable []int
	for _, violation := range verdict.Violations {
		if violation.Kind == ViolationRoomUnavailable {
			unavailable = append(unavailable, violation.SlotIndex)
		}
	}
	if len(unavailable) != 2 || unavailable[0] != 2 || unavailable[1] != 3 {
		t.Fatalf("expected unavailable slots [2 3], got %v", unavailable)
	}
}

func TestCheckPlacement_Suitability(t *testing.T) {
	t.Parallel()

	snap := Snapshot{SlotCount: 2}
	available := slots(0, 1)

	declared := Event{ID: "event-a", Duration: 1, SuitableRoomIDs: []string{"room-good"}}
	verdict := CheckPlacement(snap, Candidate{Event: declared, Room: Room{ID: "room-bad", Capacity: 5, AvailableSlots: available}, StartIndex: 0})
	if !hasKind(verdict, ViolationNotSuitable) {
		t.Fatalf("expected suitability violation, got %+v", verdict.Violations)
	}

	// An empty suitable set declares no constraint at all.
	undeclared := Event{ID: "event-b", Duration: 1}
	verdict = CheckPlacement(snap, Candidate{Event: undeclared, Room: Room{ID: "room-bad", Capacity: 5, AvailableSlots: available}, StartIndex: 0})
	if hasKind(verdict, ViolationNotSuitable) {
		t.Fatal("empty suitable set must not constrain placement")
	}
}

func TestCheckPlacement_ResourceConflict(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		SlotCount: 4,
		Existing: []Booking{
			{
				EventID:              "event-holder",
				RoomIDs:              []string{"room-a"},
				StartIndex:           0,
				Duration:             2,
				ExclusiveResourceIDs: []string{"resource-projector"},
			},
		},
	}
	wantsProjector := Event{ID: "event-wants", Duration: 2, ExclusiveResourceIDs: []string{"resource-projector"}}

	verdict := CheckPlacement(snap, Candidate{
		Event:      wantsProjector,
		Room:       Room{ID: "room-b", Capacity: 10, AvailableSlots: slots(0, 1, 2, 3)},
		StartIndex: 1,
	})
	if !hasKind(verdict, ViolationResourceConflict) {
		t.Fatalf("expected resource conflict, got %+v", verdict.Violations)
	}

	// Non-overlapping ranges release the resource.
	verdict = CheckPlacement(snap, Candidate{
		Event:      wantsProjector,
		Room:       Room{ID: "room-b", Capacity: 10, AvailableSlots: slots(0, 1, 2, 3)},
		StartIndex: 2,
	})
	if hasKind(verdict, ViolationResourceConflict) {
		t.Fatalf("non-overlapping events must not contend for resources: %+v", verdict.Violations)
	}
}

// Checks never short-circuit: a placement failing several constraint classes
// reports all of them in one verdict.
func TestCheckPlacement_ReportsAllViolations(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		SlotCount: 4,
		Existing: []Booking{
			{EventID: "event-other", RoomIDs: []string{"room-a"}, StartIndex: 0, Duration: 4, PresenterIDs: []string{"presenter-1"}},
		},
	}
	candidate := Candidate{
		Event: Event{
			ID:              "event-bad",
			Duration:        2,
			Players:         100,
			PresenterIDs:    []string{"presenter-1"},
			SuitableRoomIDs: []string{"room-elsewhere"},
		},
		Room:       Room{ID: "room-a", Capacity: 10, AvailableSlots: slots()},
		StartIndex: 0,
	}

	verdict := CheckPlacement(snap, candidate)

	for _, kind := range []ViolationKind{
		ViolationCapacityExceeded,
		ViolationNotSuitable,
		ViolationRoomUnavailable,
		ViolationRoomDoubleBooked,
		ViolationPresenterDoubleBooked,
	} {
		if !hasKind(verdict, kind) {
			t.Fatalf("expected %s in verdict, got %+v", kind, verdict.Violations)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	if got := DeriveStatus(false, nil); got != StatusUnscheduled {
		t.Fatalf("unassigned event: got %s", got)
	}
	if got := DeriveStatus(true, nil); got != StatusProvisional {
		t.Fatalf("unchecked assignment: got %s", got)
	}
	failing := &Verdict{Violations: []Violation{{Kind: ViolationCapacityExceeded}}}
	if got := DeriveStatus(true, failing); got != StatusProvisional {
		t.Fatalf("failing verdict: got %s", got)
	}
	if got := DeriveStatus(true, &Verdict{}); got != StatusConfirmed {
		t.Fatalf("passing verdict: got %s", got)
	}
}
