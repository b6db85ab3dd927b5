package scheduler

// Status is an event's derived scheduling state. It is always recomputed
// from the current assignment and the latest verdict, never persisted, so it
// cannot go stale when surrounding assignments change.
type Status string

const (
	// StatusUnscheduled means the event has no room or no starting timeslot.
	StatusUnscheduled Status = "unscheduled"
	// StatusProvisional means the event is assigned but unchecked, or its
	// last check reported violations.
	StatusProvisional Status = "provisional"
	// StatusConfirmed means the event is assigned and its last check passed.
	StatusConfirmed Status = "confirmed"
)

// DeriveStatus computes an event's scheduling status. verdict is nil when no
// check has been run against the current assignment state.
func DeriveStatus(assigned bool, verdict *Verdict) Status {
	if !assigned {
		return StatusUnscheduled
	}
	if verdict == nil || !verdict.Pass() {
		return StatusProvisional
	}
	return StatusConfirmed
}
