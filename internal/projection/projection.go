// Package projection renders persisted events into read-only views for
// publication. The public view is safe to hand to anonymous callers: track
// contact emails are absent from the type itself, so no serialization path
// can leak them.
package projection

import (
	"sort"
	"strings"

	"github.com/example/convention-scheduler/internal/persistence"
	"github.com/example/convention-scheduler/internal/timegrid"
)

// PublicEventView is the convention-goer's picture of one event. It carries
// no track email field.
type PublicEventView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Comments       string   `json:"comments,omitempty"`
	TrackName      string   `json:"trackName"`
	TrackUID       string   `json:"trackUid"`
	EventType      string   `json:"eventType,omitempty"`
	Start          string   `json:"start"`
	Duration       int      `json:"duration"`
	PresenterNames string   `json:"presenterNames"`
	RoomNames      []string `json:"roomNames"`
	ResourceNames  []string `json:"resourceNames"`
}

// InternalEventView augments the public view with staff-only contact data.
type InternalEventView struct {
	PublicEventView
	TrackEmail string `json:"trackEmail"`
}

// EventData bundles the entities one event projection needs. The application
// layer resolves the association ids into entities before projecting.
type EventData struct {
	Event      persistence.Event
	Convention persistence.Convention
	Track      persistence.Track
	EventType  *persistence.EventType
	// StartTimeslot is nil for unscheduled events.
	StartTimeslot *persistence.Timeslot
	Rooms         []persistence.Room
	Resources     []persistence.Resource
	Presenters    []persistence.Presenter
}

// Public renders the anonymous-caller view of one event. Unscheduled events
// render with an empty start string.
func Public(data EventData) (PublicEventView, error) {
	view := PublicEventView{
		ID:             data.Event.ID,
		Title:          data.Event.Title,
		Description:    data.Event.Description,
		Comments:       data.Event.Comments,
		TrackName:      data.Track.Name,
		TrackUID:       data.Track.UID,
		Duration:       data.Event.Duration,
		PresenterNames: JoinPresenterNames(data.Presenters),
		RoomNames:      roomNames(data.Rooms),
		ResourceNames:  resourceNames(data.Resources),
	}
	if data.EventType != nil {
		view.EventType = data.EventType.Name
	}
	if data.StartTimeslot != nil {
		grid := timegrid.Grid{
			StartAt:      data.Convention.StartAt,
			SlotDuration: data.Convention.TimeslotDuration,
		}
		start, err := timegrid.Format(grid.SlotStart(data.StartTimeslot.Index), data.Convention.DatetimeFormat)
		if err != nil {
			return PublicEventView{}, err
		}
		view.Start = start
	}
	return view, nil
}

// Internal renders the staff view of one event.
func Internal(data EventData) (InternalEventView, error) {
	public, err := Public(data)
	if err != nil {
		return InternalEventView{}, err
	}
	return InternalEventView{
		PublicEventView: public,
		TrackEmail:      data.Track.Email,
	}, nil
}

// JoinPresenterNames renders presenters as a comma-joined list of trimmed
// "First Last" names, skipping presenters whose names are entirely blank.
func JoinPresenterNames(presenters []persistence.Presenter) string {
	names := make([]string, 0, len(presenters))
	for _, presenter := range presenters {
		name := strings.TrimSpace(strings.TrimSpace(presenter.FirstName) + " " + strings.TrimSpace(presenter.LastName))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func roomNames(rooms []persistence.Room) []string {
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}
	sort.Strings(names)
	return names
}

func resourceNames(resources []persistence.Resource) []string {
	names := make([]string, 0, len(resources))
	for _, resource := range resources {
		names = append(names, resource.Name)
	}
	sort.Strings(names)
	return names
}
