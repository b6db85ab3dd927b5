package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Conventions *ConventionHandler
	Tracks      *TrackHandler
	Rooms       *RoomHandler
	Timeslots   *TimeslotHandler
	Catalog     *CatalogHandler
	Events      *EventHandler
	Import      *ImportHandler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	if cfg.Conventions != nil {
		router.HandleFunc("/conventions", cfg.Conventions.Create).Methods(http.MethodPost)
		router.HandleFunc("/conventions", cfg.Conventions.List).Methods(http.MethodGet)
		router.HandleFunc("/conventions/{id}", cfg.Conventions.Get).Methods(http.MethodGet)
		router.HandleFunc("/conventions/{id}", cfg.Conventions.Update).Methods(http.MethodPut)
		router.HandleFunc("/conventions/{id}", cfg.Conventions.Delete).Methods(http.MethodDelete)
		router.HandleFunc("/conventions/{id}/deactivate", cfg.Conventions.Deactivate).Methods(http.MethodPost)
	}

	if cfg.Tracks != nil {
		router.HandleFunc("/tracks", cfg.Tracks.Create).Methods(http.MethodPost)
		router.HandleFunc("/tracks", cfg.Tracks.List).Methods(http.MethodGet)
		router.HandleFunc("/tracks/{id}", cfg.Tracks.Get).Methods(http.MethodGet)
		router.HandleFunc("/tracks/{id}", cfg.Tracks.Update).Methods(http.MethodPut)
		router.HandleFunc("/tracks/{id}", cfg.Tracks.Delete).Methods(http.MethodDelete)
		router.HandleFunc("/tracks/{id}/deactivate", cfg.Tracks.Deactivate).Methods(http.MethodPost)
	}

	if cfg.Rooms != nil {
		router.HandleFunc("/rooms", cfg.Rooms.Create).Methods(http.MethodPost)
		router.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Get).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Update).Methods(http.MethodPut)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Delete).Methods(http.MethodDelete)
		router.HandleFunc("/rooms/{id}/deactivate", cfg.Rooms.Deactivate).Methods(http.MethodPost)
	}

	if cfg.Timeslots != nil {
		router.HandleFunc("/timeslots", cfg.Timeslots.Create).Methods(http.MethodPost)
		router.HandleFunc("/conventions/{id}/timeslots", cfg.Timeslots.List).Methods(http.MethodGet)
		router.HandleFunc("/conventions/{id}/timeslots/populate", cfg.Timeslots.PopulateGrid).Methods(http.MethodPost)
		router.HandleFunc("/timeslots/{id}", cfg.Timeslots.Update).Methods(http.MethodPut)
		router.HandleFunc("/timeslots/{id}", cfg.Timeslots.Delete).Methods(http.MethodDelete)
		router.HandleFunc("/timeslots/{id}/rooms", cfg.Timeslots.AvailableRooms).Methods(http.MethodGet)
		router.HandleFunc("/timeslots/{id}/rooms/{roomID}/availability", cfg.Timeslots.SetRoomAvailability).Methods(http.MethodPut)
	}

	if cfg.Catalog != nil {
		router.HandleFunc("/room-groups", cfg.Catalog.CreateRoomGroup).Methods(http.MethodPost)
		router.HandleFunc("/room-groups", cfg.Catalog.ListRoomGroups).Methods(http.MethodGet)
		router.HandleFunc("/room-groups/{id}", cfg.Catalog.DeleteRoomGroup).Methods(http.MethodDelete)

		router.HandleFunc("/resources", cfg.Catalog.CreateResource).Methods(http.MethodPost)
		router.HandleFunc("/resources", cfg.Catalog.ListResources).Methods(http.MethodGet)
		router.HandleFunc("/resources/{id}", cfg.Catalog.UpdateResource).Methods(http.MethodPut)
		router.HandleFunc("/resources/{id}", cfg.Catalog.DeleteResource).Methods(http.MethodDelete)
		router.HandleFunc("/resources/{id}/deactivate", cfg.Catalog.DeactivateResource).Methods(http.MethodPost)

		router.HandleFunc("/presenters", cfg.Catalog.CreatePresenter).Methods(http.MethodPost)
		router.HandleFunc("/presenters", cfg.Catalog.ListPresenters).Methods(http.MethodGet)
		router.HandleFunc("/presenters/{id}", cfg.Catalog.UpdatePresenter).Methods(http.MethodPut)
		router.HandleFunc("/presenters/{id}", cfg.Catalog.DeletePresenter).Methods(http.MethodDelete)
		router.HandleFunc("/presenters/{id}/deactivate", cfg.Catalog.DeactivatePresenter).Methods(http.MethodPost)

		router.HandleFunc("/event-types", cfg.Catalog.CreateEventType).Methods(http.MethodPost)
		router.HandleFunc("/event-types", cfg.Catalog.ListEventTypes).Methods(http.MethodGet)
		router.HandleFunc("/event-types/{id}", cfg.Catalog.DeleteEventType).Methods(http.MethodDelete)
		router.HandleFunc("/event-types/{id}/deactivate", cfg.Catalog.DeactivateEventType).Methods(http.MethodPost)
	}

	if cfg.Events != nil {
		router.HandleFunc("/events", cfg.Events.Create).Methods(http.MethodPost)
		router.HandleFunc("/events", cfg.Events.List).Methods(http.MethodGet)
		router.HandleFunc("/events/{id}", cfg.Events.Get).Methods(http.MethodGet)
		router.HandleFunc("/events/{id}", cfg.Events.Update).Methods(http.MethodPut)
		router.HandleFunc("/events/{id}", cfg.Events.Delete).Methods(http.MethodDelete)
		router.HandleFunc("/events/{id}/deactivate", cfg.Events.Deactivate).Methods(http.MethodPost)

		router.HandleFunc("/events/{id}/placement/check", cfg.Events.CheckPlacement).Methods(http.MethodPost)
		router.HandleFunc("/events/{id}/placement", cfg.Events.AssignPlacement).Methods(http.MethodPut)
		router.HandleFunc("/events/{id}/placement", cfg.Events.Unassign).Methods(http.MethodDelete)
		router.HandleFunc("/events/{id}/status", cfg.Events.Status).Methods(http.MethodGet)
		router.HandleFunc("/events/{id}/projection", cfg.Events.Projection).Methods(http.MethodGet)
	}

	if cfg.Import != nil {
		router.HandleFunc("/import/events", cfg.Import.ImportEvents).Methods(http.MethodPost)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
