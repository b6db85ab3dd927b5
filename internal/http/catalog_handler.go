package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/persistence"
)

type catalogService interface {
	CreateRoomGroup(ctx context.Context, input application.RoomGroupInput) (persistence.RoomGroup, error)
	ListRoomGroups(ctx context.Context) ([]persistence.RoomGroup, error)
	DeleteRoomGroup(ctx context.Context, id string) error

	CreateResource(ctx context.Context, input application.ResourceInput) (persistence.Resource, error)
	UpdateResource(ctx context.Context, id string, input application.ResourceInput) (persistence.Resource, error)
	ListResources(ctx context.Context) ([]persistence.Resource, error)
	DeactivateResource(ctx context.Context, id string) error
	DeleteResource(ctx context.Context, id string) error

	CreatePresenter(ctx context.Context, input application.PresenterInput) (persistence.Presenter, error)
	UpdatePresenter(ctx context.Context, id string, input application.PresenterInput) (persistence.Presenter, error)
	ListPresenters(ctx context.Context) ([]persistence.Presenter, error)
	DeactivatePresenter(ctx context.Context, id string) error
	DeletePresenter(ctx context.Context, id string) error

	CreateEventType(ctx context.Context, input application.EventTypeInput) (persistence.EventType, error)
	ListEventTypes(ctx context.Context) ([]persistence.EventType, error)
	DeactivateEventType(ctx context.Context, id string) error
	DeleteEventType(ctx context.Context, id string) error
}

// CatalogHandler serves the supporting-entity endpoints: room groups,
// resources, presenters and event types.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

// --- room groups ---

func (h *CatalogHandler) CreateRoomGroup(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateRoomGroup")
	group, err := h.service.CreateRoomGroup(r.Context(), application.RoomGroupInput{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		logger.ErrorContext(r.Context(), "room group creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.With("room_group_id", group.ID).InfoContext(r.Context(), "room group created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomGroupDTO{ID: group.ID, Name: group.Name})
}

func (h *CatalogHandler) ListRoomGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListRoomGroups(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	dtos := make([]roomGroupDTO, 0, len(groups))
	for _, group := range groups {
		dtos = append(dtos, roomGroupDTO{ID: group.ID, Name: group.Name})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]roomGroupDTO{"room_groups": dtos})
}

func (h *CatalogHandler) DeleteRoomGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeleteRoomGroup(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// --- resources ---

func (h *CatalogHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateResource")
	resource, err := h.service.CreateResource(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "resource creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.With("resource_id", resource.ID).InfoContext(r.Context(), "resource created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toResourceDTO(resource))
}

func (h *CatalogHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	resource, err := h.service.UpdateResource(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toResourceDTO(resource))
}

func (h *CatalogHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	dtos := make([]resourceDTO, 0, len(resources))
	for _, resource := range resources {
		dtos = append(dtos, toResourceDTO(resource))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]resourceDTO{"resources": dtos})
}

func (h *CatalogHandler) DeactivateResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeactivateResource(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// --- presenters ---

func (h *CatalogHandler) CreatePresenter(w http.ResponseWriter, r *http.Request) {
	var req presenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreatePresenter")
	presenter, err := h.service.CreatePresenter(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "presenter creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.With("presenter_id", presenter.ID).InfoContext(r.Context(), "presenter created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toPresenterDTO(presenter))
}

func (h *CatalogHandler) UpdatePresenter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req presenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	presenter, err := h.service.UpdatePresenter(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPresenterDTO(presenter))
}

func (h *CatalogHandler) ListPresenters(w http.ResponseWriter, r *http.Request) {
	presenters, err := h.service.ListPresenters(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	dtos := make([]presenterDTO, 0, len(presenters))
	for _, presenter := range presenters {
		dtos = append(dtos, toPresenterDTO(presenter))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]presenterDTO{"presenters": dtos})
}

func (h *CatalogHandler) DeactivatePresenter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeactivatePresenter(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) DeletePresenter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeletePresenter(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// --- event types ---

func (h *CatalogHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateEventType")
	eventType, err := h.service.CreateEventType(r.Context(), application.EventTypeInput{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		logger.ErrorContext(r.Context(), "event type creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.With("event_type_id", eventType.ID).InfoContext(r.Context(), "event type created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventTypeDTO{ID: eventType.ID, Name: eventType.Name, Active: eventType.Active})
}

func (h *CatalogHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	eventTypes, err := h.service.ListEventTypes(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	dtos := make([]eventTypeDTO, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		dtos = append(dtos, eventTypeDTO{ID: eventType.ID, Name: eventType.Name, Active: eventType.Active})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]eventTypeDTO{"event_types": dtos})
}

func (h *CatalogHandler) DeactivateEventType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeactivateEventType(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) DeleteEventType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeleteEventType(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type nameRequest struct {
	Name string `json:"name"`
}

type resourceRequest struct {
	Name                   string `json:"name"`
	RequestFormLabel       string `json:"request_form_label"`
	DisplayedOnRequestForm bool   `json:"displayed_on_request_form"`
	Exclusive              bool   `json:"exclusive"`
}

func (r resourceRequest) toInput() application.ResourceInput {
	return application.ResourceInput{
		Name:                   strings.TrimSpace(r.Name),
		RequestFormLabel:       r.RequestFormLabel,
		DisplayedOnRequestForm: r.DisplayedOnRequestForm,
		Exclusive:              r.Exclusive,
	}
}

type presenterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (r presenterRequest) toInput() application.PresenterInput {
	return application.PresenterInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
	}
}

type roomGroupDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type resourceDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	RequestFormLabel       string `json:"request_form_label,omitempty"`
	DisplayedOnRequestForm bool   `json:"displayed_on_request_form"`
	Exclusive              bool   `json:"exclusive"`
	Active                 bool   `json:"active"`
}

func toResourceDTO(resource persistence.Resource) resourceDTO {
	return resourceDTO{
		ID:                     resource.ID,
		Name:                   resource.Name,
		RequestFormLabel:       resource.RequestFormLabel,
		DisplayedOnRequestForm: resource.DisplayedOnRequestForm,
		Exclusive:              resource.Exclusive,
		Active:                 resource.Active,
	}
}

type presenterDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Active    bool   `json:"active"`
}

func toPresenterDTO(presenter persistence.Presenter) presenterDTO {
	return presenterDTO{
		ID:        presenter.ID,
		FirstName: presenter.FirstName,
		LastName:  presenter.LastName,
		Email:     presenter.Email,
		Phone:     presenter.Phone,
		Active:    presenter.Active,
	}
}

type eventTypeDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
