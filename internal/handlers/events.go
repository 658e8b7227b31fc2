package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

// EventHandler serves the event registry and card availability
type EventHandler struct {
	eventService     services.EventServiceInterface
	inventoryService services.InventoryServiceInterface
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService services.EventServiceInterface, inventoryService services.InventoryServiceInterface, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService:     eventService,
		inventoryService: inventoryService,
		logger:           handlerLogger(logger, "events"),
	}
}

// eventResponse adds the display price to an event
type eventResponse struct {
	*models.Event
	Price string `json:"price"`
}

func newEventResponse(event *models.Event) eventResponse {
	return eventResponse{Event: event, Price: models.FormatCents(event.PriceCents)}
}

// ListEvents handles GET /api/events?active=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	events, err := h.eventService.ListEvents(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, newEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEventResponse(event))
}

// GetEvent handles GET /api/events/{eventID}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event))
}

// UpdateEvent handles PUT /api/events/{eventID}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req models.EventUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event))
}

// ActivateEvent handles POST /api/events/{eventID}/activate
func (h *EventHandler) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// DeactivateEvent handles POST /api/events/{eventID}/deactivate
func (h *EventHandler) DeactivateEvent(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *EventHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	event, err := h.eventService.SetEventActive(r.Context(), id, active)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event))
}

// AvailableCards handles GET /api/events/{eventID}/cards/available
func (h *EventHandler) AvailableCards(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cards, err := h.inventoryService.ListAvailableCards(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_id": id,
		"count":    cards.Len(),
		"cards":    cards.Ints(),
	})
}
