// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/avesta/hackboard/internal/app"
	"github.com/avesta/hackboard/internal/domain/model"
)

// EventsHandler handles event aggregate requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// createEventRequest mirrors the JSON body of POST /events.
type createEventRequest struct {
	Info    model.Info     `json:"info"`
	Rubrics []model.Rubric `json:"rubrics,omitempty"`
	Slots   []model.Slot   `json:"slots,omitempty"`
}

// HandleCreateEvent handles POST /events.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.deps.CreateEvent(r.Context(), app.CreateEventRequest{
		Info:    req.Info,
		Rubrics: req.Rubrics,
		Slots:   req.Slots,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleListEvents handles GET /events.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleGetEvent handles GET /events/{id}.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.deps.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// updateEventRequest mirrors the JSON body of PATCH /events/{id}. Absent
// fields stay untouched.
type updateEventRequest struct {
	Info    *model.Info     `json:"info,omitempty"`
	Rubrics *[]model.Rubric `json:"rubrics,omitempty"`
	Slots   *[]model.Slot   `json:"slots,omitempty"`
}

// HandleUpdateEvent handles PATCH /events/{id}.
func (h *EventsHandler) HandleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.deps.UpdateEvent(r.Context(), r.PathValue("id"), app.UpdateEventRequest{
		Info:    req.Info,
		Rubrics: req.Rubrics,
		Slots:   req.Slots,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleDeleteEvent handles DELETE /events/{id}.
func (h *EventsHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
