// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// JudgesHandler handles judge registration and status transitions.
type JudgesHandler struct {
	deps Dependencies
}

// NewJudgesHandler creates a new judges handler.
func NewJudgesHandler(deps Dependencies) *JudgesHandler {
	return &JudgesHandler{deps: deps}
}

// registerJudgeRequest mirrors the JSON body of POST /events/{id}/judges.
type registerJudgeRequest struct {
	JudgeID string `json:"judge_id"`
}

// HandleRegisterJudge handles POST /events/{id}/judges. Registration always
// grants approval, including for judges previously denied.
func (h *JudgesHandler) HandleRegisterJudge(w http.ResponseWriter, r *http.Request) {
	var req registerJudgeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.deps.RegisterJudge(r.Context(), r.PathValue("id"), req.JudgeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// setStatusRequest mirrors the JSON body of PUT .../judges/{judgeID}/status.
type setStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PUT /events/{id}/judges/{judgeID}/status.
func (h *JudgesHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.deps.SetJudgeStatus(r.Context(), r.PathValue("id"), r.PathValue("judgeID"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleJudgeEvents handles GET /judges/{judgeID}/events.
func (h *JudgesHandler) HandleJudgeEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.ListEventsForJudge(r.Context(), r.PathValue("judgeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
