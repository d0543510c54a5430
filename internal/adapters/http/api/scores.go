// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/avesta/hackboard/internal/domain/ledger"
)

// ScoresHandler handles score submissions.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// submitScoresRequest mirrors the JSON body of POST /events/{id}/scores.
type submitScoresRequest struct {
	JudgeID string       `json:"judge_id"`
	TeamID  string       `json:"team_id"`
	Scores  []scoreEntry `json:"scores"`
}

type scoreEntry struct {
	RubricID string  `json:"rubric_id"`
	Score    float64 `json:"score"`
}

// HandleSubmitScores handles POST /events/{id}/scores. The batch is
// all-or-nothing: one invalid entry rejects the whole submission.
func (h *ScoresHandler) HandleSubmitScores(w http.ResponseWriter, r *http.Request) {
	var req submitScoresRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entries := make([]ledger.Entry, 0, len(req.Scores))
	for _, s := range req.Scores {
		entries = append(entries, ledger.Entry{RubricID: s.RubricID, Score: s.Score})
	}

	ev, err := h.deps.SubmitScores(r.Context(), r.PathValue("id"), req.JudgeID, req.TeamID, entries)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
