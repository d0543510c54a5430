// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"io"
	"net/http"

	"github.com/avesta/hackboard/internal/app"
)

// maxSubmissionBytes caps an uploaded submission document.
const maxSubmissionBytes = 16 << 20

// TeamsHandler handles team registration and submissions.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// registerTeamRequest mirrors the JSON body of POST /events/{id}/teams.
type registerTeamRequest struct {
	TeamName       string   `json:"team_name"`
	Members        []string `json:"members,omitempty"`
	MemberIDs      []string `json:"member_ids,omitempty"`
	SlotPreference int      `json:"slot_preference,omitempty"`
}

// registerTeamResponse returns the generated id alongside the updated
// document; the response is the only way a team learns its identifier.
type registerTeamResponse struct {
	TeamID string `json:"team_id"`
	Event  any    `json:"event"`
}

// HandleRegisterTeam handles POST /events/{id}/teams.
func (h *TeamsHandler) HandleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	teamID, ev, err := h.deps.RegisterTeam(r.Context(), r.PathValue("id"), app.RegisterTeamRequest{
		TeamName:       req.TeamName,
		Members:        req.Members,
		MemberIDs:      req.MemberIDs,
		SlotPreference: req.SlotPreference,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerTeamResponse{TeamID: teamID, Event: ev})
}

// HandleGetTeams handles GET /events/{id}/teams.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.GetTeams(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleGetRubrics handles GET /events/{id}/rubrics.
func (h *TeamsHandler) HandleGetRubrics(w http.ResponseWriter, r *http.Request) {
	rubrics, err := h.deps.GetRubrics(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rubrics)
}

type submissionResponse struct {
	SubmissionLink string `json:"submission_link"`
}

// HandleSubmission handles POST /events/{id}/teams/{teamID}/submission.
// The document arrives as a multipart form under the "file" field.
func (h *TeamsHandler) HandleSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeError(w, ErrBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, ErrBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxSubmissionBytes))
	if err != nil {
		writeError(w, ErrBadRequest)
		return
	}

	url, err := h.deps.SubmitTeamDocument(
		r.Context(),
		r.PathValue("id"),
		r.PathValue("teamID"),
		payload,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{SubmissionLink: url})
}
