// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/app"
	"github.com/avesta/hackboard/internal/domain/leaderboard"
	"github.com/avesta/hackboard/internal/domain/ledger"
	"github.com/avesta/hackboard/internal/domain/model"
)

// Dependencies bundles what the HTTP handlers need from the orchestrator.
// The interface keeps the handler layer loosely coupled to the app package.
type Dependencies interface {
	CreateEvent(ctx context.Context, req app.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListEventsForJudge(ctx context.Context, judgeID string) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req app.UpdateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error

	RegisterTeam(ctx context.Context, eventID string, req app.RegisterTeamRequest) (string, *model.Event, error)
	GetTeams(ctx context.Context, eventID string) ([]model.Team, error)
	GetRubrics(ctx context.Context, eventID string) ([]model.Rubric, error)
	SubmitTeamDocument(ctx context.Context, eventID, teamID string, payload []byte, filename, mimeType string) (string, error)

	RegisterJudge(ctx context.Context, eventID, judgeID string) (*model.Event, error)
	SetJudgeStatus(ctx context.Context, eventID, judgeID, status string) (*model.Event, error)

	SubmitScores(ctx context.Context, eventID, judgeID, teamID string, entries []ledger.Entry) (*model.Event, error)
	Leaderboard(ctx context.Context, eventID string) ([]leaderboard.RankedTeam, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	eventsHandler      *EventsHandler
	teamsHandler       *TeamsHandler
	judgesHandler      *JudgesHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		eventsHandler:      NewEventsHandler(deps),
		teamsHandler:       NewTeamsHandler(deps),
		judgesHandler:      NewJudgesHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /events", MetricsMiddleware(s.eventsHandler.HandleCreateEvent, "events"))
	mux.HandleFunc("GET /events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))
	mux.HandleFunc("GET /events/{id}", MetricsMiddleware(s.eventsHandler.HandleGetEvent, "event"))
	mux.HandleFunc("PATCH /events/{id}", MetricsMiddleware(s.eventsHandler.HandleUpdateEvent, "event"))
	mux.HandleFunc("DELETE /events/{id}", MetricsMiddleware(s.eventsHandler.HandleDeleteEvent, "event"))

	mux.HandleFunc("POST /events/{id}/teams", MetricsMiddleware(s.teamsHandler.HandleRegisterTeam, "teams"))
	mux.HandleFunc("GET /events/{id}/teams", MetricsMiddleware(s.teamsHandler.HandleGetTeams, "teams"))
	mux.HandleFunc("GET /events/{id}/rubrics", MetricsMiddleware(s.teamsHandler.HandleGetRubrics, "rubrics"))
	mux.HandleFunc("POST /events/{id}/teams/{teamID}/submission", MetricsMiddleware(s.teamsHandler.HandleSubmission, "submission"))

	mux.HandleFunc("POST /events/{id}/judges", MetricsMiddleware(s.judgesHandler.HandleRegisterJudge, "judges"))
	mux.HandleFunc("PUT /events/{id}/judges/{judgeID}/status", MetricsMiddleware(s.judgesHandler.HandleSetStatus, "judge_status"))
	mux.HandleFunc("GET /judges/{judgeID}/events", MetricsMiddleware(s.judgesHandler.HandleJudgeEvents, "judge_events"))

	mux.HandleFunc("POST /events/{id}/scores", MetricsMiddleware(s.scoresHandler.HandleSubmitScores, "scores"))
	mux.HandleFunc("GET /events/{id}/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errStatus(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errStatus maps the orchestrator error taxonomy onto HTTP outcomes.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, app.ErrStateConflict):
		return http.StatusConflict, "state_conflict"
	case errors.Is(err, app.ErrUpstream), errors.Is(err, store.ErrUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrBadRequest
	}
	return nil
}
