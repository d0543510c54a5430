package app

import (
	"context"
	"fmt"

	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"
)

// RegisterTeamRequest carries a roster registration. Members are email
// addresses; MemberIDs are student identifiers resolved through the identity
// collaborator and may be mixed with direct addresses.
type RegisterTeamRequest struct {
	TeamName       string   `json:"team_name"`
	Members        []string `json:"members,omitempty"`
	MemberIDs      []string `json:"member_ids,omitempty"`
	SlotPreference int      `json:"slot_preference,omitempty"`
}

// RegisterTeam validates the roster and appends a new team to the event.
// Registration always appends, even for a roster identical to an existing
// team; callers learn the generated id only from the return value.
func (s *Service) RegisterTeam(ctx context.Context, eventID string, req RegisterTeamRequest) (string, *model.Event, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return "", nil, err
	}

	members, err := s.resolveMembers(ctx, req)
	if err != nil {
		metrics.RecordValidationFailure("teams")
		return "", nil, err
	}

	team := model.Team{
		TeamID:         s.ids.Next(),
		TeamName:       req.TeamName,
		Members:        members,
		SlotPreference: req.SlotPreference,
	}
	if err := team.Validate(); err != nil {
		metrics.RecordValidationFailure("teams")
		return "", nil, err
	}
	if req.SlotPreference != 0 && !ev.HasSlot(req.SlotPreference) {
		metrics.RecordValidationFailure("teams")
		return "", nil, fmt.Errorf("%w: slot %d does not exist", model.ErrValidation, req.SlotPreference)
	}

	ev.Teams = append(ev.Teams, team)
	updated, err := s.replace(ctx, ev)
	if err != nil {
		return "", nil, err
	}

	metrics.RecordTeamRegistered()
	s.logger.Info(ctx, "team registered",
		logger.String("eventID", eventID),
		logger.String("teamID", team.TeamID),
		logger.String("teamName", team.TeamName),
	)
	return team.TeamID, updated, nil
}

// resolveMembers turns MemberIDs into addresses via the identity
// collaborator and appends the directly supplied addresses.
func (s *Service) resolveMembers(ctx context.Context, req RegisterTeamRequest) ([]string, error) {
	members := append([]string(nil), req.Members...)
	if len(req.MemberIDs) == 0 {
		return members, nil
	}
	if s.identities == nil {
		return nil, fmt.Errorf("%w: member ids given but no identity lookup is configured", model.ErrValidation)
	}
	for _, id := range req.MemberIDs {
		email, err := s.identities.EmailForStudent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: member %s has no registered address", model.ErrValidation, id)
		}
		members = append(members, email)
	}
	return members, nil
}

// GetTeams returns the team list of one event.
func (s *Service) GetTeams(ctx context.Context, eventID string) ([]model.Team, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ev.Teams, nil
}

// SubmitTeamDocument uploads a submission through the file deposit and
// records the returned URL on the team. The upload happens before the
// document write; a deposit failure leaves the event untouched.
func (s *Service) SubmitTeamDocument(ctx context.Context, eventID, teamID string, payload []byte, filename, mimeType string) (string, error) {
	if s.deposits == nil {
		return "", fmt.Errorf("%w: no file deposit configured", ErrUpstream)
	}

	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return "", err
	}
	team := ev.TeamByID(teamID)
	if team == nil {
		return "", fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}

	url, err := s.deposits.Upload(ctx, payload, filename, mimeType)
	if err != nil {
		metrics.RecordUpstreamFailure("deposit")
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	team.SubmissionLink = url
	if _, err := s.replace(ctx, ev); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "submission deposited",
		logger.String("eventID", eventID),
		logger.String("teamID", teamID),
		logger.String("url", url),
	)
	return url, nil
}
