package app

import (
	"context"
	"time"

	"github.com/avesta/hackboard/internal/domain/leaderboard"
	"github.com/avesta/hackboard/internal/domain/ledger"
	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"
)

// SubmitScores validates and writes one judge's scores for one team. The
// call is atomic with respect to its own entries: either every entry merges
// into the document or none does. Entries sharing a (judge, team, rubric)
// key with a live entry replace it.
func (s *Service) SubmitScores(ctx context.Context, eventID, judgeID, teamID string, entries []ledger.Entry) (*model.Event, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	merged, err := ledger.Merge(ev, judgeID, teamID, entries, s.now())
	if err != nil {
		metrics.RecordValidationFailure("scores")
		return nil, err
	}
	ev.Scores = merged

	updated, err := s.replace(ctx, ev)
	if err != nil {
		return nil, err
	}

	metrics.RecordScoreSubmission(len(entries))
	s.logger.Info(ctx, "scores submitted",
		logger.String("eventID", eventID),
		logger.String("judgeID", judgeID),
		logger.String("teamID", teamID),
		logger.Int("entries", len(entries)),
	)
	return updated, nil
}

// Leaderboard computes the ranked standings from a single-shot snapshot.
func (s *Service) Leaderboard(ctx context.Context, eventID string) ([]leaderboard.RankedTeam, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranked := leaderboard.Rank(ev.Teams, ev.Rubrics, ev.Scores)
	metrics.RecordLeaderboardBuild(float64(time.Since(start).Microseconds()) / 1000.0)

	return ranked, nil
}
