package seeder

import (
	"context"
	"fmt"

	"github.com/avesta/hackboard/pkg/logger"
)

// rankedRow mirrors the leaderboard response shape.
type rankedRow struct {
	Rank       int     `json:"rank"`
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	FinalScore float64 `json:"final_score"`
}

// verifyLeaderboards fetches every seeded event's standings and checks
// ordering and rank numbering.
func verifyLeaderboards(ctx context.Context, client *HTTPClient, config *Config, eventIDs []string, stats *Stats) error {
	for _, eventID := range eventIDs {
		if eventID == "" {
			continue
		}

		var rows []rankedRow
		if err := client.Get(ctx, config.BaseURL+"/events/"+eventID+"/leaderboard", &rows); err != nil {
			return err
		}

		if len(rows) != config.TeamsPerEvent {
			return fmt.Errorf("event %s: expected %d ranked teams, got %d",
				eventID, config.TeamsPerEvent, len(rows))
		}

		for i, row := range rows {
			if row.Rank != i+1 {
				return fmt.Errorf("event %s: row %d carries rank %d", eventID, i, row.Rank)
			}
			if i > 0 && row.FinalScore > rows[i-1].FinalScore {
				return fmt.Errorf("event %s: standings not descending at rank %d", eventID, row.Rank)
			}
			if row.FinalScore < 0 || row.FinalScore > 100 {
				return fmt.Errorf("event %s: final score %.2f out of range", eventID, row.FinalScore)
			}
		}

		if config.Verbose && len(rows) > 0 {
			logger.Get().Debug(ctx, "leaderboard verified",
				logger.String("eventID", eventID),
				logger.String("winner", rows[0].TeamName),
				logger.Float64("topScore", rows[0].FinalScore))
		}
	}

	logger.Get().Info(ctx, "all leaderboards verified", logger.Int("events", len(eventIDs)))
	return nil
}
