// Package ledger validates and merges score submissions into an event
// snapshot. It never writes; the orchestrator persists the merged result.
package ledger

import (
	"fmt"
	"time"

	"github.com/avesta/hackboard/internal/domain/model"
)

// Entry is one rubric score inside a submission.
type Entry struct {
	RubricID string  `json:"rubric_id"`
	Score    float64 `json:"score"`
}

// Merge validates a submission against the event snapshot and returns the
// replacement scores slice for the whole document.
//
// The validation chain short-circuits on the first failure: judge exists and
// is approved, team exists, every rubric resolves, every score is within
// [0, maxScore]. On success each submitted entry overwrites any live entry
// with the same (judge, team, rubric) key and receives the now timestamp;
// untouched entries keep their position.
func Merge(ev *model.Event, judgeID, teamID string, entries []Entry, now time.Time) ([]model.Score, error) {
	judge := ev.JudgeByID(judgeID)
	if judge == nil {
		return nil, fmt.Errorf("%w: judge not found", model.ErrValidation)
	}
	if judge.Status != model.JudgeApproved {
		return nil, fmt.Errorf("%w: judge is not approved", model.ErrValidation)
	}
	if ev.TeamByID(teamID) == nil {
		return nil, fmt.Errorf("%w: team not found", model.ErrValidation)
	}
	for _, e := range entries {
		rubric := ev.RubricByID(e.RubricID)
		if rubric == nil {
			return nil, fmt.Errorf("%w: rubric %s not found", model.ErrValidation, e.RubricID)
		}
		if e.Score < 0 || e.Score > rubric.MaxScore {
			return nil, fmt.Errorf("%w: score for rubric %s must be between 0 and %g", model.ErrValidation, e.RubricID, rubric.MaxScore)
		}
	}

	// Keyed replacement over the existing array. Order stays stable for
	// surviving entries; new keys append in submission order.
	byKey := make(map[string]int, len(ev.Scores))
	merged := make([]model.Score, len(ev.Scores))
	copy(merged, ev.Scores)
	for i, s := range merged {
		byKey[s.Key()] = i
	}

	for _, e := range entries {
		s := model.Score{
			JudgeID:   judgeID,
			TeamID:    teamID,
			RubricID:  e.RubricID,
			Score:     e.Score,
			Timestamp: now,
		}
		if i, ok := byKey[s.Key()]; ok {
			merged[i] = s
			continue
		}
		byKey[s.Key()] = len(merged)
		merged = append(merged, s)
	}

	return merged, nil
}
