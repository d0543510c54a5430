// Package leaderboard computes ranked standings from an event snapshot.
//
// Rank is a pure function: for a fixed (teams, rubrics, scores) input it
// always produces the same output and never mutates its arguments.
package leaderboard

import (
	"math"
	"sort"

	"github.com/avesta/hackboard/internal/domain/model"
)

// RankedTeam is one row of the computed leaderboard.
type RankedTeam struct {
	Rank       int      `json:"rank"`
	TeamID     string   `json:"team_id"`
	TeamName   string   `json:"team_name"`
	Members    []string `json:"members"`
	FinalScore float64  `json:"final_score"`
}

const percentScale = 100

// Rank computes the weighted, normalized standings for the given snapshot.
//
// Every judge's every rubric score contributes to one pooled weighted sum per
// team; judges are not averaged separately. Per (judge, rubric) key only the
// entry with the latest timestamp counts, which shields the output from
// pre-existing duplicate rows in the document. Ties keep the prior relative
// team order and still receive consecutive distinct ranks.
func Rank(teams []model.Team, rubrics []model.Rubric, scores []model.Score) []RankedTeam {
	rubricsByID := make(map[string]model.Rubric, len(rubrics))
	for _, r := range rubrics {
		rubricsByID[r.RubricID] = r
	}

	teamIDs := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		teamIDs[t.TeamID] = struct{}{}
	}

	// latest[teamID][judgeID|rubricID] keeps the newest entry per key.
	latest := make(map[string]map[string]model.Score, len(teams))
	for _, s := range scores {
		if _, ok := teamIDs[s.TeamID]; !ok {
			continue
		}
		if _, ok := rubricsByID[s.RubricID]; !ok {
			continue
		}
		key := s.JudgeID + "|" + s.RubricID
		byKey, ok := latest[s.TeamID]
		if !ok {
			byKey = make(map[string]model.Score)
			latest[s.TeamID] = byKey
		}
		if prev, seen := byKey[key]; !seen || s.Timestamp.After(prev.Timestamp) {
			byKey[key] = s
		}
	}

	out := make([]RankedTeam, 0, len(teams))
	for _, t := range teams {
		var totalWeighted, totalWeight float64
		for _, s := range latest[t.TeamID] {
			rubric := rubricsByID[s.RubricID]
			normalized := s.Score / rubric.MaxScore
			totalWeighted += normalized * rubric.Weight
			totalWeight += rubric.Weight
		}

		final := 0.0
		if totalWeight > 0 {
			final = round2(totalWeighted / totalWeight * percentScale)
		}

		out = append(out, RankedTeam{
			TeamID:     t.TeamID,
			TeamName:   t.TeamName,
			Members:    append([]string(nil), t.Members...),
			FinalScore: final,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
