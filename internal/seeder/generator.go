package seeder

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/avesta/hackboard/internal/app"
	"github.com/avesta/hackboard/internal/domain/model"
)

const randomFloatDivisor = 1_000_000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

var teamAdjectives = []string{
	"quantum", "rusty", "turbo", "sleepy", "caffeinated",
	"recursive", "parallel", "stochastic", "greedy", "lazy",
}

var teamNouns = []string{
	"llamas", "bitflippers", "compilers", "goroutines", "tensors",
	"packets", "mutexes", "buffers", "wombats", "daemons",
}

// generateEvent builds a create-event request with rubrics and slots.
func generateEvent(n int) app.CreateEventRequest {
	return app.CreateEventRequest{
		Info: model.Info{
			Name:        fmt.Sprintf("Demo Hackathon %03d", n),
			Description: "seeded demo event",
			Date:        "2026-10-17",
			Location:    fmt.Sprintf("Hall %c", 'A'+n%6),
		},
		Rubrics: []model.Rubric{
			{RubricID: "innovation", Name: "Innovation", MaxScore: 10, Weight: 3},
			{RubricID: "execution", Name: "Execution", MaxScore: 10, Weight: 2},
			{RubricID: "presentation", Name: "Presentation", MaxScore: 5, Weight: 1},
		},
		Slots: []model.Slot{
			{SlotNumber: 1, StartTime: "18:00", EndTime: "19:00"},
			{SlotNumber: 2, StartTime: "19:00", EndTime: "20:00"},
		},
	}
}

// generateTeam builds a roster of exactly model.TeamSize members.
func generateTeam(eventN, teamN int) app.RegisterTeamRequest {
	adjective := teamAdjectives[teamN%len(teamAdjectives)]
	noun := teamNouns[(teamN/len(teamAdjectives))%len(teamNouns)]

	members := make([]string, model.TeamSize)
	for i := range members {
		members[i] = fmt.Sprintf("student%03d-%d-%d@campus.edu", eventN, teamN, i)
	}

	return app.RegisterTeamRequest{
		TeamName:       fmt.Sprintf("%s %s", adjective, noun),
		Members:        members,
		SlotPreference: 1 + teamN%2,
	}
}

// generateJudgeID produces a stable id for the nth judge of an event.
func generateJudgeID(eventN, judgeN int) string {
	return fmt.Sprintf("judge-%03d-%d", eventN, judgeN)
}

// generateScore picks a plausible score within the rubric maximum.
func generateScore(maxScore float64) float64 {
	// Cluster toward the upper half so leaderboards look lively.
	return maxScore * (0.4 + 0.6*getRandomFloat())
}
