// Package seeder drives a running service over HTTP with demo data:
// events, rosters, judges, and score sheets, then checks that every
// leaderboard comes back ordered.
package seeder

import (
	"time"
)

// Config holds the seed run parameters.
type Config struct {
	BaseURL        string
	NumEvents      int
	TeamsPerEvent  int
	JudgesPerEvent int
	Workers        int
	Timeout        time.Duration
	Verbose        bool
}

// Stats accumulates counters for the final report.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	EventsCreated    int64
	TeamsRegistered  int64
	JudgesRegistered int64
	ScoresSubmitted  int64
	RequestFailures  int64
}
