package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/avesta/hackboard/internal/seeder"
	"github.com/avesta/hackboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents      = 5
	defaultTeamsPerEvent  = 8
	defaultJudgesPerEvent = 3
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents      = flag.Int("events", defaultNumEvents, "Number of events to seed")
		teamsPerEvent  = flag.Int("teams", defaultTeamsPerEvent, "Teams registered per event")
		judgesPerEvent = flag.Int("judges", defaultJudgesPerEvent, "Judges registered per event")
		workers        = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeder.Config{
		BaseURL:        *baseURL,
		NumEvents:      *numEvents,
		TeamsPerEvent:  *teamsPerEvent,
		JudgesPerEvent: *judgesPerEvent,
		Workers:        *workers,
		Timeout:        *timeout,
		Verbose:        *verbose,
	}

	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
