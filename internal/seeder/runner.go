package seeder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
)

// Run executes the complete seed pass: health check, event creation,
// team and judge registration, score submission, and leaderboard checks.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting hackboard seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("events", config.NumEvents),
		logger.Int("teamsPerEvent", config.TeamsPerEvent),
		logger.Int("judgesPerEvent", config.JudgesPerEvent),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	eventIDs, err := seedEvents(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("event seeding failed: %w", err)
	}

	if err := verifyLeaderboards(ctx, client, config, eventIDs, stats); err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "seed run completed",
		logger.Int64("eventsCreated", stats.EventsCreated),
		logger.Int64("teamsRegistered", stats.TeamsRegistered),
		logger.Int64("judgesRegistered", stats.JudgesRegistered),
		logger.Int64("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int64("requestFailures", stats.RequestFailures),
		logger.Duration("duration", stats.Duration))
	return nil
}

// checkServiceHealth verifies the service is answering.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	return client.Get(ctx, config.BaseURL+"/healthz", nil)
}

// seedEvents creates the events concurrently and populates each one.
func seedEvents(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]string, error) {
	eventIDs := make([]string, config.NumEvents)
	work := make(chan int)

	var wg sync.WaitGroup
	var firstErr atomic.Value

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range work {
				id, err := seedOneEvent(ctx, client, config, stats, n)
				if err != nil {
					atomic.AddInt64(&stats.RequestFailures, 1)
					firstErr.CompareAndSwap(nil, err)
					continue
				}
				eventIDs[n] = id
			}
		}()
	}

	for n := 0; n < config.NumEvents; n++ {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return nil, ctx.Err()
		case work <- n:
		}
	}
	close(work)
	wg.Wait()

	if err, ok := firstErr.Load().(error); ok && err != nil {
		return nil, err
	}
	return eventIDs, nil
}

// seedOneEvent creates one event and fills it with teams, judges, and scores.
func seedOneEvent(ctx context.Context, client *HTTPClient, config *Config, stats *Stats, n int) (string, error) {
	var ev model.Event
	if err := client.Post(ctx, config.BaseURL+"/events", generateEvent(n), &ev); err != nil {
		return "", err
	}
	atomic.AddInt64(&stats.EventsCreated, 1)

	if config.Verbose {
		logger.Get().Debug(ctx, "seeded event",
			logger.String("eventID", ev.EventID), logger.String("name", ev.Info.Name))
	}

	teamIDs := make([]string, 0, config.TeamsPerEvent)
	for t := 0; t < config.TeamsPerEvent; t++ {
		var out struct {
			TeamID string `json:"team_id"`
		}
		if err := client.Post(ctx, config.BaseURL+"/events/"+ev.EventID+"/teams", generateTeam(n, t), &out); err != nil {
			return "", err
		}
		teamIDs = append(teamIDs, out.TeamID)
		atomic.AddInt64(&stats.TeamsRegistered, 1)
	}

	judgeIDs := make([]string, 0, config.JudgesPerEvent)
	for j := 0; j < config.JudgesPerEvent; j++ {
		judgeID := generateJudgeID(n, j)
		body := map[string]string{"judge_id": judgeID}
		if err := client.Post(ctx, config.BaseURL+"/events/"+ev.EventID+"/judges", body, nil); err != nil {
			return "", err
		}
		judgeIDs = append(judgeIDs, judgeID)
		atomic.AddInt64(&stats.JudgesRegistered, 1)
	}

	// Deny the last judge when there is more than one, so the denied
	// path gets exercised too. Denied judges submit nothing.
	if len(judgeIDs) > 1 {
		denied := judgeIDs[len(judgeIDs)-1]
		body := map[string]string{"status": "denied"}
		if err := client.Put(ctx, config.BaseURL+"/events/"+ev.EventID+"/judges/"+denied+"/status", body, nil); err != nil {
			return "", err
		}
		judgeIDs = judgeIDs[:len(judgeIDs)-1]
	}

	rubrics := []model.Rubric{}
	if err := client.Get(ctx, config.BaseURL+"/events/"+ev.EventID+"/rubrics", &rubrics); err != nil {
		return "", err
	}

	for _, judgeID := range judgeIDs {
		for _, teamID := range teamIDs {
			scores := make([]map[string]any, 0, len(rubrics))
			for _, r := range rubrics {
				scores = append(scores, map[string]any{
					"rubric_id": r.RubricID,
					"score":     generateScore(r.MaxScore),
				})
			}
			body := map[string]any{
				"judge_id": judgeID,
				"team_id":  teamID,
				"scores":   scores,
			}
			if err := client.Post(ctx, config.BaseURL+"/events/"+ev.EventID+"/scores", body, nil); err != nil {
				return "", err
			}
			atomic.AddInt64(&stats.ScoresSubmitted, int64(len(scores)))
		}
	}

	return ev.EventID, nil
}
