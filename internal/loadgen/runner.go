package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete load run: health check, generation, concurrent
// submission, settling, then verification of every track's leaderboard.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	applyDefaults(config)
	log := logger.Get().Named("loadgen")

	log.Info(ctx, "starting classrank load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("events", config.NumEvents),
		logger.Int("students", config.Students),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Int("topN", config.TopN))

	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	events, err := generateEvents(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("event generation failed: %w", err)
	}

	baseline, err := handledCount(ctx, config)
	if err != nil {
		return stats, err
	}

	accepted := submitEvents(ctx, config, events, stats)

	if err := waitForProcessing(ctx, config, baseline+int64(len(accepted))); err != nil {
		return stats, fmt.Errorf("waiting for processing: %w", err)
	}

	if err := verify(ctx, config, accepted, stats); err != nil {
		return stats, err
	}

	if config.OutputFile != "" {
		if err := saveEventsToFile(ctx, config.OutputFile, events); err != nil {
			log.Warn(ctx, "failed to save events to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func applyDefaults(config *Config) {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Students < 1 {
		config.Students = 1
	}
	if config.TopN < 1 {
		config.TopN = 1
	}
	if config.Settle <= 0 {
		config.Settle = DefaultSettle
	}
}

// verify checks every track's leaderboard and the rank endpoint for each
// track's leader.
func verify(ctx context.Context, config *Config, accepted []Event, stats *Stats) error {
	weekly := expectedWeekly(accepted)
	for _, track := range tier.Tracks() {
		board, err := getLeaderboard(ctx, config, track)
		if err != nil {
			return err
		}
		want := weekly
		if track.Source() != tier.TrackWeekly {
			want = nil
		}
		if err := verifyTrack(track, board, want); err != nil {
			return err
		}
		stats.StandingsChecked += len(board)

		if len(board) == 0 {
			continue
		}
		leader, err := getStanding(ctx, config, track, board[0].StudentID)
		if err != nil {
			return err
		}
		if err := verifyStanding(board[0], leader); err != nil {
			return err
		}
		logger.Get().Info(ctx, "track verified",
			logger.String("track", string(track)),
			logger.Int("entries", len(board)),
			logger.String("leader", board[0].StudentID),
			logger.String("tier", board[0].Current.Name))
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON(ctx, config.BaseURL+"/healthz", &health); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("service reports status %q", health.Status)
	}
	return nil
}

// saveEventsToFile saves the generated events to a JSON file.
func saveEventsToFile(ctx context.Context, filename string, events []Event) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "events saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, eventsPerSecond float64
	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("standingsChecked", stats.StandingsChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
