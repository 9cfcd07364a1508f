package loadgen

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/pkg/logger"
)

// serviceStats is the part of GET /stats the runner reads.
type serviceStats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// handled is the number of events the workers finished, successfully or not.
func (s serviceStats) handled() int64 { return s.Processed + s.Failed }

// handledCount reads the service's running total of handled events. The
// total spans every run since the service started.
func handledCount(ctx context.Context, config *Config) (int64, error) {
	var st serviceStats
	if err := newHTTPClient(config.Timeout).getJSON(ctx, config.BaseURL+"/stats", &st); err != nil {
		return 0, fmt.Errorf("read stats: %w", err)
	}
	return st.handled(), nil
}

// waitForProcessing polls /stats until the running total of handled events
// reaches target, or settle elapses.
func waitForProcessing(ctx context.Context, config *Config, target int64) error {
	client := newHTTPClient(config.Timeout)
	deadline := time.Now().Add(config.Settle)
	for {
		var st serviceStats
		if err := client.getJSON(ctx, config.BaseURL+"/stats", &st); err != nil {
			return err
		}
		if st.handled() >= target {
			logger.Get().Info(ctx, "events processed",
				logger.Int64("processed", st.Processed),
				logger.Int64("failed", st.Failed))
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("handled %d events, want %d after %s", st.handled(), target, config.Settle)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settlePollInterval):
		}
	}
}

// getLeaderboard retrieves the top N standings of track.
func getLeaderboard(ctx context.Context, config *Config, track tier.Track) ([]Standing, error) {
	client := newHTTPClient(config.Timeout)
	u := fmt.Sprintf("%s/leaderboard/%s?limit=%d", config.BaseURL, track, config.TopN)
	var board []Standing
	if err := client.getJSON(ctx, u, &board); err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", track, err)
	}
	return board, nil
}

// getStanding retrieves one student's standing on track.
func getStanding(ctx context.Context, config *Config, track tier.Track, studentID string) (Standing, error) {
	client := newHTTPClient(config.Timeout)
	u := fmt.Sprintf("%s/rank/%s/%s", config.BaseURL, track, url.PathEscape(studentID))
	var s Standing
	if err := client.getJSON(ctx, u, &s); err != nil {
		return Standing{}, fmt.Errorf("rank %s/%s: %w", track, studentID, err)
	}
	return s, nil
}
