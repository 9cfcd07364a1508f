// Package loadgen drives a running classrank service with generated
// progress events and checks the standings it serves.
package loadgen

import (
	"time"

	"github.com/okian/classrank/internal/domain/types"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEvents  int           // Number of events to generate
	Students   int           // Number of distinct students the events spread over
	TopN       int           // Number of top entries to fetch per track
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // How long to wait for the service to drain its queue
	OutputFile string        // Optional JSON dump of the generated events
	Verbose    bool          // Log every failed request
}

// Event is the wire shape of POST /events.
type Event struct {
	EventID   string `json:"event_id"`
	StudentID string `json:"student_id"`
	Kind      string `json:"kind"`
	Points    int    `json:"points,omitempty"`
	TS        string `json:"ts"`
}

// Standing is the wire shape of a leaderboard or rank entry.
type Standing = types.Standing

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	StandingsChecked int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
