package loadgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/okian/classrank/pkg/logger"
)

// Event kinds on the wire.
const (
	kindQuizCompleted = "quiz_completed"
	kindDuelWon       = "duel_won"
	kindDuelLost      = "duel_lost"
)

// generateEvents creates config.NumEvents events spread over config.Students
// students.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating events",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("students", config.Students))

	students := make([]string, config.Students)
	for i := range students {
		students[i] = fmt.Sprintf("student-%s", uuid.NewString()[:8])
	}

	events := make([]Event, config.NumEvents)
	ts := time.Now().UTC().Format(time.RFC3339)
	for i := range events {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during event generation: %w", ctx.Err())
		}
		events[i] = generateSingleEvent(students[rand.IntN(len(students))], ts)
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))
	return events, nil
}

// generateSingleEvent creates one event for studentID.
func generateSingleEvent(studentID, ts string) Event {
	ev := Event{EventID: uuid.NewString(), StudentID: studentID, TS: ts}
	switch roll := rand.IntN(PercentageMultiplier); {
	case roll < quizShare:
		ev.Kind = kindQuizCompleted
		ev.Points = minQuizPoints + rand.IntN(maxQuizPoints-minQuizPoints+1)
	case roll < quizShare+duelWonShare:
		ev.Kind = kindDuelWon
	default:
		ev.Kind = kindDuelLost
	}
	return ev
}
