package loadgen

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultSettle        = 30 * time.Second
	settlePollInterval   = 100 * time.Millisecond
	PercentageMultiplier = 100
)

// Event mix, in percent of generated events.
const (
	quizShare    = 60
	duelWonShare = 25

	minQuizPoints = 5
	maxQuizPoints = 100
)
