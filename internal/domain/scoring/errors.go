package scoring

import "errors"

var (
	// ErrUnknownKind is returned for events whose kind has no scoring rule.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrInvalidPoints is returned for quiz points outside [0, MaxQuizPoints].
	ErrInvalidPoints = errors.New("invalid quiz points")
)
