package tier

import "errors"

// Sentinel kinds for tier errors.
var (
	ErrInvalidTable = errors.New("invalid tier table")
	ErrUnknownTrack = errors.New("unknown track")
	// ErrReadOnlyTrack rejects writes to a track that only reads another
	// track's scores.
	ErrReadOnlyTrack = errors.New("track is read-only")
)
