package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("student not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrClosed       = errors.New("store closed")
)
