package service

import (
	"errors"

	"github.com/okian/classrank/internal/domain/tier"
)

// Service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrUnknownStore = errors.New("unknown store backend")
	// ErrReadOnlyTrack is tier.ErrReadOnlyTrack, so callers can match either.
	ErrReadOnlyTrack = tier.ErrReadOnlyTrack
)
