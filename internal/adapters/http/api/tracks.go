package api

import (
	"context"
	"net/http"

	"github.com/okian/classrank/internal/domain/tier"
)

// TrackDependencies administers whole tracks.
type TrackDependencies interface {
	ResetTrack(ctx context.Context, track tier.Track) error
}

// TracksHandler handles track administration.
type TracksHandler struct {
	deps TrackDependencies
}

// NewTracksHandler creates a new tracks handler.
func NewTracksHandler(deps TrackDependencies) *TracksHandler {
	return &TracksHandler{deps: deps}
}

// HandleReset handles DELETE /tracks/{track}.
func (h *TracksHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_track"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !track.Writable() {
		writeError(w, NewKind(op, ErrReadOnlyTrack))
		return
	}
	if err := h.deps.ResetTrack(r.Context(), track); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
