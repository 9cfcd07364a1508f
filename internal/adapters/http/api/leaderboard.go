package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/classrank/internal/adapters/export"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, track tier.Track, n int) ([]types.Standing, error)
	ExportLeaderboard(ctx context.Context, w io.Writer, track tier.Track, n int) error
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// limit reads ?limit, defaulting to the maximum when absent.
func (h *LeaderboardHandler) limit(op string, r *http.Request) (int, error) {
	if r.URL.Query().Get("limit") == "" {
		return h.maxLimit, nil
	}
	n, err := queryInt(op, r, "limit")
	if err != nil {
		return 0, err
	}
	if n < 1 || n > h.maxLimit {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("limit must be between 1 and %d", h.maxLimit))
	}
	return n, nil
}

// HandleGetLeaderboard handles GET /leaderboard/{track}?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.limit(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	standings, err := h.deps.Leaderboard(r.Context(), track, n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleExport handles GET /leaderboard/{track}/export?limit=N requests.
func (h *LeaderboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_leaderboard"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.limit(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Buffer so a failed export still gets a JSON error.
	var buf bytes.Buffer
	if err := h.deps.ExportLeaderboard(r.Context(), &buf, track, n); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(track)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
