package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Standing(ctx context.Context, track tier.Track, studentID string) (types.Standing, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{track}/{student_id} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := strings.TrimSpace(r.PathValue("student_id"))
	if id == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	standing, err := h.deps.Standing(r.Context(), track, id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
