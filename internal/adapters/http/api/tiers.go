package api

import (
	"net/http"

	"github.com/okian/classrank/internal/domain/tier"
)

// TierDependencies resolves scores against track tables.
type TierDependencies interface {
	Resolve(track tier.Track, score int) tier.Result
	Tiers(track tier.Track) tier.Table
}

// tierView is a definition with its display style.
type tierView struct {
	tier.Definition
	Style tier.Style `json:"style"`
}

type tiersResponse struct {
	Track tier.Track `json:"track"`
	// Source is the track whose score this table reads.
	Source tier.Track `json:"source"`
	Tiers  []tierView `json:"tiers"`
}

type resolveResponse struct {
	Track tier.Track `json:"track"`
	Score int        `json:"score"`
	tier.Result
	Style tier.Style `json:"style"`
}

// TiersHandler serves tier tables and ad-hoc resolution.
type TiersHandler struct {
	deps TierDependencies
}

// NewTiersHandler creates a new tiers handler.
func NewTiersHandler(deps TierDependencies) *TiersHandler {
	return &TiersHandler{deps: deps}
}

// HandleGetTiers handles GET /tiers/{track}.
func (h *TiersHandler) HandleGetTiers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tiers"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defs := h.deps.Tiers(track).Tiers()
	views := make([]tierView, len(defs))
	for i, d := range defs {
		views[i] = tierView{Definition: d, Style: d.Style()}
	}
	writeJSON(w, http.StatusOK, tiersResponse{Track: track, Source: track.Source(), Tiers: views})
}

// HandleResolve handles GET /tiers/{track}/resolve?score=N.
func (h *TiersHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve"
	track, err := pathTrack(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	score, err := queryInt(op, r, "score")
	if err != nil {
		writeError(w, err)
		return
	}
	res := h.deps.Resolve(track, score)
	writeJSON(w, http.StatusOK, resolveResponse{Track: track, Score: score, Result: res, Style: res.Current.Style()})
}
