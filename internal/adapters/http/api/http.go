// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxLimit caps ?limit when the server is built without one.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	LeaderboardDependencies
	RankDependencies
	TierDependencies
	QuestionDependencies
	TrackDependencies
	StatsProvider
	HealthChecker
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	tiersHandler       *TiersHandler
	questionsHandler   *QuestionsHandler
	tracksHandler      *TracksHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// leaderboard page size.
func NewServer(deps Dependencies, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		tiersHandler:       NewTiersHandler(deps),
		questionsHandler:   NewQuestionsHandler(deps),
		tracksHandler:      NewTracksHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("GET /leaderboard/{track}", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /leaderboard/{track}/export", MetricsMiddleware(s.leaderboardHandler.HandleExport, "leaderboard_export"))
	mux.HandleFunc("GET /rank/{track}/{student_id}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /tiers/{track}", MetricsMiddleware(s.tiersHandler.HandleGetTiers, "tiers"))
	mux.HandleFunc("GET /tiers/{track}/resolve", MetricsMiddleware(s.tiersHandler.HandleResolve, "tiers_resolve"))
	mux.HandleFunc("POST /questions/review", MetricsMiddleware(s.questionsHandler.HandleReview, "questions_review"))
	mux.HandleFunc("DELETE /tracks/{track}", MetricsMiddleware(s.tracksHandler.HandleReset, "tracks_reset"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathTrack reads the {track} path value.
func pathTrack(op string, r *http.Request) (tier.Track, error) {
	t, err := tier.ParseTrack(r.PathValue("track"))
	if err != nil {
		return "", Wrap(op, err)
	}
	return t, nil
}

// queryInt reads a required integer query parameter.
func queryInt(op string, r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("missing %s", name))
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, err)
	}
	return n, nil
}
