package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/classrank/internal/domain/dedupe"
	"github.com/okian/classrank/internal/domain/model"
	"github.com/okian/classrank/pkg/metrics"
)

// EventDependencies defines the interface for event processing dependencies.
type EventDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, ev model.ProgressEvent) bool
}

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	EventID   string `json:"event_id"`
	StudentID string `json:"student_id"`
	Kind      string `json:"kind"`
	Points    int    `json:"points"`
	TS        string `json:"ts"`
}

func (e eventRequest) toModel() (model.ProgressEvent, error) {
	kind, err := model.ParseKind(e.Kind)
	if err != nil {
		return model.ProgressEvent{}, err
	}
	ts, err := time.Parse(time.RFC3339, e.TS)
	if err != nil {
		return model.ProgressEvent{}, fmt.Errorf("invalid ts; must be RFC3339: %w", err)
	}
	return model.ProgressEvent{
		EventID:   e.EventID,
		StudentID: e.StudentID,
		Kind:      kind,
		Points:    e.Points,
		TS:        ts,
	}, nil
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var req eventRequest
	if err := decodeBody(op, "event", r, w, &req); err != nil {
		metrics.RecordEventRejected("invalid")
		writeError(w, err)
		return
	}
	ev, err := req.toModel()
	if err != nil {
		metrics.RecordEventRejected("invalid")
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), ev.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), ev); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), ev.EventID)
		metrics.RecordEventRejected("backpressure")
		writeError(w, NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
