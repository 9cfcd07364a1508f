package api

import (
	"context"
	"net/http"

	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/types"
)

// QuestionDependencies reviews question drafts.
type QuestionDependencies interface {
	ReviewQuestion(ctx context.Context, d question.Draft, bank []string) types.Review
}

// reviewRequest mirrors the OpenAPI schema for POST /questions/review.
type reviewRequest struct {
	Text     string   `json:"text"`
	Choices  []string `json:"choices"`
	Correct  *int     `json:"correct_index"`
	Taxonomy string   `json:"taxonomy"`
	// Bank holds existing questions to check for near-duplicates.
	Bank []string `json:"bank"`
}

func (q reviewRequest) draft() question.Draft {
	d := question.Draft{Text: q.Text, Choices: q.Choices, CorrectIndex: question.NoAnswer, Taxonomy: q.Taxonomy}
	if q.Correct != nil {
		d.CorrectIndex = *q.Correct
	}
	return d
}

// QuestionsHandler serves the question editor's advisory checks.
type QuestionsHandler struct {
	deps QuestionDependencies
}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler(deps QuestionDependencies) *QuestionsHandler {
	return &QuestionsHandler{deps: deps}
}

// HandleReview handles POST /questions/review.
func (h *QuestionsHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.review_question"
	var req reviewRequest
	if err := decodeBody(op, "review", r, w, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ReviewQuestion(r.Context(), req.draft(), req.Bank))
}
