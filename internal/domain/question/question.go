// Package question holds the advisory heuristics used by the question editor:
// a weighted quality score and word-overlap duplicate detection. Both are
// deterministic and never block a submission.
package question

import (
	"strings"
)

// Grade buckets a quality score.
type Grade string

const (
	GradeExcellent        Grade = "excellent"
	GradeGood             Grade = "good"
	GradeNeedsImprovement Grade = "needs_improvement"
)

const (
	excellentFrom = 80
	goodFrom      = 60

	minTextLen = 10
	minChoices = 2
)

// Check names.
const (
	CheckText          = "text"
	CheckChoices       = "choices"
	CheckUniqueChoices = "unique_choices"
	CheckCorrectAnswer = "correct_answer"
	CheckTaxonomy      = "taxonomy"
	CheckPunctuation   = "punctuation"
)

// NoAnswer marks a draft without a selected correct choice.
const NoAnswer = -1

// Draft is a question as typed into the editor.
type Draft struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	// CorrectIndex points into Choices, or NoAnswer.
	CorrectIndex int `json:"correct_index"`
	// Taxonomy is the cognitive level (e.g. "remember", "apply").
	Taxonomy string `json:"taxonomy"`
}

// Check is one weighted rule of the quality score.
type Check struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Passed bool   `json:"passed"`
}

// Assessment is the result of Quality.
type Assessment struct {
	Score  int     `json:"score"`
	Grade  Grade   `json:"grade"`
	Checks []Check `json:"checks"`
}

type rule struct {
	name   string
	weight int
	pass   func(Draft) bool
}

// Weights sum to 100.
var rules = []rule{
	{CheckText, 20, hasText},
	{CheckChoices, 20, hasChoices},
	{CheckUniqueChoices, 15, hasUniqueChoices},
	{CheckCorrectAnswer, 20, hasCorrectAnswer},
	{CheckTaxonomy, 15, hasTaxonomy},
	{CheckPunctuation, 10, hasPunctuation},
}

// Quality scores d from 0 to 100 and grades it.
func Quality(d Draft) Assessment {
	a := Assessment{Checks: make([]Check, 0, len(rules))}
	for _, r := range rules {
		ok := r.pass(d)
		if ok {
			a.Score += r.weight
		}
		a.Checks = append(a.Checks, Check{Name: r.name, Weight: r.weight, Passed: ok})
	}
	a.Grade = GradeFor(a.Score)
	return a
}

// GradeFor maps a score onto a Grade.
func GradeFor(score int) Grade {
	switch {
	case score >= excellentFrom:
		return GradeExcellent
	case score >= goodFrom:
		return GradeGood
	default:
		return GradeNeedsImprovement
	}
}

func hasText(d Draft) bool {
	return len([]rune(strings.TrimSpace(d.Text))) >= minTextLen
}

func nonEmpty(choices []string) []string {
	out := make([]string, 0, len(choices))
	for _, c := range choices {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func hasChoices(d Draft) bool {
	return len(nonEmpty(d.Choices)) >= minChoices
}

func hasUniqueChoices(d Draft) bool {
	choices := nonEmpty(d.Choices)
	if len(choices) < minChoices {
		return false
	}
	seen := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		k := fold(c)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

func hasCorrectAnswer(d Draft) bool {
	if d.CorrectIndex < 0 || d.CorrectIndex >= len(d.Choices) {
		return false
	}
	return strings.TrimSpace(d.Choices[d.CorrectIndex]) != ""
}

func hasTaxonomy(d Draft) bool {
	return strings.TrimSpace(d.Taxonomy) != ""
}

func hasPunctuation(d Draft) bool {
	t := strings.TrimSpace(d.Text)
	return strings.HasSuffix(t, "?") || strings.HasSuffix(t, ".")
}
