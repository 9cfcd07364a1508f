package cli

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/tier"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
)

func tierStyle(d tier.Definition) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.Style().Color.Hex()))
}

func gradeStyle(g question.Grade) lipgloss.Style {
	switch g {
	case question.GradeExcellent:
		return passStyle.Bold(true)
	case question.GradeGood:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	default:
		return failStyle.Bold(true)
	}
}

// cell pads s to width columns before styling so colors do not skew alignment.
func cell(st lipgloss.Style, s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return st.Render(s)
}
