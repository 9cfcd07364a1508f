package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/spf13/cobra"
)

type reviewFlags struct {
	text      string
	choices   []string
	correct   int
	level     string
	bank      string
	threshold float64
	asJSON    bool
}

func newReviewCmd() *cobra.Command {
	var f reviewFlags
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Score a question draft and look for near duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := readBank(f.bank)
			if err != nil {
				return err
			}
			d := question.Draft{Text: f.text, Choices: f.choices, CorrectIndex: f.correct, Taxonomy: f.level}
			review := types.ReviewDraft(d, bank, f.threshold)

			if f.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(review)
			}
			printReview(cmd.OutOrStdout(), review)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.text, "text", "", "Question text")
	cmd.Flags().StringArrayVar(&f.choices, "choice", nil, "Answer choice (repeatable)")
	cmd.Flags().IntVar(&f.correct, "correct", question.NoAnswer, "Index of the correct choice")
	cmd.Flags().StringVar(&f.level, "level", "", "Cognitive level, e.g. remember or apply")
	cmd.Flags().StringVar(&f.bank, "bank", "", "File with existing questions, one per line")
	cmd.Flags().Float64Var(&f.threshold, "threshold", question.DefaultThreshold, "Similarity ratio above which a question is flagged")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the review as JSON")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

// readBank loads non-empty lines from path. An empty path is an empty bank.
func readBank(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer fh.Close()

	var bank []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			bank = append(bank, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return bank, nil
}

func printReview(w io.Writer, r types.Review) {
	fmt.Fprintf(w, "%s %s (%d/100)\n", dimStyle.Render("Quality:"), gradeStyle(r.Grade).Render(string(r.Grade)), r.Score)
	for _, c := range r.Checks {
		mark := failStyle.Render("✗")
		if c.Passed {
			mark = passStyle.Render("✓")
		}
		fmt.Fprintf(w, "  %s %-15s %3d\n", mark, c.Name, c.Weight)
	}

	if len(r.Similar) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No similar questions."))
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Similar questions:"))
	for _, m := range r.Similar {
		fmt.Fprintf(w, "  #%d %3.0f%%  %s\n", m.Index, m.Ratio*100, m.Text)
	}
}
