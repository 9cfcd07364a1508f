package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/spf13/cobra"
)

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers [track]",
		Short: "Print the tier table of a track, or of every track",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks := tier.Tracks()
			if len(args) == 1 {
				t, err := tier.ParseTrack(args[0])
				if err != nil {
					return err
				}
				tracks = []tier.Track{t}
			}
			for i, t := range tracks {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printTable(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func scoreRange(d tier.Definition) string {
	if d.IsTop() {
		return strconv.Itoa(d.MinScore) + "+"
	}
	return fmt.Sprintf("%d-%d", d.MinScore, d.MaxScore)
}

func printTable(w io.Writer, t tier.Track) {
	table := t.Table()
	title := string(t)
	if src := t.Source(); src != t {
		title += " (reads " + string(src) + " scores)"
	}
	fmt.Fprintln(w, headingStyle.Render(title))

	rangeW, nameW := len("Range"), len("Tier")
	for _, d := range table.Tiers() {
		rangeW = max(rangeW, len(scoreRange(d)))
		nameW = max(nameW, len(d.Name))
	}

	fmt.Fprintf(w, "%s  %s  %s\n",
		cell(dimStyle, "Range", rangeW), cell(dimStyle, "Tier", nameW), dimStyle.Render("Icon"))
	for _, d := range table.Tiers() {
		fmt.Fprintf(w, "%s  %s  %s\n",
			cell(dimStyle, scoreRange(d), rangeW), cell(tierStyle(d), d.Name, nameW), d.Style().Icon)
	}
}
