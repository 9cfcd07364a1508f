package cli

import (
	"fmt"
	"strconv"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var track string
	cmd := &cobra.Command{
		Use:   "resolve <score>",
		Short: "Resolve a score to its tier on a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[0], err)
			}
			t, err := tier.ParseTrack(track)
			if err != nil {
				return err
			}

			r := t.Resolve(score)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", dimStyle.Render("Tier:"), tierStyle(r.Current).Render(r.Current.Name))
			fmt.Fprintf(out, "%s %s\n", dimStyle.Render("     "), r.Current.Description)
			if r.IsTop() {
				fmt.Fprintf(out, "%s top tier reached\n", dimStyle.Render("Next:"))
				return nil
			}
			fmt.Fprintf(out, "%s %s in %d (%d%%)\n",
				dimStyle.Render("Next:"), tierStyle(*r.Next).Render(r.Next.Name), r.AmountToNext, r.ProgressPercent)
			return nil
		},
	}
	cmd.Flags().StringVarP(&track, "track", "t", string(tier.TrackWeekly), "Track: weekly, pvp or dashboard")
	return cmd
}
