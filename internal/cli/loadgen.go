package cli

import (
	"fmt"
	"time"

	"github.com/okian/classrank/internal/loadgen"
	"github.com/spf13/cobra"
)

func newLoadgenCmd() *cobra.Command {
	cfg := loadgen.Config{}
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Send generated events to a running service and verify its standings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := loadgen.Run(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d accepted, %d duplicate, %d failed, %d standings checked in %s\n",
				passStyle.Render("ok:"),
				stats.EventsSuccessful, stats.EventsDuplicate, stats.EventsFailed,
				stats.StandingsChecked, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVarP(&cfg.NumEvents, "events", "n", 1000, "Number of events to send")
	f.IntVar(&cfg.Students, "students", 50, "Number of distinct students")
	f.IntVar(&cfg.TopN, "top", 20, "Leaderboard entries to verify per track")
	f.IntVarP(&cfg.Workers, "workers", "w", 8, "Concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	f.DurationVar(&cfg.Settle, "settle", loadgen.DefaultSettle, "How long to wait for the queue to drain")
	f.StringVarP(&cfg.OutputFile, "output", "o", "", "Write the generated events to this JSON file")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every failed request")
	return cmd
}
