package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mahakarkout/AttentionTest/internal/experiment"
	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/report"
	"github.com/mahakarkout/AttentionTest/internal/services"
	"github.com/mahakarkout/AttentionTest/internal/terminal"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		flags   sessionFlags
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one session against a simulated subject in virtual time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			cfg := a.cfg.Current()

			screen := terminal.NewScreen(cmd.OutOrStdout(), false)
			var echo experiment.Display
			if verbose {
				echo = screen
			}

			rec, err := services.Simulate(a.log, cfg, time.Now(), echo)
			if err != nil {
				return err
			}
			screen.ShowSummary(rec.Summary)
			screen.ShowProfile(metrics.Describe(rec.Trials))

			written, err := report.NewExporter(a.log, cfg.Output.TranscriptFile, cfg.Output.ReportFile).Export(rec)
			for _, path := range written {
				screen.ShowMessage("Saved " + path)
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every cue and signal")
	return cmd
}
