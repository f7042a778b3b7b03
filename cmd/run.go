package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/config"
	"github.com/mahakarkout/AttentionTest/internal/services"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		flags   sessionFlags
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test interactively in this terminal",
		Long: `Run the test interactively. Press Enter as fast as you can when the
white signal follows a green cue, and hold back after a red one. Type q and
Enter to end a session early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}

			a.cfg.Watch(a.log, func(cfg config.Config) {
				a.log.Info("New settings apply from the next session",
					zap.Int("total_trials", cfg.Session.TotalTrials),
					zap.Duration("reaction_deadline", cfg.Session.ReactionDeadline),
				)
			})

			runner := services.NewRunner(a.log, a.cfg, cmd.InOrStdin(), cmd.OutOrStdout(), !noColor && os.Getenv("NO_COLOR") == "")
			return runner.Run(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}
