// Package cmd holds the command line of the attention switching test.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/config"
	logger "github.com/mahakarkout/AttentionTest/internal/logging"
)

// app is what every subcommand gets once the root command has loaded the
// configuration and built the logger.
type app struct {
	cfg *config.Manager
	log *zap.Logger
}

func New() *cobra.Command {
	a := &app{}
	var (
		configDir string
		logLevel  string
		logDir    string
	)

	cmd := &cobra.Command{
		Use:           "attswitch",
		Short:         "Go/No-Go attention switching test",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.Init(configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				if err := m.Override("logging.console_level", logLevel); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("log-dir") {
				if err := m.Override("logging.directory", logDir); err != nil {
					return err
				}
			}

			log, err := logger.Init(m.Current().Logging)
			if err != nil {
				return err
			}
			log.Debug("Configuration loaded", zap.String("file", m.ConfigFile()))

			a.cfg = m
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "Directory holding config.yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Console log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for rotated log files; empty disables them")

	cmd.AddCommand(
		newRunCmd(a),
		newSimulateCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// sessionFlags are the overrides shared by run and simulate.
type sessionFlags struct {
	trials     int
	seed       uint64
	transcript string
	report     string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.trials, "trials", "n", 0, "Number of trials per session")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for cue and delay sampling (0 is time based)")
	cmd.Flags().StringVar(&f.transcript, "transcript", "", "Write a YAML transcript of each session to this file")
	cmd.Flags().StringVar(&f.report, "report", "", "Write an HTML latency chart of each session to this file")
}

// apply pushes the flags that were set on the command line into the
// configuration, where they take precedence over file and environment.
func (f *sessionFlags) apply(cmd *cobra.Command, m *config.Manager) error {
	overrides := []struct {
		flag  string
		key   string
		value any
	}{
		{"trials", "session.total_trials", f.trials},
		{"seed", "seed", f.seed},
		{"transcript", "output.transcript_file", f.transcript},
		{"report", "output.report_file", f.report},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if err := m.Override(o.key, o.value); err != nil {
			return err
		}
	}
	return nil
}
