package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if file := a.cfg.ConfigFile(); file != "" {
				fmt.Fprintf(out, "# loaded from %s\n", file)
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg.Current()); err != nil {
				return errors.Wrap(err, "encode configuration")
			}
			return enc.Close()
		},
	}
}
