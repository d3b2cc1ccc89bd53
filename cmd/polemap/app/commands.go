package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/polemap/cmd/polemap/cmd/batch"
	"github.com/agentstation/polemap/cmd/polemap/cmd/compare"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(compare.NewCommand(a))
	rootCmd.AddCommand(batch.NewCommand(a))
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			lines := []string{
				"polemap version " + a.version,
				"commit: " + a.commit,
				"built: " + a.date,
				"built by: " + a.builtBy,
				"go version: " + runtime.Version(),
				"platform: " + runtime.GOOS + "/" + runtime.GOARCH,
			}
			for _, l := range lines {
				if _, err := fmt.Fprintln(out, l); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
