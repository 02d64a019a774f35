// Package cli holds the weather-timelapse commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:          "weather-timelapse",
		Short:        "Animate hourly weather station overlays on a globe",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewNextHourCommand())

	return cmd
}
