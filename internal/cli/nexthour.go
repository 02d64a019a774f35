package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-timelapse/internal/datehour"
	"github.com/i474232898/weather-timelapse/internal/timelapse"
)

// NewNextHourCommand prints the date-hours following its argument.
func NewNextHourCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next-hour <YYYY-MM-DD HH>",
		Short: "Print the date-hour one hour later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := args[0]
			if !datehour.IsValid(s) {
				return errors.New(timelapse.InvalidDateMessage)
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			for i := 0; i < count; i++ {
				s = datehour.Increment(s)
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of hours to print")

	return cmd
}
