package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addStats(topLevel *cobra.Command, c *CLI) {
	var rng string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show freshness statistics.",
		Long: `Show freshness statistics for every item, or with --range 7 or 30 for
items stocked within that many days as computed by the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseRange(rng)
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if days == 0 {
				return c.printer(cmd).stats(c.ctl.Stats(), "All items")
			}
			s, err := c.ctl.RemoteStats(cmd.Context(), days)
			if err != nil {
				return c.fail(cmd, err)
			}
			if s == nil {
				return c.fail(cmd, fmt.Errorf("no statistics returned"))
			}
			return c.printer(cmd).stats(*s, fmt.Sprintf("Stocked in the last %d days", days))
		},
	}
	cmd.Flags().StringVar(&rng, "range", "all", "all, 7 or 30.")
	topLevel.AddCommand(cmd)
}

func parseRange(s string) (int, error) {
	switch s {
	case "", "all":
		return 0, nil
	case "7":
		return 7, nil
	case "30":
		return 30, nil
	}
	return 0, fmt.Errorf("invalid range %q: want all, 7 or 30", s)
}
