package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/larder/internal/app"
	"github.com/dukerupert/larder/internal/gateway"
)

func addWatch(topLevel *cobra.Command, c *CLI) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print changes made from any device until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.ctl.Snapshot().User == nil {
				return c.fail(cmd, fmt.Errorf("%w; run `larderctl login`", app.ErrNotSignedIn))
			}
			p := c.printer(cmd)
			err := c.gw.Watch(cmd.Context(), func(ev gateway.Event) {
				if p.json {
					_ = p.writeJSON(ev)
					return
				}
				at := c.now().Format("15:04:05")
				if ev.ID != "" {
					_, _ = fmt.Fprintf(p.w, "%s  %s  %s\n", at, p.pal.accent.Sprint(ev.Type), shortID(ev.ID))
					return
				}
				_, _ = fmt.Fprintf(p.w, "%s  %s\n", at, p.pal.accent.Sprint(ev.Type))
			})
			return c.fail(cmd, err)
		},
	})
}
