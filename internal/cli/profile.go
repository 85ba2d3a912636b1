package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/larder/internal/preference"
)

func addProfile(topLevel *cobra.Command, c *CLI) {
	names := make([]string, 0, len(preference.Themes))
	for _, t := range preference.Themes {
		names = append(names, string(t))
	}

	topLevel.AddCommand(&cobra.Command{
		Use:       "theme [" + strings.Join(names, "|") + "]",
		Short:     "Show or set the color theme.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				t := c.ctl.Snapshot().Theme
				return c.printer(cmd).message(map[string]any{"theme": t, "themes": names},
					"%s (available: %s)", t, strings.Join(names, ", "))
			}
			if !contains(names, args[0]) {
				return c.fail(cmd, fmt.Errorf("unknown theme %q: want one of %s", args[0], strings.Join(names, ", ")))
			}
			t := c.ctl.SetTheme(cmd.Context(), args[0])
			return c.printer(cmd).message(map[string]any{"theme": t}, "Theme set to %s.", t)
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:       "reminder [on|off]",
		Short:     "Show or set the expiry reminder.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			on := c.ctl.Snapshot().Settings.ExpireReminder
			if len(args) == 1 {
				want, err := parseOnOff(args[0])
				if err != nil {
					return c.fail(cmd, err)
				}
				if want != on {
					if on, err = c.ctl.ToggleReminder(cmd.Context()); err != nil {
						return c.fail(cmd, err)
					}
				}
			}
			return c.printer(cmd).message(map[string]bool{"expire_reminder": on}, "Expiry reminder is %s.", onOff(on))
		},
	})
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
