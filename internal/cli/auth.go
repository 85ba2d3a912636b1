package cli

import (
	"github.com/spf13/cobra"
)

func addAuth(topLevel *cobra.Command, c *CLI) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.readPassword(cmd, "Password: ")
			if err != nil {
				return c.fail(cmd, err)
			}
			user, err := c.ctl.SignUp(cmd.Context(), args[0], password)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.printer(cmd).message(map[string]any{"user": user},
				"Account %s created. Run `larderctl login %s` to sign in.", user.Username, user.Username)
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and remember the session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.readPassword(cmd, "Password: ")
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.ctl.SignIn(cmd.Context(), args[0], password); err != nil {
				return c.fail(cmd, err)
			}
			s := c.ctl.Snapshot()
			return c.printer(cmd).message(map[string]any{"user": s.User},
				"Signed in as %s (%d items).", s.User.Username, len(s.Items))
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.ctl.SignOut(cmd.Context())
			return c.printer(cmd).message(map[string]bool{"ok": true}, "Signed out.")
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := c.ctl.Snapshot().User
			if user == nil {
				return c.printer(cmd).message(map[string]any{"user": nil}, "Not signed in.")
			}
			return c.printer(cmd).message(map[string]any{"user": user}, "%s", user.Username)
		},
	})
}
