package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func addCategories(topLevel *cobra.Command, c *CLI) {
	list := func(cmd *cobra.Command) error {
		p := c.printer(cmd)
		names := c.ctl.Categories()
		if p.json {
			return p.writeJSON(map[string]any{"categories": names})
		}
		if len(names) == 0 {
			return p.message(nil, "No categories.")
		}
		return p.message(nil, "%s", strings.Join(names, "\n"))
	}

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			return list(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if err := c.ctl.AddCategory(cmd.Context(), strings.Join(args, " ")); err != nil {
				return c.fail(cmd, err)
			}
			return list(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category and move its items.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if err := c.ctl.RenameCategory(cmd.Context(), args[0], args[1]); err != nil {
				return c.fail(cmd, err)
			}
			return list(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a category. Its items become uncategorized.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if err := c.ctl.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return c.fail(cmd, err)
			}
			return list(cmd)
		},
	})

	topLevel.AddCommand(cmd)
}
