package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/larder/internal/app"
	"github.com/dukerupert/larder/internal/filter"
	"github.com/dukerupert/larder/internal/model"
)

// findItem resolves an exact ID or a unique ID prefix.
func findItem(items []model.FoodItem, ref string) (model.FoodItem, error) {
	var matches []model.FoodItem
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return model.FoodItem{}, fmt.Errorf("no item matches %q", ref)
	case 1:
		return matches[0], nil
	}
	return model.FoodItem{}, fmt.Errorf("%q matches %d items", ref, len(matches))
}

type itemFlags struct {
	name     string
	category string
	quantity string
	inDate   string
	expires  string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Category name.")
	cmd.Flags().StringVarP(&f.quantity, "quantity", "q", "", "Quantity, free text.")
	cmd.Flags().StringVar(&f.inDate, "in", "", "Date stocked, YYYY-MM-DD (default today).")
	cmd.Flags().StringVar(&f.expires, "expires", "", "Expiry date, YYYY-MM-DD.")
}

func addItems(topLevel *cobra.Command, c *CLI) {
	var category, status string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List items, newest first.",
		Example: `
larderctl list
larderctl list --status soon
larderctl list --category Dairy
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := filter.ParseStatus(status)
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if category != "" && category != filter.All {
				if !contains(c.ctl.Categories(), category) {
					return c.fail(cmd, fmt.Errorf("unknown category %q", category))
				}
				c.ctl.SelectCategory(category)
			}
			c.ctl.SelectStatus(st)
			return c.printer(cmd).items(c.ctl.Visible())
		},
	}
	list.Flags().StringVar(&category, "category", "", "Only show this category.")
	list.Flags().StringVar(&status, "status", "", "Only show fresh, soon or expired items.")
	topLevel.AddCommand(list)

	af := &itemFlags{}
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item.",
		Example: `
larderctl add Milk --category Dairy --expires 2026-05-10
larderctl add "Greek yogurt" -q 2 --in 2026-05-01 --expires 2026-05-20
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			in := af.inDate
			if in == "" {
				in = c.now().Format(model.DateLayout)
			}
			draft := app.ItemDraft{
				Name:       strings.Join(args, " "),
				Category:   af.category,
				Quantity:   af.quantity,
				InDate:     in,
				ExpireDate: af.expires,
			}
			if err := c.ctl.SaveItem(cmd.Context(), draft); err != nil {
				return c.fail(cmd, err)
			}
			return c.printer(cmd).message(map[string]bool{"ok": true}, "Added %s.", strings.TrimSpace(draft.Name))
		},
	}
	af.register(add)
	topLevel.AddCommand(add)

	ef := &itemFlags{}
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an item. Only the given flags are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			it, err := findItem(c.ctl.Snapshot().Items, args[0])
			if err != nil {
				return c.fail(cmd, err)
			}
			draft := app.ItemDraft{
				ID:         it.ID,
				Name:       it.Name,
				Category:   it.Category,
				Quantity:   it.Quantity,
				InDate:     it.InDate,
				ExpireDate: it.ExpireDate,
			}
			set := func(flag string, dst *string, v string) {
				if cmd.Flags().Changed(flag) {
					*dst = v
				}
			}
			set("name", &draft.Name, ef.name)
			set("category", &draft.Category, ef.category)
			set("quantity", &draft.Quantity, ef.quantity)
			set("in", &draft.InDate, ef.inDate)
			set("expires", &draft.ExpireDate, ef.expires)

			if err := c.ctl.SaveItem(cmd.Context(), draft); err != nil {
				return c.fail(cmd, err)
			}
			return c.printer(cmd).message(map[string]bool{"ok": true}, "Updated %s.", strings.TrimSpace(draft.Name))
		},
	}
	edit.Flags().StringVar(&ef.name, "name", "", "New name.")
	ef.register(edit)
	topLevel.AddCommand(edit)

	topLevel.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			it, err := findItem(c.ctl.Snapshot().Items, args[0])
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.ctl.DeleteItem(cmd.Context(), it.ID); err != nil {
				return c.fail(cmd, err)
			}
			return c.printer(cmd).message(map[string]bool{"ok": true}, "Deleted %s.", it.Name)
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:   "clear-expired",
		Short: "Delete every expired item.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.signedIn(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			n, err := c.ctl.ClearExpired(cmd.Context())
			if err != nil {
				return c.fail(cmd, fmt.Errorf("deleted %d before failing: %w", n, err))
			}
			if n == 0 {
				return c.printer(cmd).message(map[string]int{"deleted": 0}, "No expired items.")
			}
			return c.printer(cmd).message(map[string]int{"deleted": n}, "Deleted %d expired items.", n)
		},
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
