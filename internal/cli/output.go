package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/preference"
	"github.com/dukerupert/larder/internal/stats"
)

type OutputOptions struct {
	JSON    bool
	NoColor bool
}

// HandleError reports err as {"error": ...} in JSON mode. The error is still
// returned so the process exits non-zero.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if o.JSON && err != nil {
		b, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(w, string(b))
	}
	return err
}

type palette struct {
	accent  *color.Color
	fresh   *color.Color
	soon    *color.Color
	expired *color.Color
}

var palettes = map[preference.Theme]palette{
	preference.ThemeBlue: {
		accent:  color.New(color.FgBlue, color.Bold),
		fresh:   color.New(color.FgGreen),
		soon:    color.New(color.FgYellow),
		expired: color.New(color.FgRed),
	},
	preference.ThemeWarm: {
		accent:  color.New(color.FgYellow, color.Bold),
		fresh:   color.New(color.FgHiGreen),
		soon:    color.New(color.FgHiYellow),
		expired: color.New(color.FgHiRed),
	},
	preference.ThemeNoir: {
		accent:  color.New(color.Bold),
		fresh:   color.New(color.FgWhite),
		soon:    color.New(color.Underline),
		expired: color.New(color.FgHiBlack),
	},
}

type printer struct {
	w    io.Writer
	json bool
	pal  palette
	now  time.Time
}

func newPrinter(w io.Writer, oo *OutputOptions, theme preference.Theme, now time.Time) *printer {
	pal, ok := palettes[theme]
	if !ok {
		pal = palettes[preference.DefaultTheme]
	}
	return &printer{w: w, json: oo.JSON, pal: pal, now: now}
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// message prints a one-line confirmation, or v in JSON mode.
func (p *printer) message(v any, format string, args ...any) error {
	if p.json {
		return p.writeJSON(v)
	}
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

func (p *printer) statusColor(s freshness.Status) *color.Color {
	switch s {
	case freshness.StatusExpired:
		return p.pal.expired
	case freshness.StatusSoon:
		return p.pal.soon
	}
	return p.pal.fresh
}

type itemView struct {
	model.FoodItem
	Status   freshness.Status `json:"status"`
	DaysLeft *int             `json:"days_left"`
}

func (p *printer) view(it model.FoodItem) itemView {
	v := itemView{FoodItem: it, Status: freshness.ClassifyItem(it, p.now)}
	if days, err := freshness.DaysRemaining(it.ExpireDate, p.now); err == nil {
		v.DaysLeft = &days
	}
	return v
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func daysText(days *int) string {
	switch {
	case days == nil:
		return "?"
	case *days < 0:
		return fmt.Sprintf("%dd ago", -*days)
	case *days == 0:
		return "today"
	}
	return fmt.Sprintf("%dd", *days)
}

func (p *printer) items(items []model.FoodItem) error {
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, p.view(it))
	}
	if p.json {
		return p.writeJSON(map[string]any{"items": views})
	}
	if len(views) == 0 {
		_, err := fmt.Fprintln(p.w, "No items.")
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Category"), bold.Sprint("Qty"),
		bold.Sprint("In"), bold.Sprint("Expires"), bold.Sprint("Status"))
	for _, v := range views {
		status := p.statusColor(v.Status).Sprintf("%s (%s)", v.Status.Label(), daysText(v.DaysLeft))
		tbl.AddRow(shortID(v.ID), v.Name, v.Category, v.Quantity, v.InDate, v.ExpireDate, status)
	}
	_, err := fmt.Fprintln(p.w, tbl)
	return err
}

const histogramWidth = 20

func (p *printer) stats(s stats.Snapshot, title string) error {
	if p.json {
		return p.writeJSON(s)
	}

	_, _ = fmt.Fprintln(p.w, p.pal.accent.Sprint(title))
	if s.Empty {
		_, err := fmt.Fprintln(p.w, "No items yet.")
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Total", s.Total)
	tbl.AddRow(p.pal.fresh.Sprint("Fresh"), s.Fresh)
	tbl.AddRow(p.pal.soon.Sprint("Expiring soon"), s.Soon)
	tbl.AddRow(p.pal.expired.Sprint("Expired"), s.Expired)
	tbl.AddRow("Avg days left", s.AvgDays)
	tbl.AddRow("Top category", s.TopCategory)
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(p.w, tbl)

	top := 0
	for _, c := range s.Categories {
		if c.Count > top {
			top = c.Count
		}
	}
	hist := uitable.New()
	hist.Separator = "  "
	for _, c := range s.Categories {
		n := c.Count * histogramWidth / top
		if n == 0 {
			n = 1
		}
		hist.AddRow(c.Category, p.pal.accent.Sprint(strings.Repeat("█", n)), c.Count)
	}
	_, _ = fmt.Fprintln(p.w)
	_, err := fmt.Fprintln(p.w, hist)
	return err
}
