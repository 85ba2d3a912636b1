package filter

import (
	"fmt"
	"time"

	"github.com/dukerupert/larder/internal/catalog"
	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/model"
)

// All is the category key that disables category filtering.
const (
	All      = "__all__"
	AllLabel = "All"
)

type Status string

const (
	StatusNone    Status = "none"
	StatusFresh   Status = Status(freshness.StatusFresh)
	StatusSoon    Status = Status(freshness.StatusSoon)
	StatusExpired Status = Status(freshness.StatusExpired)
)

// ParseStatus accepts "none", "fresh", "soon" or "expired". An empty string
// is treated as "none".
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusNone:
		return StatusNone, nil
	case StatusFresh, StatusSoon, StatusExpired:
		return Status(s), nil
	}
	return StatusNone, fmt.Errorf("unknown status filter %q", s)
}

type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Chips returns the "all" chip followed by one chip per category, in the
// order given.
func Chips(categories []string) []Chip {
	chips := make([]Chip, 0, len(categories)+1)
	chips = append(chips, Chip{Key: All, Label: AllLabel})
	for _, c := range categories {
		chips = append(chips, Chip{Key: c, Label: c})
	}
	return chips
}

// Selection is the active category and status filter of the home list.
type Selection struct {
	Category string `json:"category"`
	Status   Status `json:"status"`
}

func DefaultSelection() Selection {
	return Selection{Category: All, Status: StatusNone}
}

// Visible applies the category filter, then the status filter. Input order is
// preserved. Category names are compared in normalized form.
func Visible(items []model.FoodItem, sel Selection, now time.Time) []model.FoodItem {
	want := ""
	if sel.Category != "" && sel.Category != All {
		want = catalog.Normalize(sel.Category)
	}

	out := make([]model.FoodItem, 0, len(items))
	for _, it := range items {
		if want != "" && catalog.Normalize(it.Category) != want {
			continue
		}
		if sel.Status != "" && sel.Status != StatusNone &&
			Status(freshness.ClassifyItem(it, now)) != sel.Status {
			continue
		}
		out = append(out, it)
	}
	return out
}
