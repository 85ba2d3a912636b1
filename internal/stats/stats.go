package stats

import (
	"math"
	"sort"
	"time"

	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/model"
)

// NoneLabel is the top category of an empty collection.
const NoneLabel = "none"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Snapshot struct {
	Total       int             `json:"total"`
	Fresh       int             `json:"fresh"`
	Soon        int             `json:"soon"`
	Expired     int             `json:"expired"`
	AvgDays     int             `json:"avg_days"`
	TopCategory string          `json:"top_category"`
	Categories  []CategoryCount `json:"categories"`
	Empty       bool            `json:"empty"`
}

// Compute aggregates items as of now. Expired items count as zero remaining
// days in the average. The histogram is ordered by count, highest first, with
// ties kept in the order the categories were first seen.
func Compute(items []model.FoodItem, now time.Time) Snapshot {
	s := Snapshot{
		Total:       len(items),
		TopCategory: NoneLabel,
		Categories:  []CategoryCount{},
		Empty:       len(items) == 0,
	}
	if s.Empty {
		return s
	}

	index := make(map[string]int)
	sum := 0
	for _, it := range items {
		switch freshness.ClassifyItem(it, now) {
		case freshness.StatusExpired:
			s.Expired++
		case freshness.StatusSoon:
			s.Soon++
		default:
			s.Fresh++
		}

		if days, err := freshness.DaysRemaining(it.ExpireDate, now); err == nil && days > 0 {
			sum += days
		}

		cat := it.Category
		if cat == "" {
			cat = model.Uncategorized
		}
		if i, ok := index[cat]; ok {
			s.Categories[i].Count++
		} else {
			index[cat] = len(s.Categories)
			s.Categories = append(s.Categories, CategoryCount{Category: cat, Count: 1})
		}
	}

	s.AvgDays = int(math.Floor(float64(sum)/float64(len(items)) + 0.5))

	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Count > s.Categories[j].Count
	})
	s.TopCategory = s.Categories[0].Category
	return s
}
