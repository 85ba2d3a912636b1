package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/larder/internal/model"
)

var now = time.Date(2026, 5, 20, 18, 45, 0, 0, time.UTC)

func item(id, category string, days int) model.FoodItem {
	return model.FoodItem{
		ID:         id,
		Category:   category,
		ExpireDate: now.AddDate(0, 0, days).Format(model.DateLayout),
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, now)
	assert.True(t, s.Empty)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.AvgDays)
	assert.Equal(t, NoneLabel, s.TopCategory)
	assert.Empty(t, s.Categories)
}

func TestComputeCountsAndAverage(t *testing.T) {
	items := []model.FoodItem{
		item("1", "Veg", -5),
		item("2", "Veg", 0),
		item("3", "Dairy", 2),
		item("4", "Dairy", 3),
		item("5", "Fruit", 10),
	}
	s := Compute(items, now)

	assert.False(t, s.Empty)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Expired)
	assert.Equal(t, 3, s.Soon)
	assert.Equal(t, 1, s.Fresh)
	assert.Equal(t, 3, s.AvgDays)
	assert.Equal(t, s.Total, s.Fresh+s.Soon+s.Expired)
}

func TestComputeAverageRoundsHalfUp(t *testing.T) {
	s := Compute([]model.FoodItem{item("1", "a", 1), item("2", "a", 2)}, now)
	assert.Equal(t, 2, s.AvgDays)

	s = Compute([]model.FoodItem{item("1", "a", 1), item("2", "a", 1), item("3", "a", 2)}, now)
	assert.Equal(t, 1, s.AvgDays)
}

func TestComputeHistogram(t *testing.T) {
	items := []model.FoodItem{
		item("1", "Fruit", 5),
		item("2", "", 5),
		item("3", "Dairy", 5),
		item("4", "Dairy", 5),
		item("5", "", 5),
		item("6", "Veg", 5),
	}
	s := Compute(items, now)

	assert.Equal(t, []CategoryCount{
		{Category: model.Uncategorized, Count: 2},
		{Category: "Dairy", Count: 2},
		{Category: "Fruit", Count: 1},
		{Category: "Veg", Count: 1},
	}, s.Categories)
	assert.Equal(t, model.Uncategorized, s.TopCategory)
}

func TestComputeUnparsableDate(t *testing.T) {
	s := Compute([]model.FoodItem{{ID: "1", Category: "x", ExpireDate: "soon-ish"}}, now)
	assert.Equal(t, 1, s.Soon)
	assert.Equal(t, 0, s.AvgDays)
}
