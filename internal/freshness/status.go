package freshness

import (
	"fmt"
	"time"

	"github.com/dukerupert/larder/internal/model"
)

type Status string

const (
	StatusFresh    Status = "fresh"
	StatusSoon     Status = "soon"
	StatusExpired  Status = "expired"
	SoonWithinDays        = 3
)

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Expired"
	case StatusSoon:
		return "Expiring soon"
	default:
		return "Fresh"
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DaysRemaining returns the number of calendar days from now's date until
// date. Both days are taken in now's location, so a date equal to today is 0
// and yesterday is -1 regardless of the time of day or DST changes.
func DaysRemaining(date string, now time.Time) (int, error) {
	exp, err := ParseDate(date, now.Location())
	if err != nil {
		return 0, err
	}
	return daysBetween(now, exp), nil
}

// Classify maps a day count onto exactly one status.
func Classify(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= SoonWithinDays:
		return StatusSoon
	default:
		return StatusFresh
	}
}

// ClassifyItem classifies an item by its expire date. An unparsable date is
// reported as expiring soon so the item stays visible to the user.
func ClassifyItem(item model.FoodItem, now time.Time) Status {
	days, err := DaysRemaining(item.ExpireDate, now)
	if err != nil {
		return StatusSoon
	}
	return Classify(days)
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today returns midnight of now's calendar day.
func Today(now time.Time) time.Time {
	return startOfDay(now)
}
