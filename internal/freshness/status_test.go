package freshness

import (
	"testing"
	"time"

	"github.com/dukerupert/larder/internal/model"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		date string
		want int
	}{
		{"2026-03-10", 0},
		{"2026-03-11", 1},
		{"2026-03-13", 3},
		{"2026-03-14", 4},
		{"2026-03-09", -1},
		{"2026-02-28", -10},
		{"2027-03-10", 365},
	}

	for _, tt := range tests {
		got, err := DaysRemaining(tt.date, now)
		if err != nil {
			t.Fatalf("DaysRemaining(%q): %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("DaysRemaining(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestDaysRemainingLateInTheDay(t *testing.T) {
	// One minute before midnight still counts tomorrow as 1 day away.
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	got, err := DaysRemaining("2026-03-11", now)
	if err != nil {
		t.Fatalf("days remaining: %v", err)
	}
	if got != 1 {
		t.Errorf("days = %d, want 1", got)
	}
}

func TestDaysRemainingAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-11-01 has 25 hours in New York.
	now := time.Date(2026, 10, 31, 12, 0, 0, 0, loc)
	got, err := DaysRemaining("2026-11-02", now)
	if err != nil {
		t.Fatalf("days remaining: %v", err)
	}
	if got != 2 {
		t.Errorf("days = %d, want 2", got)
	}
}

func TestDaysRemainingInvalidDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := DaysRemaining("10/03/2026", now); err == nil {
		t.Fatal("expected error for invalid date, got nil")
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want Status
	}{
		{-100, StatusExpired},
		{-1, StatusExpired},
		{0, StatusSoon},
		{2, StatusSoon},
		{3, StatusSoon},
		{4, StatusFresh},
		{400, StatusFresh},
	}

	for _, tt := range tests {
		if got := Classify(tt.days); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestClassifyPartitions(t *testing.T) {
	for days := -30; days <= 30; days++ {
		s := Classify(days)
		matches := 0
		if days < 0 {
			matches++
		}
		if days >= 0 && days <= 3 {
			matches++
		}
		if days > 3 {
			matches++
		}
		if matches != 1 {
			t.Fatalf("day %d matched %d classes", days, matches)
		}
		if s != StatusExpired && s != StatusSoon && s != StatusFresh {
			t.Fatalf("day %d produced unknown status %q", days, s)
		}
	}
}

func TestClassifyItem(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	expired := model.FoodItem{ExpireDate: "2026-02-28"}
	if got := ClassifyItem(expired, now); got != StatusExpired {
		t.Errorf("expired item = %q, want %q", got, StatusExpired)
	}

	fresh := model.FoodItem{ExpireDate: "2026-03-20"}
	if got := ClassifyItem(fresh, now); got != StatusFresh {
		t.Errorf("fresh item = %q, want %q", got, StatusFresh)
	}

	broken := model.FoodItem{ExpireDate: ""}
	if got := ClassifyItem(broken, now); got != StatusSoon {
		t.Errorf("unparsable item = %q, want %q", got, StatusSoon)
	}
}
