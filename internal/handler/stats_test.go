package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/stats"
	"github.com/dukerupert/larder/internal/store"
)

func TestRangeDays(t *testing.T) {
	tests := map[string]int{"7": 7, "30": 30, "": 0, "14": 0, "all": 0}
	for in, want := range tests {
		if got := rangeDays(in); got != want {
			t.Errorf("rangeDays(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestStatsDashboard(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	is := store.NewFoodItemStore(db)

	add := func(name, category, in, exp string) {
		t.Helper()
		_, err := is.Create(alice, model.FoodItemFields{Name: name, Category: category, InDate: in, ExpireDate: exp})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	add("Milk", "Dairy", "2026-05-14", "2026-05-16")    // soon
	add("Cheese", "Dairy", "2026-05-01", "2026-06-30")  // fresh
	add("Bread", "Bakery", "2026-03-01", "2026-03-05") // expired, stocked long ago

	h := NewStatsHandler(is, testLogger())
	h.now = func() time.Time { return time.Date(2026, 5, 15, 10, 0, 0, 0, time.Local) }

	get := func(target string) stats.Snapshot {
		t.Helper()
		rec := httptest.NewRecorder()
		h.Dashboard(rec, newRequest("GET", target, nil, alice))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		var resp struct {
			Stats stats.Snapshot `json:"stats"`
		}
		decodeBody(t, rec, &resp)
		return resp.Stats
	}

	all := get("/dashboard-stats")
	if all.Total != 3 || all.Fresh != 1 || all.Soon != 1 || all.Expired != 1 {
		t.Errorf("all = %+v", all)
	}
	if all.TopCategory != "Dairy" {
		t.Errorf("top category = %q, want Dairy", all.TopCategory)
	}

	week := get("/dashboard-stats?range=7")
	if week.Total != 1 || week.Soon != 1 {
		t.Errorf("7 days = %+v", week)
	}

	month := get("/dashboard-stats?range=30")
	if month.Total != 2 {
		t.Errorf("30 days total = %d, want 2", month.Total)
	}

	ignored := get("/dashboard-stats?range=14")
	if ignored.Total != 3 {
		t.Errorf("unknown range total = %d, want 3", ignored.Total)
	}
}

func TestStatsDashboardEmpty(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	h := NewStatsHandler(store.NewFoodItemStore(db), testLogger())

	rec := httptest.NewRecorder()
	h.Dashboard(rec, newRequest("GET", "/dashboard-stats", nil, alice))
	var resp struct {
		Stats stats.Snapshot `json:"stats"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Stats.Empty || resp.Stats.Total != 0 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}
