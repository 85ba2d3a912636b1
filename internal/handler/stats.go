package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/stats"
	"github.com/dukerupert/larder/internal/store"
)

type StatsHandler struct {
	itemStore *store.FoodItemStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewStatsHandler(is *store.FoodItemStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{itemStore: is, logger: logger.With("component", "stats"), now: time.Now}
}

// rangeDays maps the range query parameter to a window; 0 means all items.
func rangeDays(v string) int {
	switch v {
	case "7":
		return 7
	case "30":
		return 30
	}
	return 0
}

// Dashboard returns aggregate counts over the user's items, optionally
// limited to items stocked within the last 7 or 30 days.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	now := h.now()

	var (
		items []model.FoodItem
		err   error
	)
	if days := rangeDays(r.URL.Query().Get("range")); days > 0 {
		since := freshness.Today(now).AddDate(0, 0, -days).Format(model.DateLayout)
		items, err = h.itemStore.ListStockedSince(userID, since)
	} else {
		items, err = h.itemStore.List(userID)
	}
	if err != nil {
		h.logger.Error("load items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats.Compute(items, now)})
}
