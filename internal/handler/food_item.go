package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/catalog"
	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/store"
	"github.com/dukerupert/larder/internal/websocket"
)

const foodItemEntity = "food_item"

type FoodItemHandler struct {
	itemStore *store.FoodItemStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewFoodItemHandler(is *store.FoodItemStore, hub *websocket.Hub, logger *slog.Logger) *FoodItemHandler {
	return &FoodItemHandler{itemStore: is, hub: hub, logger: logger.With("component", "food_items")}
}

func (h *FoodItemHandler) notify(userID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.SendToUser(userID, msg)
	}
}

type foodItemPatchRequest struct {
	ID string `json:"id"`
	model.FoodItemPatch
}

func validDate(s string) bool {
	_, err := freshness.ParseDate(s, time.UTC)
	return err == nil
}

func normalizeCategory(c string) string {
	c = catalog.Normalize(c)
	if c == "" {
		return model.Uncategorized
	}
	return c
}

func (h *FoodItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemStore.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *FoodItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.FoodItemFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validDate(req.InDate) {
		writeError(w, http.StatusBadRequest, "in_date must be YYYY-MM-DD")
		return
	}
	if !validDate(req.ExpireDate) {
		writeError(w, http.StatusBadRequest, "expire_date must be YYYY-MM-DD")
		return
	}
	req.Category = normalizeCategory(req.Category)
	req.Quantity = strings.TrimSpace(req.Quantity)

	userID := auth.UserID(r.Context())
	item, err := h.itemStore.Create(userID, req)
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.notify(userID, websocket.NewMessage(foodItemEntity, "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *FoodItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req foodItemPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	p := req.FoodItemPatch
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		p.Name = &name
	}
	if p.InDate != nil && !validDate(*p.InDate) {
		writeError(w, http.StatusBadRequest, "in_date must be YYYY-MM-DD")
		return
	}
	if p.ExpireDate != nil && !validDate(*p.ExpireDate) {
		writeError(w, http.StatusBadRequest, "expire_date must be YYYY-MM-DD")
		return
	}
	if p.Category != nil {
		c := normalizeCategory(*p.Category)
		p.Category = &c
	}

	userID := auth.UserID(r.Context())
	item, err := h.itemStore.Update(userID, req.ID, p)
	if err != nil {
		h.logger.Error("update item", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.notify(userID, websocket.NewMessage(foodItemEntity, "updated", item.ID, nil))
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *FoodItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	userID := auth.UserID(r.Context())
	deleted, err := h.itemStore.Delete(userID, id)
	if err != nil {
		h.logger.Error("delete item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	if deleted {
		h.notify(userID, websocket.NewMessage(foodItemEntity, "deleted", id, nil))
	}
	writeJSON(w, http.StatusOK, okResponse)
}
