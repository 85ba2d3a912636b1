package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/store"
	"github.com/dukerupert/larder/internal/websocket"
)

type UserSettingsHandler struct {
	settingsStore *store.UserSettingsStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewUserSettingsHandler(ss *store.UserSettingsStore, hub *websocket.Hub, logger *slog.Logger) *UserSettingsHandler {
	return &UserSettingsHandler{settingsStore: ss, hub: hub, logger: logger.With("component", "user_settings")}
}

func (h *UserSettingsHandler) notify(userID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.SendToUser(userID, msg)
	}
}

type userSettingsRequest struct {
	UserID         string `json:"user_id"`
	ExpireReminder *bool  `json:"expire_reminder"`
}

// decodeSettingsRequest reads an optional body. A user_id that names
// someone other than the caller is rejected.
func decodeSettingsRequest(w http.ResponseWriter, r *http.Request) (userSettingsRequest, bool) {
	var req userSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return req, false
	}
	if req.UserID != "" && req.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusForbidden, "user_id does not match")
		return req, false
	}
	return req, true
}

func (h *UserSettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.settingsStore.Get(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": rec})
}

// Ensure creates the default record when the user has none.
func (h *UserSettingsHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeSettingsRequest(w, r); !ok {
		return
	}

	rec, created, err := h.settingsStore.Ensure(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("ensure settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create settings")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"settings": rec})
}

func (h *UserSettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSettingsRequest(w, r)
	if !ok {
		return
	}
	if req.ExpireReminder == nil {
		writeError(w, http.StatusBadRequest, "expire_reminder is required")
		return
	}

	userID := auth.UserID(r.Context())
	rec, err := h.settingsStore.Update(userID, *req.ExpireReminder)
	if err != nil {
		h.logger.Error("update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	h.notify(userID, websocket.NewMessage("settings", "updated", "", map[string]any{"expire_reminder": rec.ExpireReminder}))
	writeJSON(w, http.StatusOK, map[string]any{"settings": rec})
}
