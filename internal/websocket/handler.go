package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/larder/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and runs it as a Hub
// client for the caller's user.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	logger = logger.With("component", "websocket")
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("accept", "error", err)
			return
		}

		logger.Debug("client connected", "user_id", userID)
		NewClient(hub, conn, userID).Run(r.Context())
		logger.Debug("client disconnected", "user_id", userID)
	}
}
