package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/store"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 32
	minPasswordLength = 6
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	issuer       *auth.Issuer
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, issuer *auth.Issuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		issuer:       issuer,
		logger:       logger.With("component", "auth"),
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername reports why a normalized username is unacceptable, or ""
// when it is fine.
func ValidateUsername(username string) string {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength {
		return "username must be 2-32 characters"
	}
	if strings.Contains(username, "@") {
		return "username must not contain @"
	}
	return ""
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	username := NormalizeUsername(req.Username)
	if msg := ValidateUsername(username); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	user, err := h.userStore.Create(username, req.Password)
	if errors.Is(err, store.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Token exchanges a username and password for an access token backed by a
// new session.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.userStore.Authenticate(NormalizeUsername(req.Username), req.Password)
	if err != nil {
		h.logger.Error("authenticate", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "invalid login credentials")
		return
	}

	sess, err := h.sessionStore.Create(user.ID, h.issuer.TTL())
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	token, _, err := h.issuer.Generate(user.ID, user.Username, sess.ID)
	if err != nil {
		h.logger.Error("generate token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	writeJSON(w, http.StatusOK, model.AuthSession{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.issuer.TTL().Seconds()),
		User:        *user,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r.Context()); id != "" {
		if err := h.sessionStore.Delete(id); err != nil {
			h.logger.Error("delete session", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to sign out")
			return
		}
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
