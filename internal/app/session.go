package app

import (
	"context"
	"encoding/json"

	"github.com/dukerupert/larder/internal/model"
)

const SessionKey = "larder.session"

type storedSession struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Controller) saveSession(ctx context.Context, token string, user model.User) {
	data, err := json.Marshal(storedSession{Token: token, User: user})
	if err != nil {
		c.logger.Warn("encode session", "error", err)
		return
	}
	if err := c.kv.Set(ctx, SessionKey, data); err != nil {
		c.logger.Warn("save session", "error", err)
	}
}

func (c *Controller) loadSession(ctx context.Context) *storedSession {
	raw, err := c.kv.Get(ctx, SessionKey)
	if err != nil {
		c.logger.Warn("load session", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var s storedSession
	if err := json.Unmarshal(raw, &s); err != nil || s.Token == "" || s.User.ID == "" {
		return nil
	}
	return &s
}

func (c *Controller) clearSession(ctx context.Context) {
	if err := c.kv.Delete(ctx, SessionKey); err != nil {
		c.logger.Warn("clear session", "error", err)
	}
}
