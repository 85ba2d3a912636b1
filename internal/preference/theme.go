package preference

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukerupert/larder/internal/kv"
)

type Theme string

const (
	ThemeBlue Theme = "blue"
	ThemeWarm Theme = "warm"
	ThemeNoir Theme = "noir"

	DefaultTheme = ThemeBlue
	KeyPrefix    = "larder.theme"
)

// Themes lists every supported theme in display order.
var Themes = []Theme{ThemeBlue, ThemeWarm, ThemeNoir}

// Normalize maps anything that is not a known theme to DefaultTheme.
func Normalize(v string) Theme {
	t := Theme(strings.TrimSpace(v))
	for _, known := range Themes {
		if t == known {
			return t
		}
	}
	return DefaultTheme
}

// Store persists one theme per user. It never returns storage errors.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

func NewStore(store kv.Store, logger *slog.Logger) *Store {
	return &Store{kv: store, logger: logger.With("component", "preference")}
}

func (s *Store) Load(ctx context.Context, userID string) Theme {
	key := kv.UserKey(KeyPrefix, userID)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("load theme", "key", key, "error", err)
		return DefaultTheme
	}
	return Normalize(string(raw))
}

// Save persists the normalized theme and returns it, even when the write fails.
func (s *Store) Save(ctx context.Context, userID, v string) Theme {
	theme := Normalize(v)
	key := kv.UserKey(KeyPrefix, userID)
	if err := s.kv.Set(ctx, key, []byte(theme)); err != nil {
		s.logger.Warn("save theme", "key", key, "error", err)
	}
	return theme
}
