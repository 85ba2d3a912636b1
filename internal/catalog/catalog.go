package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dukerupert/larder/internal/kv"
	"github.com/dukerupert/larder/internal/model"
)

const (
	KeyPrefix     = "larder.categories"
	DefaultLocale = "zh-CN"
	MaxNameLength = 12
)

var (
	ErrEmptyName     = errors.New("category name is required")
	ErrDuplicateName = errors.New("category already exists")
)

// ItemUpdater applies a partial update to one remote item.
type ItemUpdater interface {
	UpdateItem(ctx context.Context, id string, patch model.FoodItemPatch) (*model.FoodItem, error)
}

// Normalize trims name and truncates it to MaxNameLength characters.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	r := []rune(name)
	if len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}

// Manager keeps the per-user list of known category names in a local store.
// Storage failures are logged and never returned.
type Manager struct {
	store  kv.Store
	logger *slog.Logger
	lang   language.Tag
}

func NewManager(store kv.Store, logger *slog.Logger, locale string) *Manager {
	if locale == "" {
		locale = DefaultLocale
	}
	lang, err := language.Parse(locale)
	if err != nil {
		logger.Warn("unknown locale, using default", "locale", locale, "error", err)
		lang = language.MustParse(DefaultLocale)
	}
	return &Manager{
		store:  store,
		logger: logger.With("component", "catalog"),
		lang:   lang,
	}
}

// Canonical normalizes names, drops empties and duplicates, and sorts the
// result in the manager's collation order.
func (m *Manager) Canonical(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = Normalize(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	collate.New(m.lang).SortStrings(out)
	return out
}

// Load returns the persisted catalog for userID. Missing or unreadable data
// yields an empty list.
func (m *Manager) Load(ctx context.Context, userID string) []string {
	key := kv.UserKey(KeyPrefix, userID)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("load categories", "key", key, "error", err)
		return []string{}
	}
	if raw == nil {
		return []string{}
	}

	var decoded []any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		m.logger.Warn("decode categories", "key", key, "error", err)
		return []string{}
	}
	names := make([]string, 0, len(decoded))
	for _, v := range decoded {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return m.Canonical(names)
}

// Save canonicalizes names, persists them best-effort and returns the
// canonical list.
func (m *Manager) Save(ctx context.Context, userID string, names []string) []string {
	canon := m.Canonical(names)
	key := kv.UserKey(KeyPrefix, userID)

	data, err := json.Marshal(canon)
	if err != nil {
		m.logger.Warn("encode categories", "key", key, "error", err)
		return canon
	}
	if err := m.store.Set(ctx, key, data); err != nil {
		m.logger.Warn("save categories", "key", key, "error", err)
	}
	return canon
}

// Effective returns the union of item categories and catalog entries.
func (m *Manager) Effective(items []model.FoodItem, catalog []string) []string {
	names := make([]string, 0, len(items)+len(catalog))
	for _, it := range items {
		names = append(names, it.Category)
	}
	names = append(names, catalog...)
	return m.Canonical(names)
}

func (m *Manager) exists(name string, items []model.FoodItem, catalog []string) bool {
	for _, c := range m.Effective(items, catalog) {
		if c == name {
			return true
		}
	}
	return false
}

// Add appends name to the catalog and returns the saved list.
func (m *Manager) Add(ctx context.Context, userID, name string, items []model.FoodItem, catalog []string) ([]string, error) {
	name = Normalize(name)
	if name == "" {
		return catalog, ErrEmptyName
	}
	if m.exists(name, items, catalog) {
		return catalog, ErrDuplicateName
	}
	next := append(append([]string(nil), catalog...), name)
	return m.Save(ctx, userID, next), nil
}

// Rename moves every item tagged oldName to newName, one remote update per
// item, then renames the catalog entry. The first failed update stops the
// batch and is returned; items already updated stay updated.
func (m *Manager) Rename(ctx context.Context, userID, oldName, newName string, items []model.FoodItem, catalog []string, updater ItemUpdater) ([]string, error) {
	oldName = Normalize(oldName)
	newName = Normalize(newName)
	if oldName == "" || newName == "" {
		return catalog, ErrEmptyName
	}
	if oldName == newName {
		return catalog, nil
	}
	if m.exists(newName, items, catalog) {
		return catalog, ErrDuplicateName
	}

	if err := reassign(ctx, updater, items, oldName, newName); err != nil {
		return catalog, err
	}

	next := make([]string, len(catalog))
	for i, c := range catalog {
		if Normalize(c) == oldName {
			c = newName
		}
		next[i] = c
	}
	return m.Save(ctx, userID, next), nil
}

// Delete reassigns every item tagged name to model.Uncategorized, then drops
// name from the catalog. Partial failures behave as in Rename.
func (m *Manager) Delete(ctx context.Context, userID, name string, items []model.FoodItem, catalog []string, updater ItemUpdater) ([]string, error) {
	name = Normalize(name)
	if name == "" {
		return catalog, ErrEmptyName
	}

	if name != model.Uncategorized {
		if err := reassign(ctx, updater, items, name, model.Uncategorized); err != nil {
			return catalog, err
		}
	}

	next := make([]string, 0, len(catalog))
	for _, c := range catalog {
		if Normalize(c) != name {
			next = append(next, c)
		}
	}
	return m.Save(ctx, userID, next), nil
}

func reassign(ctx context.Context, updater ItemUpdater, items []model.FoodItem, from, to string) error {
	for _, it := range items {
		if Normalize(it.Category) != from {
			continue
		}
		category := to
		if _, err := updater.UpdateItem(ctx, it.ID, model.FoodItemPatch{Category: &category}); err != nil {
			return fmt.Errorf("move %q to %q: %w", it.Name, to, err)
		}
	}
	return nil
}
