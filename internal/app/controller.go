package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/larder/internal/catalog"
	"github.com/dukerupert/larder/internal/filter"
	"github.com/dukerupert/larder/internal/freshness"
	"github.com/dukerupert/larder/internal/kv"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/preference"
	"github.com/dukerupert/larder/internal/stats"
)

const (
	SettingsTimeout = 8 * time.Second
	SignOutTimeout  = 6 * time.Second
)

var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrInvalidUsername  = errors.New("username must be at least 2 characters and must not contain @")
	ErrPasswordRequired = errors.New("password is required")
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidDate      = errors.New("dates must be in YYYY-MM-DD format")
	ErrExpireBeforeIn   = errors.New("expire date cannot be earlier than in date")
	ErrUnknownTab       = errors.New("unknown tab")
)

// Gateway is the remote backend as seen by the controller. Every call may
// fail; failures carry a human-readable message.
type Gateway interface {
	FetchItems(ctx context.Context) ([]model.FoodItem, error)
	CreateItem(ctx context.Context, fields model.FoodItemFields) (*model.FoodItem, error)
	UpdateItem(ctx context.Context, id string, patch model.FoodItemPatch) (*model.FoodItem, error)
	DeleteItem(ctx context.Context, id string) error
	FetchStats(ctx context.Context, rangeDays int) (*stats.Snapshot, error)
	GetSettings(ctx context.Context) (*model.UserSettings, error)
	EnsureSettings(ctx context.Context, userID string) (model.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, expireReminder bool) (model.UserSettings, error)
	SignUp(ctx context.Context, username, password string) (*model.User, error)
	SignIn(ctx context.Context, username, password string) (*model.AuthSession, error)
	SignOut(ctx context.Context) error
}

type Tab string

const (
	TabHome    Tab = "home"
	TabStats   Tab = "stats"
	TabProfile Tab = "profile"
)

func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabHome, TabStats, TabProfile:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

type UIState struct {
	Tab                   Tab              `json:"tab"`
	Selection             filter.Selection `json:"selection"`
	ProfileCategoriesOpen bool             `json:"profile_categories_open"`
	StatsCategoriesOpen   bool             `json:"stats_categories_open"`
}

// State is everything the presentation layer renders from.
type State struct {
	User     *model.User        `json:"user"`
	Token    string             `json:"-"`
	Theme    preference.Theme   `json:"theme"`
	Items    []model.FoodItem   `json:"items"`
	Catalog  []string           `json:"catalog"`
	Settings model.UserSettings `json:"settings"`
	UI       UIState            `json:"ui"`
}

// ItemDraft is an item as entered by the user. An empty ID creates a new item.
type ItemDraft struct {
	ID         string
	Name       string
	Category   string
	Quantity   string
	InDate     string
	ExpireDate string
}

type Options struct {
	Gateway         Gateway
	Store           kv.Store
	Logger          *slog.Logger
	Locale          string
	SettingsTimeout time.Duration
	SignOutTimeout  time.Duration
	Now             func() time.Time
	OnBusy          func(visible bool, label string)
}

// Controller owns the client state and runs every user action against the
// gateway. The state lock is never held across a remote call.
type Controller struct {
	gw              Gateway
	kv              kv.Store
	catalog         *catalog.Manager
	prefs           *preference.Store
	busy            *Busy
	logger          *slog.Logger
	now             func() time.Time
	settingsTimeout time.Duration
	signOutTimeout  time.Duration

	mu    sync.Mutex
	state State
}

func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SettingsTimeout == 0 {
		opts.SettingsTimeout = SettingsTimeout
	}
	if opts.SignOutTimeout == 0 {
		opts.SignOutTimeout = SignOutTimeout
	}
	if opts.Store == nil {
		opts.Store = kv.NewMemoryStore()
	}

	return &Controller{
		gw:              opts.Gateway,
		kv:              opts.Store,
		catalog:         catalog.NewManager(opts.Store, logger, opts.Locale),
		prefs:           preference.NewStore(opts.Store, logger),
		busy:            NewBusy(opts.OnBusy),
		logger:          logger.With("component", "app"),
		now:             opts.Now,
		settingsTimeout: opts.SettingsTimeout,
		signOutTimeout:  opts.SignOutTimeout,
		state: State{
			Theme:    preference.DefaultTheme,
			Items:    []model.FoodItem{},
			Catalog:  []string{},
			Settings: model.DefaultUserSettings(),
			UI:       UIState{Tab: TabHome, Selection: filter.DefaultSelection()},
		},
	}
}

func (c *Controller) Busy() *Busy {
	return c.busy
}

// Token returns the current access token, or "" when signed out.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Token
}

func (c *Controller) userID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.User == nil {
		return ""
	}
	return c.state.User.ID
}

func (c *Controller) requireUser() (string, error) {
	id := c.userID()
	if id == "" {
		return "", ErrNotSignedIn
	}
	return id, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append([]model.FoodItem(nil), c.state.Items...)
	s.Catalog = append([]string(nil), c.state.Catalog...)
	if c.state.User != nil {
		u := *c.state.User
		s.User = &u
	}
	return s
}

func validateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if strings.Contains(username, "@") || len([]rune(username)) < 2 {
		return "", ErrInvalidUsername
	}
	if strings.TrimSpace(password) == "" {
		return "", ErrPasswordRequired
	}
	return username, nil
}

func (c *Controller) SignUp(ctx context.Context, username, password string) (*model.User, error) {
	username, err := validateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	defer c.busy.Acquire("Creating account")()
	return c.gw.SignUp(ctx, username, strings.TrimSpace(password))
}

// SignIn authenticates, persists the session and loads the user's data. A
// failed initial sync is logged and leaves the user signed in.
func (c *Controller) SignIn(ctx context.Context, username, password string) error {
	username, err := validateCredentials(username, password)
	if err != nil {
		return err
	}
	defer c.busy.Acquire("Signing in")()

	sess, err := c.gw.SignIn(ctx, username, strings.TrimSpace(password))
	if err != nil {
		return err
	}
	c.saveSession(ctx, sess.AccessToken, sess.User)
	c.begin(ctx, sess.AccessToken, sess.User)

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("initial sync failed", "error", err)
	}
	return nil
}

// Resume restores a persisted session without contacting the backend. It
// reports whether a session was found.
func (c *Controller) Resume(ctx context.Context) bool {
	s := c.loadSession(ctx)
	if s == nil {
		theme := c.prefs.Load(ctx, "")
		c.mu.Lock()
		c.state.Theme = theme
		c.mu.Unlock()
		return false
	}
	c.begin(ctx, s.Token, s.User)
	return true
}

func (c *Controller) begin(ctx context.Context, token string, user model.User) {
	theme := c.prefs.Load(ctx, user.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.User = &user
	c.state.Token = token
	c.state.Theme = theme
	c.state.UI.Selection = filter.DefaultSelection()
	c.state.UI.Tab = TabHome
}

// SignOut tells the backend, within a short budget, then always clears the
// local session.
func (c *Controller) SignOut(ctx context.Context) {
	func() {
		defer c.busy.Acquire("Signing out")()
		ctx, cancel := context.WithTimeout(ctx, c.signOutTimeout)
		defer cancel()
		if err := c.gw.SignOut(ctx); err != nil {
			c.logger.Warn("sign out failed, forcing local logout", "error", err)
		}
	}()

	c.clearSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.User = nil
	c.state.Token = ""
	c.state.Items = []model.FoodItem{}
	c.state.Catalog = []string{}
	c.state.Settings = model.DefaultUserSettings()
	c.state.Theme = preference.DefaultTheme
	c.state.UI = UIState{Tab: TabHome, Selection: filter.DefaultSelection()}
}

// Refresh re-fetches the item list, reloads the catalog and ensures the
// settings record. Settings failures fall back to the defaults.
func (c *Controller) Refresh(ctx context.Context) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	defer c.busy.Acquire("Syncing")()

	items, err := c.gw.FetchItems(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	cat := c.catalog.Load(ctx, userID)

	sctx, cancel := context.WithTimeout(ctx, c.settingsTimeout)
	settings, err := c.gw.EnsureSettings(sctx, userID)
	cancel()
	if err != nil {
		c.logger.Warn("settings sync failed, using defaults", "error", err)
		settings = model.DefaultUserSettings()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = items
	c.state.Catalog = cat
	c.state.Settings = settings
	c.dropStaleCategoryLocked()
	return nil
}

func (c *Controller) dropStaleCategoryLocked() {
	sel := c.state.UI.Selection.Category
	if sel == filter.All {
		return
	}
	for _, name := range c.catalog.Effective(c.state.Items, c.state.Catalog) {
		if name == sel {
			return
		}
	}
	c.state.UI.Selection.Category = filter.All
}

func (c *Controller) itemsAndCatalog() ([]model.FoodItem, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.FoodItem(nil), c.state.Items...), append([]string(nil), c.state.Catalog...)
}

func (c *Controller) setCatalog(cat []string) {
	c.mu.Lock()
	c.state.Catalog = cat
	c.mu.Unlock()
}

func (c *Controller) validateDraft(d ItemDraft) (model.FoodItemFields, error) {
	f := model.FoodItemFields{
		Name:       strings.TrimSpace(d.Name),
		Category:   catalog.Normalize(d.Category),
		Quantity:   strings.TrimSpace(d.Quantity),
		InDate:     strings.TrimSpace(d.InDate),
		ExpireDate: strings.TrimSpace(d.ExpireDate),
	}
	if f.Name == "" {
		return f, ErrNameRequired
	}

	loc := c.now().Location()
	in, err := freshness.ParseDate(f.InDate, loc)
	if err != nil {
		return f, fmt.Errorf("%w: in date %q", ErrInvalidDate, f.InDate)
	}
	exp, err := freshness.ParseDate(f.ExpireDate, loc)
	if err != nil {
		return f, fmt.Errorf("%w: expire date %q", ErrInvalidDate, f.ExpireDate)
	}
	if exp.Before(in) {
		return f, ErrExpireBeforeIn
	}

	if f.Category == "" {
		f.Category = model.Uncategorized
		if names := c.Categories(); len(names) > 0 {
			f.Category = names[0]
		}
	}
	return f, nil
}

// SaveItem creates the draft, or updates it when it carries an ID, then
// re-fetches everything.
func (c *Controller) SaveItem(ctx context.Context, d ItemDraft) error {
	if _, err := c.requireUser(); err != nil {
		return err
	}
	fields, err := c.validateDraft(d)
	if err != nil {
		return err
	}

	defer c.busy.Acquire("Saving item")()
	if d.ID != "" {
		_, err = c.gw.UpdateItem(ctx, d.ID, model.PatchFromFields(fields))
	} else {
		_, err = c.gw.CreateItem(ctx, fields)
	}
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (c *Controller) DeleteItem(ctx context.Context, id string) error {
	if _, err := c.requireUser(); err != nil {
		return err
	}
	defer c.busy.Acquire("Deleting item")()
	if err := c.gw.DeleteItem(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ClearExpired deletes every expired item one at a time and returns how many
// were deleted. The first failure stops the batch.
func (c *Controller) ClearExpired(ctx context.Context) (int, error) {
	if _, err := c.requireUser(); err != nil {
		return 0, err
	}
	items, _ := c.itemsAndCatalog()
	expired := filter.Visible(items, filter.Selection{Category: filter.All, Status: filter.StatusExpired}, c.now())
	if len(expired) == 0 {
		return 0, nil
	}

	defer c.busy.Acquire("Clearing expired items")()
	deleted := 0
	for _, it := range expired {
		if err := c.gw.DeleteItem(ctx, it.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, c.Refresh(ctx)
}

func (c *Controller) AddCategory(ctx context.Context, name string) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	items, cat := c.itemsAndCatalog()
	next, err := c.catalog.Add(ctx, userID, name, items, cat)
	if err != nil {
		return err
	}
	c.setCatalog(next)
	return nil
}

// RenameCategory moves every item to the new name, one update per item, then
// renames the catalog entry. Items updated before a failure stay updated.
func (c *Controller) RenameCategory(ctx context.Context, oldName, newName string) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	defer c.busy.Acquire("Renaming category")()

	items, cat := c.itemsAndCatalog()
	next, err := c.catalog.Rename(ctx, userID, oldName, newName, items, cat, c.gw)
	if err != nil {
		return err
	}
	c.setCatalog(next)
	return c.Refresh(ctx)
}

// DeleteCategory moves the category's items to uncategorized and removes it
// from the catalog.
func (c *Controller) DeleteCategory(ctx context.Context, name string) error {
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	defer c.busy.Acquire("Deleting category")()

	items, cat := c.itemsAndCatalog()
	next, err := c.catalog.Delete(ctx, userID, name, items, cat, c.gw)
	if err != nil {
		return err
	}
	c.setCatalog(next)
	return c.Refresh(ctx)
}

// ToggleReminder flips expire_reminder. When the backend cannot be reached
// the new value is kept locally.
func (c *Controller) ToggleReminder(ctx context.Context) (bool, error) {
	userID, err := c.requireUser()
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	next := !c.state.Settings.ExpireReminder
	c.mu.Unlock()

	defer c.busy.Acquire("Saving settings")()
	sctx, cancel := context.WithTimeout(ctx, c.settingsTimeout)
	settings, err := c.gw.UpdateSettings(sctx, userID, next)
	cancel()
	if err != nil {
		c.logger.Warn("update settings failed, keeping local value", "error", err)
		settings = model.UserSettings{ExpireReminder: next}
	}

	c.mu.Lock()
	c.state.Settings = settings
	c.mu.Unlock()
	return settings.ExpireReminder, nil
}

// SetTheme applies and persists a theme. Unknown names apply the default.
func (c *Controller) SetTheme(ctx context.Context, name string) preference.Theme {
	theme := c.prefs.Save(ctx, c.userID(), name)
	c.mu.Lock()
	c.state.Theme = theme
	c.mu.Unlock()
	return theme
}

// ClickTab is a user tab selection. Clicking home always clears the home
// filters, even when home is already active.
func (c *Controller) ClickTab(ctx context.Context, tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	c.mu.Lock()
	if tab == TabHome {
		c.state.UI.Selection = filter.DefaultSelection()
	}
	c.mu.Unlock()
	c.switchTab(ctx, tab)
	return nil
}

// switchTab changes the active tab. Entering stats re-fetches the items on a
// best-effort basis.
func (c *Controller) switchTab(ctx context.Context, tab Tab) {
	c.mu.Lock()
	c.state.UI.Tab = tab
	signedIn := c.state.User != nil
	c.mu.Unlock()

	if tab != TabStats || !signedIn {
		return
	}
	items, err := c.gw.FetchItems(ctx)
	if err != nil {
		c.logger.Warn("refresh stats tab", "error", err)
		return
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	c.mu.Lock()
	c.state.Items = items
	c.mu.Unlock()
}

// SelectCategory picks a category chip and clears the status filter.
func (c *Controller) SelectCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.UI.Selection = filter.Selection{Category: category, Status: filter.StatusNone}
	c.dropStaleCategoryLocked()
}

func (c *Controller) SelectStatus(status filter.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.UI.Selection.Status = status
}

// ShowAll, ShowStatus and ShowCategory jump from a statistic to the matching
// home list without the home tab reset.
func (c *Controller) ShowAll(ctx context.Context) {
	c.show(ctx, filter.DefaultSelection())
}

func (c *Controller) ShowStatus(ctx context.Context, status filter.Status) {
	if status == filter.StatusNone {
		return
	}
	c.show(ctx, filter.Selection{Category: filter.All, Status: status})
}

func (c *Controller) ShowCategory(ctx context.Context, category string) {
	if category == "" {
		return
	}
	c.show(ctx, filter.Selection{Category: category, Status: filter.StatusNone})
}

func (c *Controller) show(ctx context.Context, sel filter.Selection) {
	c.mu.Lock()
	c.state.UI.Selection = sel
	c.mu.Unlock()
	c.switchTab(ctx, TabHome)
}

func (c *Controller) ToggleProfileCategories() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.UI.ProfileCategoriesOpen = !c.state.UI.ProfileCategoriesOpen
	return c.state.UI.ProfileCategoriesOpen
}

func (c *Controller) ToggleStatsCategories() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.UI.StatsCategoriesOpen = !c.state.UI.StatsCategoriesOpen
	return c.state.UI.StatsCategoriesOpen
}

// Categories returns the effective category list.
func (c *Controller) Categories() []string {
	items, cat := c.itemsAndCatalog()
	return c.catalog.Effective(items, cat)
}

func (c *Controller) Chips() []filter.Chip {
	return filter.Chips(c.Categories())
}

// Visible returns the home list under the current selection.
func (c *Controller) Visible() []model.FoodItem {
	c.mu.Lock()
	sel := c.state.UI.Selection
	items := append([]model.FoodItem(nil), c.state.Items...)
	c.mu.Unlock()
	return filter.Visible(items, sel, c.now())
}

func (c *Controller) Stats() stats.Snapshot {
	items, _ := c.itemsAndCatalog()
	return stats.Compute(items, c.now())
}

// RemoteStats asks the backend for statistics over a recent window.
func (c *Controller) RemoteStats(ctx context.Context, rangeDays int) (*stats.Snapshot, error) {
	if _, err := c.requireUser(); err != nil {
		return nil, err
	}
	defer c.busy.Acquire("Loading statistics")()
	return c.gw.FetchStats(ctx, rangeDays)
}
