package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/stats"
)

// fakeGateway is an in-memory backend for a single user.
type fakeGateway struct {
	mu        sync.Mutex
	items     []model.FoodItem
	settings  *model.UserSettings
	nextID    int
	calls     []string
	failOn    map[string]error
	block     chan struct{}
	signedOut bool
}

func newFakeGateway(items ...model.FoodItem) *fakeGateway {
	return &fakeGateway{items: items, failOn: map[string]error{}}
}

func (g *fakeGateway) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.failOn[call]
}

func (g *fakeGateway) FetchItems(context.Context) ([]model.FoodItem, error) {
	if err := g.record("fetch"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.FoodItem(nil), g.items...), nil
}

func (g *fakeGateway) CreateItem(_ context.Context, f model.FoodItemFields) (*model.FoodItem, error) {
	if err := g.record("create"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	it := model.FoodItem{
		ID:         fmt.Sprintf("new-%d", g.nextID),
		Name:       f.Name,
		Category:   f.Category,
		Quantity:   f.Quantity,
		InDate:     f.InDate,
		ExpireDate: f.ExpireDate,
	}
	g.items = append([]model.FoodItem{it}, g.items...)
	return &it, nil
}

func (g *fakeGateway) UpdateItem(_ context.Context, id string, p model.FoodItemPatch) (*model.FoodItem, error) {
	if err := g.record("update:" + id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		if g.items[i].ID != id {
			continue
		}
		if p.Name != nil {
			g.items[i].Name = *p.Name
		}
		if p.Category != nil {
			g.items[i].Category = *p.Category
		}
		if p.Quantity != nil {
			g.items[i].Quantity = *p.Quantity
		}
		if p.InDate != nil {
			g.items[i].InDate = *p.InDate
		}
		if p.ExpireDate != nil {
			g.items[i].ExpireDate = *p.ExpireDate
		}
		it := g.items[i]
		return &it, nil
	}
	return nil, errors.New("not found")
}

func (g *fakeGateway) DeleteItem(_ context.Context, id string) error {
	if err := g.record("delete:" + id); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		if g.items[i].ID == id {
			g.items = append(g.items[:i], g.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (g *fakeGateway) FetchStats(context.Context, int) (*stats.Snapshot, error) {
	return nil, g.record("stats")
}

func (g *fakeGateway) GetSettings(context.Context) (*model.UserSettings, error) {
	if err := g.record("get-settings"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings, nil
}

func (g *fakeGateway) EnsureSettings(ctx context.Context, _ string) (model.UserSettings, error) {
	if err := g.record("ensure-settings"); err != nil {
		return model.UserSettings{}, err
	}
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return model.UserSettings{}, ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settings == nil {
		s := model.DefaultUserSettings()
		g.settings = &s
	}
	return *g.settings, nil
}

func (g *fakeGateway) UpdateSettings(_ context.Context, _ string, v bool) (model.UserSettings, error) {
	if err := g.record("update-settings"); err != nil {
		return model.UserSettings{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings = &model.UserSettings{ExpireReminder: v}
	return *g.settings, nil
}

func (g *fakeGateway) SignUp(_ context.Context, username, _ string) (*model.User, error) {
	if err := g.record("signup"); err != nil {
		return nil, err
	}
	return &model.User{ID: "u-" + username, Username: username}, nil
}

func (g *fakeGateway) SignIn(_ context.Context, username, _ string) (*model.AuthSession, error) {
	if err := g.record("signin"); err != nil {
		return nil, err
	}
	return &model.AuthSession{
		AccessToken: "token-" + username,
		TokenType:   "bearer",
		User:        model.User{ID: "u1", Username: username},
	}, nil
}

func (g *fakeGateway) SignOut(ctx context.Context) error {
	if err := g.record("signout"); err != nil {
		return err
	}
	g.mu.Lock()
	g.signedOut = true
	g.mu.Unlock()
	return nil
}

func (g *fakeGateway) countCalls(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
