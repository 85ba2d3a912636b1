package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/stats"
)

const (
	DefaultTimeout  = 12 * time.Second
	fallbackMessage = "request failed"
)

// ErrTimeout is returned when a request exceeds the client's budget.
var ErrTimeout = errors.New("request timed out")

// RequestError is a failure reported by the backend.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TokenSource returns the current access token, or "" when logged out.
type TokenSource func() string

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the larder backend over HTTP.
type Client struct {
	cfg        Config
	token      TokenSource
	httpClient *http.Client
}

func NewClient(cfg Config, token TokenSource) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		cfg:        cfg,
		token:      token,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(h http.Header) {
	if c.cfg.APIKey != "" {
		h.Set("apikey", c.cfg.APIKey)
	}
	if tok := c.token(); tok != "" {
		h.Set("Authorization", "Bearer "+tok)
	}
}

func decodeError(status int, data []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := fallbackMessage
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		msg = e.Error
	}
	return &RequestError{Status: status, Message: msg}
}

func (c *Client) FetchItems(ctx context.Context) ([]model.FoodItem, error) {
	var resp struct {
		Items []model.FoodItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/food-items", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []model.FoodItem{}
	}
	return resp.Items, nil
}

func (c *Client) CreateItem(ctx context.Context, fields model.FoodItemFields) (*model.FoodItem, error) {
	var resp struct {
		Item *model.FoodItem `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/food-items", nil, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch model.FoodItemPatch) (*model.FoodItem, error) {
	in := struct {
		ID string `json:"id"`
		model.FoodItemPatch
	}{ID: id, FoodItemPatch: patch}

	var resp struct {
		Item *model.FoodItem `json:"item"`
	}
	if err := c.do(ctx, http.MethodPatch, "/food-items", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/food-items", url.Values{"id": {id}}, nil, nil)
}

// FetchStats returns server-side statistics. rangeDays of 7 or 30 limits the
// items to those stocked in that many recent days; anything else means all.
func (c *Client) FetchStats(ctx context.Context, rangeDays int) (*stats.Snapshot, error) {
	var q url.Values
	if rangeDays > 0 {
		q = url.Values{"range": {strconv.Itoa(rangeDays)}}
	}
	var resp struct {
		Stats *stats.Snapshot `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard-stats", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

type settingsRequest struct {
	UserID         string `json:"user_id,omitempty"`
	ExpireReminder *bool  `json:"expire_reminder,omitempty"`
}

type settingsResponse struct {
	Settings *model.UserSettings `json:"settings"`
}

// GetSettings returns nil, nil when the user has no settings record yet.
func (c *Client) GetSettings(ctx context.Context) (*model.UserSettings, error) {
	var resp settingsResponse
	if err := c.do(ctx, http.MethodGet, "/user-settings", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// EnsureSettings returns the user's settings, creating the default record if
// none exists.
func (c *Client) EnsureSettings(ctx context.Context, userID string) (model.UserSettings, error) {
	existing, err := c.GetSettings(ctx)
	if err != nil {
		return model.UserSettings{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	var resp settingsResponse
	if err := c.do(ctx, http.MethodPost, "/user-settings", nil, settingsRequest{UserID: userID}, &resp); err != nil {
		return model.UserSettings{}, err
	}
	if resp.Settings == nil {
		return model.DefaultUserSettings(), nil
	}
	return *resp.Settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, userID string, expireReminder bool) (model.UserSettings, error) {
	var resp settingsResponse
	in := settingsRequest{UserID: userID, ExpireReminder: &expireReminder}
	if err := c.do(ctx, http.MethodPatch, "/user-settings", nil, in, &resp); err != nil {
		return model.UserSettings{}, err
	}
	if resp.Settings == nil {
		return model.UserSettings{ExpireReminder: expireReminder}, nil
	}
	return *resp.Settings, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, username, password string) (*model.User, error) {
	var resp struct {
		User *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) SignIn(ctx context.Context, username, password string) (*model.AuthSession, error) {
	var resp model.AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/token", nil, credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// CurrentUser returns the user the current token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var resp struct {
		User *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
