package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ws "github.com/coder/websocket"
)

// Event is a change notification pushed by the backend.
type Event struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// Watch subscribes to change notifications and calls fn for each one until
// ctx is cancelled or the connection drops. A cancelled ctx returns nil.
func (c *Client) Watch(ctx context.Context, fn func(Event)) error {
	h := http.Header{}
	c.authorize(h)

	conn, _, err := ws.Dial(ctx, c.cfg.BaseURL+"/ws", &ws.DialOptions{HTTPHeader: h})
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || ws.CloseStatus(err) == ws.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read websocket: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		fn(ev)
	}
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
