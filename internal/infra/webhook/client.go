package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/reminder"
)

// Client posts events to the external messaging service.
type Client struct {
	url   string
	token string
	http  *http.Client
}

func New(url, token string) *Client {
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (c *Client) SendReminder(ctx context.Context, msg reminder.Message) error {
	return c.post(ctx, "appointment.reminder", msg)
}

// Disconnect tells the messaging service to drop a session. The payload is
// the instance identifier only.
func (c *Client) Disconnect(ctx context.Context, instance string) error {
	return c.post(ctx, "messaging.disconnect", map[string]string{"instance": instance})
}

func (c *Client) post(ctx context.Context, event string, data any) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s: status %d", event, resp.StatusCode)
	}
	return nil
}
