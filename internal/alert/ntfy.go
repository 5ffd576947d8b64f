package alert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const userAgent = "SlowMovie/1.0"

// Ntfy posts alerts to an ntfy topic URL.
type Ntfy struct {
	endpoint string
	client   *http.Client
}

// NewNtfy returns a notifier for the topic URL. A nil client uses
// http.DefaultClient.
func NewNtfy(endpoint string, client *http.Client) *Ntfy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Ntfy{endpoint: endpoint, client: client}
}

func (n *Ntfy) Alert(ctx context.Context, title, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	req.Header.Set("Tags", "slowmovie,warning")
	req.Header.Set("Priority", "high")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
