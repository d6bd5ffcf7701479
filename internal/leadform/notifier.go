package leadform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wolfman30/linkpage/internal/leads"
)

const defaultNotifyTimeout = 15 * time.Second

// HTTPNotifier posts submissions to the notification endpoint as JSON.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPNotifier creates a notifier for endpoint. A nil client gets a
// default one with a bounded timeout.
func NewHTTPNotifier(endpoint string, client *http.Client) *HTTPNotifier {
	if client == nil {
		client = &http.Client{Timeout: defaultNotifyTimeout}
	}
	return &HTTPNotifier{endpoint: endpoint, client: client}
}

// Notify implements Notifier.
func (n *HTTPNotifier) Notify(ctx context.Context, sub leads.Submission) error {
	_, err := n.Send(ctx, sub)
	return err
}

// Send posts sub and decodes the endpoint's success body.
func (n *HTTPNotifier) Send(ctx context.Context, sub leads.Submission) (*leads.SendResponse, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("leadform: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("leadform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leadform: post submission: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("leadform: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp leads.ErrorResponse
		_ = json.Unmarshal(raw, &errResp)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	var out leads.SendResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("leadform: decode response: %w", err)
		}
	}
	return &out, nil
}

var _ Notifier = (*HTTPNotifier)(nil)
