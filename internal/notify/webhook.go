package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookConfig configures the webhook notifier driver.
type WebhookConfig struct {
	// Endpoint receives a POST with the invitation payload.
	Endpoint string `mapstructure:"endpoint"`

	// TimeoutSeconds bounds each delivery attempt. Default: 10.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ApplyDefaults implements cfg.Setter.
func (c *WebhookConfig) ApplyDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Webhook delivers invitation notifications by POSTing JSON to a
// configured endpoint (an external mailer bridge).
type Webhook struct {
	endpoint   string
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier.
func NewWebhook(c *WebhookConfig) (*Webhook, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for webhook notifier")
	}
	return &Webhook{
		endpoint: c.Endpoint,
		httpClient: &http.Client{
			Timeout: time.Duration(c.TimeoutSeconds) * time.Second,
		},
	}, nil
}

type invitationPayload struct {
	Type    string `json:"type"`
	Email   string `json:"email"`
	Passkey string `json:"passkey"`
}

// SendInvitation implements Notifier.
func (n *Webhook) SendInvitation(ctx context.Context, email, passkey string) error {
	body, err := json.Marshal(invitationPayload{
		Type:    "test_invitation",
		Email:   email,
		Passkey: passkey,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification rejected with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
