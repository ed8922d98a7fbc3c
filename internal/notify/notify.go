// Package notify delivers invitation notifications to candidates.
//
// Delivery is best-effort: the invitation lifecycle logs failures but
// never rolls back the created invitation record.
package notify

import (
	"context"
	"fmt"

	"github.com/MoizAnsari7/itest-backend/internal/cfg"
)

// Notifier sends an invitation notification to a candidate.
type Notifier interface {
	// SendInvitation notifies the candidate at the given email address
	// that an invitation with the given passkey is waiting.
	SendInvitation(ctx context.Context, email, passkey string) error
}

// Config selects and configures a notifier driver.
type Config struct {
	// Driver is the notifier driver name: noop (default) or webhook.
	Driver string `toml:"driver"`

	// Drivers holds per-driver configuration.
	// Example: [notify.drivers.webhook] endpoint = "https://..."
	Drivers map[string]map[string]any `toml:"drivers"`
}

// New creates a notifier from the configuration.
func New(c *Config) (Notifier, error) {
	driver := c.Driver
	if driver == "" {
		driver = "noop"
	}

	switch driver {
	case "noop":
		return Noop{}, nil
	case "webhook":
		var wc WebhookConfig
		if err := cfg.Decode(c.Drivers["webhook"], &wc); err != nil {
			return nil, fmt.Errorf("failed to decode webhook notifier config: %w", err)
		}
		return NewWebhook(&wc)
	default:
		return nil, fmt.Errorf("unknown notifier driver: %s", driver)
	}
}

// Noop is a notifier that does nothing. Default when notifications are
// not configured (dev setups, tests).
type Noop struct{}

// SendInvitation implements Notifier.
func (Noop) SendInvitation(ctx context.Context, email, passkey string) error {
	return nil
}
