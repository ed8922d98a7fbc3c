// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
)

// Config holds the server configuration.
type Config struct {
	// ListenAddr is the address to listen on.
	// Example: ":8080"
	ListenAddr string `toml:"listen_addr"`

	// Store holds persistence settings.
	Store StoreConfig `toml:"store"`

	// Auth holds authentication settings.
	Auth AuthConfig `toml:"auth"`

	// Logging holds logging settings.
	Logging LoggingConfig `toml:"logging"`

	// Notify holds invitation notification settings.
	Notify NotifyConfig `toml:"notify"`

	// RateLimit holds login rate limiting settings.
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Driver is the store driver name: "sqlite" (default) or "memory".
	Driver string `toml:"driver"`

	// DataDir is where the sqlite database file is stored.
	// Default: ".itest"
	DataDir string `toml:"data_dir"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// JWTSecret signs bearer tokens. Required.
	JWTSecret string `toml:"jwt_secret"`

	// TokenTTLMinutes is the bearer token lifetime in minutes.
	// Default: 1440 (24 hours).
	TokenTTLMinutes int `toml:"token_ttl_minutes"`

	// BcryptCost is the password hashing cost factor. Default: 12.
	BcryptCost int `toml:"bcrypt_cost"`

	// BootstrapAdmin holds admin bootstrap credentials.
	BootstrapAdmin BootstrapAdminConfig `toml:"bootstrap_admin"`
}

// BootstrapAdminConfig holds bootstrap admin credentials.
// When both fields are set and no account with the email exists, an
// admin account is created on startup.
type BootstrapAdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: info.
	Level string `toml:"level"`
}

// NotifyConfig holds invitation notification settings.
type NotifyConfig struct {
	// Driver is the notifier driver name: "noop" (default) or "webhook".
	Driver string `toml:"driver"`

	// Drivers holds per-driver configuration.
	// Example: [notify.drivers.webhook] endpoint = "https://..."
	Drivers map[string]map[string]any `toml:"drivers"`
}

// RateLimitConfig holds login rate limiting settings. The limit is
// applied per client address to the login endpoint.
type RateLimitConfig struct {
	// Enabled turns the limiter on. Default: true.
	Enabled bool `toml:"enabled"`

	// RequestsPerWindow is the maximum login attempts per window.
	// Default: 10.
	RequestsPerWindow int64 `toml:"requests_per_window"`

	// WindowSeconds is the window length in seconds. Default: 60.
	WindowSeconds int `toml:"window_seconds"`
}

// Redacted returns a string representation of the config with secrets redacted.
func (c *Config) Redacted() string {
	var sb strings.Builder
	sb.WriteString("Config{\n")
	sb.WriteString(fmt.Sprintf("  ListenAddr: %q,\n", c.ListenAddr))
	sb.WriteString("  Store: {\n")
	sb.WriteString(fmt.Sprintf("    Driver: %q,\n", c.Store.Driver))
	sb.WriteString(fmt.Sprintf("    DataDir: %q,\n", c.Store.DataDir))
	sb.WriteString("  },\n")
	sb.WriteString("  Auth: {\n")
	sb.WriteString("    JWTSecret: [REDACTED],\n")
	sb.WriteString(fmt.Sprintf("    TokenTTLMinutes: %d,\n", c.Auth.TokenTTLMinutes))
	sb.WriteString(fmt.Sprintf("    BcryptCost: %d,\n", c.Auth.BcryptCost))
	sb.WriteString("    BootstrapAdmin: {\n")
	sb.WriteString(fmt.Sprintf("      Email: %q,\n", c.Auth.BootstrapAdmin.Email))
	sb.WriteString("      Password: [REDACTED],\n")
	sb.WriteString("    },\n")
	sb.WriteString("  },\n")
	sb.WriteString("  Logging: {\n")
	sb.WriteString(fmt.Sprintf("    Level: %q,\n", c.Logging.Level))
	sb.WriteString("  },\n")
	sb.WriteString("  Notify: {\n")
	sb.WriteString(fmt.Sprintf("    Driver: %q,\n", c.Notify.Driver))
	sb.WriteString(fmt.Sprintf("    DriversCount: %d,\n", len(c.Notify.Drivers)))
	sb.WriteString("  },\n")
	sb.WriteString("  RateLimit: {\n")
	sb.WriteString(fmt.Sprintf("    Enabled: %t,\n", c.RateLimit.Enabled))
	sb.WriteString(fmt.Sprintf("    RequestsPerWindow: %d,\n", c.RateLimit.RequestsPerWindow))
	sb.WriteString(fmt.Sprintf("    WindowSeconds: %d,\n", c.RateLimit.WindowSeconds))
	sb.WriteString("  },\n")
	sb.WriteString("}")
	return sb.String()
}
