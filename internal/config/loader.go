package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// LoaderOptions controls how configuration is loaded.
type LoaderOptions struct {
	// ConfigPath is the path to a TOML config file (optional).
	// If provided but the file is missing or invalid, loading fails.
	ConfigPath string

	// FlagOverrides are CLI flag values that override config file values.
	FlagOverrides FlagOverrides

	// Logger is used for warning messages (e.g., undecoded keys).
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// FlagOverrides holds CLI flag values that override config file values.
type FlagOverrides struct {
	ListenAddr    *string
	StoreDriver   *string
	StoreDataDir  *string
	JWTSecret     *string
	AdminEmail    *string
	AdminPassword *string
	LoggingLevel  *string
	NotifyDriver  *string
}

// fileConfig mirrors Config but with pointer sections to detect presence.
type fileConfig struct {
	ListenAddr string `toml:"listen_addr"`

	Store     *StoreConfig     `toml:"store"`
	Auth      *authConfig      `toml:"auth"`
	Logging   *LoggingConfig   `toml:"logging"`
	Notify    *NotifyConfig    `toml:"notify"`
	RateLimit *rateLimitConfig `toml:"ratelimit"`
}

// authConfig holds auth settings from TOML.
type authConfig struct {
	JWTSecret       string                `toml:"jwt_secret"`
	TokenTTLMinutes int                   `toml:"token_ttl_minutes"`
	BcryptCost      int                   `toml:"bcrypt_cost"`
	BootstrapAdmin  *BootstrapAdminConfig `toml:"bootstrap_admin"`
}

// rateLimitConfig holds rate limit settings from TOML. Enabled is a
// pointer so a section that only tunes the limits keeps the default.
type rateLimitConfig struct {
	Enabled           *bool `toml:"enabled"`
	RequestsPerWindow int64 `toml:"requests_per_window"`
	WindowSeconds     int   `toml:"window_seconds"`
}

// Load loads configuration with the following precedence:
//  1. Start from defaults
//  2. Overlay TOML config file values
//  3. Overlay CLI flags
//  4. Validate
//
// If ConfigPath is provided but the file is missing, unreadable, or
// invalid TOML, Load returns an error (fail fast). Unknown TOML keys
// produce a warning but do not fail the load.
func Load(opts LoaderOptions) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Default()

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigPath, err)
		}

		var fc fileConfig
		md, err := toml.Decode(string(data), &fc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", opts.ConfigPath, err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			logger.Warn("config file contains undecoded keys", "path", opts.ConfigPath, "keys", keys)
		}

		overlayFileConfig(cfg, &fc)
	}

	overlayFlags(cfg, opts.FlagOverrides)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the base configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		Store: StoreConfig{
			Driver:  "sqlite",
			DataDir: ".itest",
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 1440,
			BcryptCost:      12,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Notify: NotifyConfig{
			Driver: "noop",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerWindow: 10,
			WindowSeconds:     60,
		},
	}
}

// overlayFileConfig applies TOML file values onto cfg.
func overlayFileConfig(cfg *Config, fc *fileConfig) {
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}

	if fc.Store != nil {
		if fc.Store.Driver != "" {
			cfg.Store.Driver = fc.Store.Driver
		}
		if fc.Store.DataDir != "" {
			cfg.Store.DataDir = fc.Store.DataDir
		}
	}

	if fc.Auth != nil {
		if fc.Auth.JWTSecret != "" {
			cfg.Auth.JWTSecret = fc.Auth.JWTSecret
		}
		if fc.Auth.TokenTTLMinutes != 0 {
			cfg.Auth.TokenTTLMinutes = fc.Auth.TokenTTLMinutes
		}
		if fc.Auth.BcryptCost != 0 {
			cfg.Auth.BcryptCost = fc.Auth.BcryptCost
		}
		if fc.Auth.BootstrapAdmin != nil {
			cfg.Auth.BootstrapAdmin.Email = fc.Auth.BootstrapAdmin.Email
			cfg.Auth.BootstrapAdmin.Password = fc.Auth.BootstrapAdmin.Password
		}
	}

	if fc.Logging != nil {
		if fc.Logging.Level != "" {
			cfg.Logging.Level = fc.Logging.Level
		}
	}

	if fc.Notify != nil {
		if fc.Notify.Driver != "" {
			cfg.Notify.Driver = fc.Notify.Driver
		}
		if len(fc.Notify.Drivers) > 0 {
			if cfg.Notify.Drivers == nil {
				cfg.Notify.Drivers = make(map[string]map[string]any)
			}
			for name, drvCfg := range fc.Notify.Drivers {
				cfg.Notify.Drivers[name] = drvCfg
			}
		}
	}

	if fc.RateLimit != nil {
		if fc.RateLimit.Enabled != nil {
			cfg.RateLimit.Enabled = *fc.RateLimit.Enabled
		}
		if fc.RateLimit.RequestsPerWindow != 0 {
			cfg.RateLimit.RequestsPerWindow = fc.RateLimit.RequestsPerWindow
		}
		if fc.RateLimit.WindowSeconds != 0 {
			cfg.RateLimit.WindowSeconds = fc.RateLimit.WindowSeconds
		}
	}
}

// overlayFlags applies CLI flag values onto cfg.
func overlayFlags(cfg *Config, f FlagOverrides) {
	if f.ListenAddr != nil && *f.ListenAddr != "" {
		cfg.ListenAddr = *f.ListenAddr
	}
	if f.StoreDriver != nil && *f.StoreDriver != "" {
		cfg.Store.Driver = *f.StoreDriver
	}
	if f.StoreDataDir != nil && *f.StoreDataDir != "" {
		cfg.Store.DataDir = *f.StoreDataDir
	}
	if f.JWTSecret != nil && *f.JWTSecret != "" {
		cfg.Auth.JWTSecret = *f.JWTSecret
	}
	if f.AdminEmail != nil && *f.AdminEmail != "" {
		cfg.Auth.BootstrapAdmin.Email = *f.AdminEmail
	}
	if f.AdminPassword != nil && *f.AdminPassword != "" {
		cfg.Auth.BootstrapAdmin.Password = *f.AdminPassword
	}
	if f.LoggingLevel != nil && *f.LoggingLevel != "" {
		cfg.Logging.Level = *f.LoggingLevel
	}
	if f.NotifyDriver != nil && *f.NotifyDriver != "" {
		cfg.Notify.Driver = *f.NotifyDriver
	}
}

// validate checks enum fields and required values.
func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case "sqlite", "memory":
		// valid
	default:
		return fmt.Errorf("invalid store.driver %q: must be one of sqlite, memory", cfg.Store.Driver)
	}

	if cfg.Store.Driver == "sqlite" && cfg.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir must be set for the sqlite driver")
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("invalid auth.token_ttl_minutes %d: must be positive", cfg.Auth.TokenTTLMinutes)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid logging.level %q: must be one of debug, info, warn, error", cfg.Logging.Level)
	}

	switch cfg.Notify.Driver {
	case "noop", "webhook":
		// valid
	default:
		return fmt.Errorf("invalid notify.driver %q: must be one of noop, webhook", cfg.Notify.Driver)
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerWindow <= 0 {
			return fmt.Errorf("invalid ratelimit.requests_per_window %d: must be positive", cfg.RateLimit.RequestsPerWindow)
		}
		if cfg.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("invalid ratelimit.window_seconds %d: must be positive", cfg.RateLimit.WindowSeconds)
		}
	}

	return nil
}
