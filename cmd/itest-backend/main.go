// Package main is the entrypoint for the itest-backend server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/config"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/notify"
	"github.com/MoizAnsari7/itest-backend/internal/server"
	"github.com/MoizAnsari7/itest-backend/internal/store"

	// Register store drivers
	_ "github.com/MoizAnsari7/itest-backend/internal/store/memory"
	_ "github.com/MoizAnsari7/itest-backend/internal/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	listenAddr := flag.String("listen", "", "Listen address (overrides config)")
	storeDriver := flag.String("store-driver", "", "Store driver: sqlite or memory (overrides config)")
	storeDataDir := flag.String("store-data-dir", "", "Store data directory (overrides config)")
	jwtSecret := flag.String("jwt-secret", "", "JWT signing secret (overrides config)")
	adminEmail := flag.String("admin-email", "", "Bootstrap admin email (overrides config)")
	adminPassword := flag.String("admin-password", "", "Bootstrap admin password (overrides config)")
	loggingLevel := flag.String("logging-level", "", "Log level: debug, info, warn, error (overrides config)")
	notifyDriver := flag.String("notify-driver", "", "Notifier driver: noop or webhook (overrides config)")
	flag.Parse()

	// Bootstrap logger for config loading errors (uses default level)
	bootstrapLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPath: *configPath,
		FlagOverrides: config.FlagOverrides{
			ListenAddr:    listenAddr,
			StoreDriver:   storeDriver,
			StoreDataDir:  storeDataDir,
			JWTSecret:     jwtSecret,
			AdminEmail:    adminEmail,
			AdminPassword: adminPassword,
			LoggingLevel:  loggingLevel,
			NotifyDriver:  notifyDriver,
		},
		Logger: bootstrapLogger,
	})
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Log effective config with secrets redacted
	logger.Info("effective configuration", "config", cfg.Redacted())

	// Open the entity store
	driver, err := store.New(&store.DriverConfig{
		Driver:  cfg.Store.Driver,
		DataDir: cfg.Store.DataDir,
	})
	if err != nil {
		logger.Error("failed to create store driver", "error", err)
		os.Exit(1)
	}
	if err := driver.Init(context.Background()); err != nil {
		logger.Error("failed to initialize store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer driver.Close()
	logger.Info("store initialized", "driver", driver.Name())

	userAuth := identity.NewUserAuth(cfg.Auth.BcryptCost)
	tokens := identity.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	// Bootstrap admin account
	if err := identity.EnsureAdmin(
		context.Background(),
		driver,
		userAuth,
		cfg.Auth.BootstrapAdmin.Email,
		cfg.Auth.BootstrapAdmin.Password,
		logger,
	); err != nil {
		logger.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}

	notifier, err := notify.New(&notify.Config{
		Driver:  cfg.Notify.Driver,
		Drivers: cfg.Notify.Drivers,
	})
	if err != nil {
		logger.Error("failed to create notifier", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger, &server.Deps{
		Store:    driver,
		UserAuth: userAuth,
		Tokens:   tokens,
		Notifier: notifier,
	})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("server started, press Ctrl+C to stop")

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
