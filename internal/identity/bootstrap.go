package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// EnsureAdmin creates the bootstrap admin account if it does not exist.
// Idempotent: an existing account with the same email is left untouched.
func EnsureAdmin(ctx context.Context, users store.UserStore, auth *UserAuth, email, password string, log *slog.Logger) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		log.Debug("bootstrap admin already exists", "email", email)
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &store.User{
		ID:           store.NewID(),
		Email:        email,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         store.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Info("created bootstrap admin", "email", email, "id", admin.ID)
	return nil
}
