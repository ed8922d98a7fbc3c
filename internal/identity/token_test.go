package identity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

var tokenClock = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newIssuer(secret string, ttl time.Duration) *identity.TokenIssuer {
	return identity.NewTokenIssuer(secret, ttl).WithClock(func() time.Time { return tokenClock })
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newIssuer("secret", time.Hour)

	token, err := issuer.Issue(&store.User{ID: "user-1", Role: store.RoleHR})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	p, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if p.UserID != "user-1" {
		t.Errorf("userID = %q, want user-1", p.UserID)
	}
	if p.Role != store.RoleHR {
		t.Errorf("role = %q, want hr", p.Role)
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := newIssuer("secret", time.Hour)

	token, err := issuer.Issue(&store.User{ID: "user-1", Role: store.RoleUser})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	issuer.WithClock(func() time.Time { return tokenClock.Add(2 * time.Hour) })
	if _, err := issuer.Verify(token); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := newIssuer("secret-a", time.Hour).Issue(&store.User{ID: "user-1", Role: store.RoleUser})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := newIssuer("secret-b", time.Hour).Verify(token); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	issuer := newIssuer("secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, identity.ErrInvalidToken) {
			t.Errorf("token %q: got %v, want ErrInvalidToken", token, err)
		}
	}
}
