//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"testing"
	"time"

	goGuard "github.com/HariprasadPoojary/goGuard"
	"github.com/HariprasadPoojary/goGuard/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	users map[string]goGuard.UserRecord
}

func (s *memoryStore) GetUserByUsername(_ context.Context, username string) (goGuard.UserRecord, error) {
	u, ok := s.users[username]
	if !ok {
		return goGuard.UserRecord{}, goGuard.ErrUserNotFound
	}
	return u, nil
}

func newIntegrationEngine(t *testing.T) (*goGuard.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hasher, err := password.NewHasher(password.Config{Cost: 4})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := hasher.Hash("correct-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cfg := goGuard.DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4
	cfg.RateLimit.FailurePolicy = goGuard.FailClosed

	engine, err := goGuard.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(&memoryStore{
			users: map[string]goGuard.UserRecord{
				"alice": {
					Username:     "alice",
					PasswordHash: hash,
					Active:       true,
					Scopes:       []string{"me", "items"},
				},
			},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func TestFullFlowLoginAuthorizeRateLimit(t *testing.T) {
	engine, mr := newIntegrationEngine(t)
	ctx := context.Background()

	tok, err := engine.Login(ctx, "alice", "correct-password-123", []string{"items"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	identity, err := engine.Authorize(ctx, tok, "items")
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if identity.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", identity.Subject)
	}

	identifier := engine.Identifier(ctx, tok, "items")

	for i := 0; i < 3; i++ {
		if err := engine.Throttle(ctx, identifier, 3, time.Minute); err != nil {
			t.Fatalf("request %d: Throttle failed: %v", i+1, err)
		}
	}

	err = engine.Throttle(ctx, identifier, 3, time.Minute)
	if !errors.Is(err, goGuard.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	if err := engine.Throttle(ctx, identifier, 3, time.Minute); err != nil {
		t.Fatalf("Throttle after window reset failed: %v", err)
	}
}
