package goGuard

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.RateLimit.FailurePolicy = FailClosed
	return cfg
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Token.Secret = []byte("too short")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestValidateRejectsBadTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Token.AccessTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero TTL")
	}

	cfg = validConfig()
	cfg.Token.AccessTTL = 25 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for TTL over 24h")
	}
}

func TestValidateRejectsBadCost(t *testing.T) {
	cfg := validConfig()
	cfg.Password.Cost = 3
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cost below minimum")
	}

	cfg = validConfig()
	cfg.Password.Cost = 32
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cost above maximum")
	}
}

func TestValidateRejectsEmptyKeyPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.KeyPrefix = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty key prefix")
	}
}

func TestValidateRejectsUnsetFailurePolicy(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.FailurePolicy = FailUnset
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when failure policy is left unset")
	}
}

func TestValidateRejectsBadAuditBuffer(t *testing.T) {
	cfg := validConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero audit buffer with audit enabled")
	}
}

func TestCloneConfigIsolatesSecret(t *testing.T) {
	cfg := validConfig()
	clone := cloneConfig(cfg)

	clone.Token.Secret[0] ^= 0xFF
	if cfg.Token.Secret[0] == clone.Token.Secret[0] {
		t.Fatal("expected cloned secret to be a separate allocation")
	}
}
