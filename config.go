package goGuard

import (
	"errors"
	"time"
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goGuard APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// Secret is the server-held HS256 signing key. It is immutable process-wide
	// configuration: the codec receives it at Build and never reads ambient state.
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by goGuard APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Cost int // bcrypt cost factor; 0 selects the package default
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// FailurePolicy defines a public type used by goGuard APIs.
//
// FailurePolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FailurePolicy int

const (
	// FailUnset is an exported constant or variable used by the guard engine.
	// It is rejected by [Config.Validate]: the fail-open/fail-closed choice is a
	// deployment decision and must be made explicitly.
	FailUnset FailurePolicy = iota
	// FailClosed is an exported constant or variable used by the guard engine.
	FailClosed
	// FailOpen is an exported constant or variable used by the guard engine.
	FailOpen
)

// RateLimitConfig defines a public type used by goGuard APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	KeyPrefix     string
	FailurePolicy FailurePolicy
}

// AuditConfig defines a public type used by goGuard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGuard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. The token secret and the
// rate-limit failure policy have no usable defaults and must be set by the
// caller before Build.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL: 30 * time.Minute,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		RateLimit: RateLimitConfig{
			KeyPrefix: "rl",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if len(c.Token.Secret) < 32 {
		return errors.New("Token Secret must be at least 32 bytes")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}
	if c.Token.AccessTTL > 24*time.Hour {
		return errors.New("Token AccessTTL must be <= 24h")
	}

	// Password
	if c.Password.Cost < 4 || c.Password.Cost > 31 {
		return errors.New("Password Cost must be between 4 and 31")
	}

	// Rate limiting
	if c.RateLimit.KeyPrefix == "" {
		return errors.New("RateLimit KeyPrefix must not be empty")
	}
	switch c.RateLimit.FailurePolicy {
	case FailClosed, FailOpen:
		// valid
	default:
		return errors.New("RateLimit FailurePolicy must be FailClosed or FailOpen")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
