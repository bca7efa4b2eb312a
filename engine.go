package goGuard

import (
	"context"
	"errors"
	"time"

	"github.com/HariprasadPoojary/goGuard/internal/rate"
	"github.com/HariprasadPoojary/goGuard/password"
	"github.com/HariprasadPoojary/goGuard/token"
)

// Engine defines a public type used by goGuard APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	userStore    UserStore
	tokens       *token.Manager
	passwordHash *password.Hasher
	limiter      *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// HashPassword describes the hashpassword operation and its observable behavior.
//
// HashPassword may return an error when input validation, dependency calls, or security checks fail.
// HashPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) HashPassword(plaintext string) (string, error) {
	if e == nil || e.passwordHash == nil {
		return "", ErrEngineNotReady
	}
	return e.passwordHash.Hash(plaintext)
}

// Login describes the login operation and its observable behavior.
//
// Login verifies the username and password against the user store, checks
// that every requested scope is part of the user's grant, and issues a
// signed access token. An empty scopes slice requests the user's full grant.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, username, plaintext string, scopes []string) (string, error) {
	if e == nil || e.tokens == nil || e.passwordHash == nil {
		return "", ErrEngineNotReady
	}
	if e.userStore == nil {
		return "", ErrEngineNotReady
	}

	if plaintext == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredential, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"reason":     "empty_password",
			}
		})
		return "", ErrInvalidCredential
	}

	user, err := e.userStore.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredential, func() map[string]string {
				return map[string]string{
					"identifier": username,
					"reason":     "user_not_found",
				}
			})
			return "", ErrInvalidCredential
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditEventStoreUnavailable, false, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"operation":  "login",
			}
		})
		return "", ErrStoreUnavailable
	}

	if !e.passwordHash.Verify(plaintext, user.PasswordHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.Username, ErrInvalidCredential, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"reason":     "password_mismatch",
			}
		})
		return "", ErrInvalidCredential
	}
	if !user.Active {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.Username, ErrInvalidCredential, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"reason":     "user_inactive",
			}
		})
		return "", ErrInvalidCredential
	}

	granted := user.Scopes
	if len(scopes) > 0 {
		for _, s := range scopes {
			if !containsScope(user.Scopes, s) {
				e.metricInc(MetricScopeGrantRejected)
				e.emitAudit(ctx, auditEventScopeDenied, false, user.Username, ErrScopeNotGranted, func() map[string]string {
					return map[string]string{
						"identifier": username,
						"scope":      s,
					}
				})
				return "", ErrScopeNotGranted
			}
		}
		granted = scopes
	}

	tokenStr, err := e.tokens.Issue(user.Username, granted)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.Username, err, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"reason":     "token_issue",
			}
		})
		return "", err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.Username, nil, func() map[string]string {
		return map[string]string{
			"identifier": username,
		}
	})
	return tokenStr, nil
}

// Authorize describes the authorize operation and its observable behavior.
//
// Authorize validates the bearer token, re-checks the account against the
// user store, and requires every scope in required to be present in the
// token. A missing token yields ErrMissingCredential; any defect in the
// token or account yields ErrInvalidCredential; a valid token lacking a
// required scope yields ErrInsufficientScope.
//
// Authorize may return an error when input validation, dependency calls, or security checks fail.
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authorize(ctx context.Context, tokenStr string, required ...string) (*Identity, error) {
	if e == nil || e.tokens == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	if tokenStr == "" {
		e.metricInc(MetricAuthorizeDenied)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, "", ErrMissingCredential, nil)
		return nil, ErrMissingCredential
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		reason := "bad_signature"
		if errors.Is(err, token.ErrExpired) {
			reason = "expired"
		}
		e.metricInc(MetricAuthorizeDenied)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, "", ErrInvalidCredential, func() map[string]string {
			return map[string]string{
				"reason": reason,
			}
		})
		return nil, ErrInvalidCredential
	}

	user, err := e.userStore.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricAuthorizeDenied)
			e.emitAudit(ctx, auditEventAuthorizeDenied, false, claims.Subject, ErrInvalidCredential, func() map[string]string {
				return map[string]string{
					"reason": "user_not_found",
				}
			})
			return nil, ErrInvalidCredential
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditEventStoreUnavailable, false, claims.Subject, ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"operation": "authorize",
			}
		})
		return nil, ErrStoreUnavailable
	}
	if !user.Active {
		e.metricInc(MetricAuthorizeDenied)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, user.Username, ErrInvalidCredential, func() map[string]string {
			return map[string]string{
				"reason": "user_inactive",
			}
		})
		return nil, ErrInvalidCredential
	}

	for _, s := range required {
		if !containsScope(claims.Scopes, s) {
			e.metricInc(MetricScopeDenied)
			e.emitAudit(ctx, auditEventScopeDenied, false, user.Username, ErrInsufficientScope, func() map[string]string {
				return map[string]string{
					"scope": s,
				}
			})
			return nil, ErrInsufficientScope
		}
	}

	e.metricInc(MetricAuthorizeSuccess)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
	}
	e.emitAudit(ctx, auditEventAuthorizeSuccess, true, user.Username, nil, nil)

	return &Identity{
		Subject: user.Username,
		Scopes:  append([]string(nil), claims.Scopes...),
	}, nil
}

// Identifier describes the identifier operation and its observable behavior.
//
// Identifier derives a rate limit key for the caller: a per-user key when
// the token parses, otherwise a per-IP key. The IP comes from the request
// context and falls back to "unknown" when absent, so anonymous callers
// still share a bucket rather than bypassing the limit.
//
// Identifier may return an error when input validation, dependency calls, or security checks fail.
// Identifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Identifier(ctx context.Context, tokenStr, route string) string {
	if e != nil && e.tokens != nil && tokenStr != "" {
		if claims, err := e.tokens.Parse(tokenStr); err == nil {
			return rate.UserKey(claims.Subject, route)
		}
	}

	ip := clientIPFromContext(ctx)
	if ip == "" {
		ip = "unknown"
	}
	return rate.IPKey(ip, route)
}

// Allow describes the allow operation and its observable behavior.
//
// Allow admits at most times requests per identifier per window. When the
// limiter backend is unreachable the configured failure policy decides the
// outcome: FailOpen admits the request, FailClosed rejects it with the full
// window as the retry hint.
//
// Allow may return an error when input validation, dependency calls, or security checks fail.
// Allow does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Allow(ctx context.Context, identifier string, times int, window time.Duration) (Decision, error) {
	if e == nil || e.limiter == nil {
		return Decision{}, ErrEngineNotReady
	}
	if identifier == "" || times <= 0 || window <= 0 {
		return Decision{}, errors.New("invalid rate limit parameters")
	}

	decision, err := e.limiter.Allow(ctx, identifier, times, window)
	if err != nil {
		if !errors.Is(err, rate.ErrRedisUnavailable) {
			return Decision{}, err
		}

		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditEventStoreUnavailable, false, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"operation":  "rate_limit",
			}
		})

		if e.config.RateLimit.FailurePolicy == FailOpen {
			e.metricInc(MetricRateLimitFailOpen)
			e.emitAudit(ctx, auditEventRateLimitFailOpen, true, "", nil, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
				}
			})
			return Decision{Allowed: true, Remaining: times - 1}, nil
		}

		e.metricInc(MetricRateLimitFailClosed)
		return Decision{Allowed: false, RetryAfter: window}, nil
	}

	if !decision.Allowed {
		e.metricInc(MetricRateLimitHit)
		e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", ErrRateLimited, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
			}
		})
	}
	return decision, nil
}

// Throttle describes the throttle operation and its observable behavior.
//
// Throttle is the error-form of Allow: it returns nil when the request is
// admitted and a *RateLimitError carrying the retry hint when it is not.
//
// Throttle may return an error when input validation, dependency calls, or security checks fail.
// Throttle does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Throttle(ctx context.Context, identifier string, times int, window time.Duration) error {
	decision, err := e.Allow(ctx, identifier, times, window)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &RateLimitError{RetryAfter: decision.RetryAfter}
	}
	return nil
}

func containsScope(granted []string, want string) bool {
	for _, g := range granted {
		if g == want {
			return true
		}
	}
	return false
}
