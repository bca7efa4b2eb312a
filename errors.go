package goGuard

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingCredential is an exported constant or variable used by the guard engine.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential is an exported constant or variable used by the guard engine.
	//
	// It deliberately conflates bad signature, malformed token, expired token, and
	// unknown or inactive subject. The distinct cause is available only through the
	// audit stream.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrInsufficientScope is an exported constant or variable used by the guard engine.
	ErrInsufficientScope = errors.New("insufficient scope")
	// ErrScopeNotGranted is an exported constant or variable used by the guard engine.
	ErrScopeNotGranted = errors.New("requested scope not granted to user")
	// ErrRateLimited is an exported constant or variable used by the guard engine.
	ErrRateLimited = errors.New("rate limited")
	// ErrStoreUnavailable is an exported constant or variable used by the guard engine.
	ErrStoreUnavailable = errors.New("backing store unavailable")
	// ErrUserNotFound is an exported constant or variable used by the guard engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrEngineNotReady is an exported constant or variable used by the guard engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// RateLimitError is returned by [Engine.Throttle] when a counter is over quota.
// It matches [ErrRateLimited] under [errors.Is] and carries the time remaining
// until the window resets, for Retry-After style responses.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// Is reports whether target is [ErrRateLimited].
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
