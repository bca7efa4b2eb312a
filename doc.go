// Package goGuard provides a token-based authentication and authorization engine
// with scope-checked JWT access tokens and Redis-backed distributed rate limiting.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (Identity, Decision, MetricsSnapshot, etc.). All internal coordination — counter key
// layout, fixed-window accounting — lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, counter key formats, or encoding details in its public API.
//   - Own user persistence: credential lookup goes through the caller-supplied [UserStore].
//   - Import any sub-package that re-imports goGuard (no import cycles).
//
// # Performance contract
//
// Authorize is the hot path. It performs one signature verification, one [UserStore]
// lookup, and a structural scope check. Allow performs exactly one atomic Redis
// increment per call; the external store, not this package, provides the atomicity
// that keeps concurrent admission at or below the configured limit.
package goGuard
