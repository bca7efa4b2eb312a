// Package middleware exposes HTTP middleware adapters for bearer-token
// authorization and per-route rate limiting built on top of goGuard.Engine.
//
// # Guards
//
//   - [Guard] — requires a valid bearer token with the listed scopes.
//   - [Optional] — attaches an identity when a token is present, anonymous otherwise.
//   - [RateLimit] — per-user or per-IP fixed-window throttling for a route.
//
// Each guard reads the Authorization header, calls Engine.Authorize, and injects
// the resulting identity into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// authorization logic itself — all decisions are delegated to the Engine.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Authorize.
package middleware
