// Package token issues and validates the compact signed access tokens used by
// the goGuard engine.
//
// Tokens are standard three-segment JWS (header.payload.signature, base64url)
// signed with HS256 over a server-held symmetric secret, so external tooling
// can inspect — not forge — the payload. The signature is verified before any
// claim is read, and expiry is a hard boundary: no leeway window is applied.
package token
