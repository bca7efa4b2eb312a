package goGuard

import (
	"context"

	"github.com/HariprasadPoojary/goGuard/internal/rate"
)

// UserRecord is the account record returned by [UserStore]. It carries the
// credential hash, the active flag, and the set of granted scope strings.
// A record is never mutated by the engine; account management lives with the
// caller.
type UserRecord struct {
	Username     string
	PasswordHash string
	Active       bool
	Scopes       []string
}

// UserStore is the credential-lookup interface that callers must implement to
// integrate goGuard with their user database. It is the only persistence
// capability the engine requires.
//
// GetUserByUsername returns [ErrUserNotFound] when no such account exists.
// Any other error is treated as a store outage: the engine fails closed and
// the caller sees [ErrStoreUnavailable].
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (UserRecord, error)
}

// Identity is returned by [Engine.Authorize]. It contains the authenticated
// subject and the scope set carried by the presented token.
type Identity struct {
	Subject string
	Scopes  []string

	Anonymous bool
}

// AnonymousIdentity returns the identity used for requests that carry no
// credential on routes that permit anonymous access.
func AnonymousIdentity() *Identity {
	return &Identity{Anonymous: true}
}

// HasScope reports whether the identity carries the given scope. Anonymous
// identities hold no scopes.
func (i *Identity) HasScope(scope string) bool {
	if i == nil {
		return false
	}
	for _, s := range i.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Decision is the outcome of a rate-limit check.
//
// A rejected Decision is expected control flow, not a fault: RetryAfter holds
// the time remaining until the counter's window resets.
type Decision = rate.Decision
