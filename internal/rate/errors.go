package rate

import "errors"

// ErrRedisUnavailable wraps any transport failure talking to the counter
// store. Callers decide fail-open versus fail-closed; this package only
// reports.
var ErrRedisUnavailable = errors.New("redis unavailable")
