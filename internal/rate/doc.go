// Package rate implements fixed-window request counters backed by Redis.
//
// One counter exists per (identifier, window). The first increment of a window
// sets the key's TTL to the window length; the TTL is never refreshed after
// that, so the counter expires on its own when the window elapses. Admission is
// decided by comparing the value returned by the atomic INCR against the
// limit, which makes over-admission under concurrency impossible: N racing
// calls observe N distinct counts.
//
// Fixed windows trade strictness for cost. A client can burst up to twice the
// limit across a window boundary; callers that cannot accept that need a
// sliding-window log, which this package deliberately does not provide.
package rate
