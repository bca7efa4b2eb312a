package internaldefs

import (
	goGuard "github.com/HariprasadPoojary/goGuard"
)

// CounterDef defines a public type used by goGuard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goGuard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the guard engine.
var CounterDefs = []CounterDef{
	{ID: goGuard.MetricLoginSuccess, Name: "goguard_login_success_total", Help: "Successful login attempts."},
	{ID: goGuard.MetricLoginFailure, Name: "goguard_login_failure_total", Help: "Failed login attempts."},
	{ID: goGuard.MetricScopeGrantRejected, Name: "goguard_scope_grant_rejected_total", Help: "Login attempts requesting scopes outside the user's grant."},
	{ID: goGuard.MetricAuthorizeSuccess, Name: "goguard_authorize_success_total", Help: "Successful authorization checks."},
	{ID: goGuard.MetricAuthorizeDenied, Name: "goguard_authorize_denied_total", Help: "Authorization checks denied for missing or defective credentials."},
	{ID: goGuard.MetricScopeDenied, Name: "goguard_scope_denied_total", Help: "Authorization checks denied for insufficient scope."},
	{ID: goGuard.MetricRateLimitHit, Name: "goguard_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
	{ID: goGuard.MetricRateLimitFailOpen, Name: "goguard_rate_limit_fail_open_total", Help: "Requests admitted because the limiter backend was unreachable."},
	{ID: goGuard.MetricRateLimitFailClosed, Name: "goguard_rate_limit_fail_closed_total", Help: "Requests rejected because the limiter backend was unreachable."},
	{ID: goGuard.MetricStoreUnavailable, Name: "goguard_store_unavailable_total", Help: "Operations that failed because a backend store was unreachable."},
}

// HistogramDefs is an exported constant or variable used by the guard engine.
var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricAuthorizeLatency, Name: "goguard_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the guard engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the guard engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
