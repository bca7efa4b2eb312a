package goGuard

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventAuthorizeSuccess   = "authorize_success"
	auditEventAuthorizeDenied    = "authorize_denied"
	auditEventScopeDenied        = "authorize_scope_denied"
	auditEventRateLimitTriggered = "rate_limit_triggered"
	auditEventRateLimitFailOpen  = "rate_limit_fail_open"
	auditEventStoreUnavailable   = "store_unavailable"
)

// AuditErrorCode defines a public type used by goGuard APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrMissingCredential AuditErrorCode = "missing_credential"
	auditErrInvalidCredential AuditErrorCode = "invalid_credential"
	auditErrInsufficientScope AuditErrorCode = "insufficient_scope"
	auditErrScopeNotGranted   AuditErrorCode = "scope_not_granted"
	auditErrRateLimited       AuditErrorCode = "rate_limited"
	auditErrUserNotFound      AuditErrorCode = "user_not_found"
	auditErrUnavailable       AuditErrorCode = "backend_unavailable"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subject string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Subject:   subject,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return auditErrMissingCredential
	case errors.Is(err, ErrInvalidCredential):
		return auditErrInvalidCredential
	case errors.Is(err, ErrInsufficientScope):
		return auditErrInsufficientScope
	case errors.Is(err, ErrScopeNotGranted):
		return auditErrScopeNotGranted
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
