package goGuard

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{gate: make(chan struct{})}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestDispatcherDeliversEvents(t *testing.T) {
	sink := &countingSink{}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess})
	}
	d.Close()

	if got := sink.Count(); got != 10 {
		t.Fatalf("expected 10 delivered events, got %d", got)
	}
	if got := d.Dropped(); got != 0 {
		t.Fatalf("expected 0 dropped, got %d", got)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := newGateSink()
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 2, DropIfFull: true}, sink)

	// The worker blocks on the gate; overflow past buffer + in-flight must drop.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})
	}

	deadline := time.Now().Add(time.Second)
	for d.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if d.Dropped() == 0 {
		t.Fatal("expected events to be dropped under backpressure")
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}

	// Emitting through a nil dispatcher is a no-op, not a panic.
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops from nil dispatcher")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventAuthorizeDenied,
		Subject:   "alice",
		Success:   false,
		Error:     string(auditErrInvalidCredential),
		Metadata:  map[string]string{"reason": "expired"},
	})

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if decoded.EventType != auditEventAuthorizeDenied {
		t.Fatalf("unexpected event type %q", decoded.EventType)
	}
	if decoded.Metadata["reason"] != "expired" {
		t.Fatalf("unexpected metadata %v", decoded.Metadata)
	}
}

func TestAuditErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		want AuditErrorCode
	}{
		{nil, ""},
		{ErrMissingCredential, auditErrMissingCredential},
		{ErrInvalidCredential, auditErrInvalidCredential},
		{ErrInsufficientScope, auditErrInsufficientScope},
		{ErrScopeNotGranted, auditErrScopeNotGranted},
		{ErrRateLimited, auditErrRateLimited},
		{&RateLimitError{RetryAfter: time.Second}, auditErrRateLimited},
		{ErrUserNotFound, auditErrUserNotFound},
		{ErrStoreUnavailable, auditErrUnavailable},
		{context.Canceled, auditErrInternal},
	}
	for _, tc := range cases {
		if got := auditErrorCode(tc.err); got != tc.want {
			t.Fatalf("auditErrorCode(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}
