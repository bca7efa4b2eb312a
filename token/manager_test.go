package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		Secret:    testSecret,
		AccessTTL: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestIssueAndParseRoundtrip(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue("alice", []string{"me", "items"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if len(claims.Scopes) != 2 || claims.Scopes[0] != "me" || claims.Scopes[1] != "items" {
		t.Fatalf("unexpected scopes: %v", claims.Scopes)
	}
	if claims.ID == "" {
		t.Fatal("expected a token ID to be set")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected exp and iat claims to be set")
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Issue("", nil); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestParseExpiredToken(t *testing.T) {
	short, err := NewManager(Config{
		Secret:    testSecret,
		AccessTTL: time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	tok, err := short.Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	_, err = newTestManager(t).Parse(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := newTestManager(t)

	foreign, err := NewManager(Config{
		Secret:    []byte("ffffffffffffffffffffffffffffffff"),
		AccessTTL: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	tok, err := foreign.Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Parse(tok)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	m := newTestManager(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = m.Parse(signed)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for HS384 token, got %v", err)
	}
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = m.Parse(unsigned)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for alg=none token, got %v", err)
	}
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	m := newTestManager(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "alice",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = m.Parse(signed)
	if err == nil {
		t.Fatal("expected error for token without exp claim")
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	m := newTestManager(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = m.Parse(signed)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for token without subject, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	cases := []string{
		"",
		"garbage",
		"a.b",
		"a.b.c",
		strings.Repeat("x", 4096),
	}
	for _, input := range cases {
		if _, err := m.Parse(input); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %q, got %v", input, err)
		}
	}
}

func TestParseRejectsTamperedPayload(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue("alice", []string{"me"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact JWS with 3 segments, got %d", len(parts))
	}

	// Flip one character in the payload; the signature no longer matches.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = m.Parse(tampered)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for tampered token, got %v", err)
	}
}

func TestIssuerEnforced(t *testing.T) {
	withIssuer, err := NewManager(Config{
		Secret:    testSecret,
		AccessTTL: 30 * time.Minute,
		Issuer:    "goguard-test",
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	tok, err := newTestManager(t).Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := withIssuer.Parse(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for token missing issuer, got %v", err)
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{Secret: testSecret}); err == nil {
		t.Fatal("expected error for zero TTL")
	}
	if _, err := NewManager(Config{Secret: []byte("short"), AccessTTL: time.Minute}); err == nil {
		t.Fatal("expected error for short secret")
	}
}
