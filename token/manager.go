package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalid covers bad signatures, malformed or truncated input, wrong
	// algorithms, and tokens missing a subject.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for a correctly signed token past its expiry.
	// Kept distinct from [ErrInvalid] for operator logs; callers must present
	// both identically to external clients.
	ErrExpired = errors.New("token expired")
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
}

// AccessClaims is the payload carried by an access token: the subject
// username, the granted scope strings, and the registered time claims.
type AccessClaims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Manager defines a public type used by goGuard APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.Secret) < 32 {
		return nil, errors.New("hs256 secret must be at least 32 bytes")
	}

	return &Manager{config: cfg}, nil
}

// Issue creates a signed access token for subject carrying the given scopes.
// The caller is responsible for having validated the scope set against the
// subject's grant; Issue encodes whatever it is handed.
func (m *Manager) Issue(subject string, scopes []string) (string, error) {
	if subject == "" {
		return "", errors.New("subject required")
	}

	now := time.Now()
	claims := AccessClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.config.Secret)
}

// Parse verifies the signature and time bounds of tokenStr and returns its
// claims. The signature check happens before any field is interpreted;
// unverified payloads are never trusted. Expiry is evaluated with zero
// leeway.
func (m *Manager) Parse(tokenStr string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := tok.Claims.(*AccessClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}
