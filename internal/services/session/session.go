// Package session issues and verifies the signed token stored in the login
// cookie. Tokens are HS256 JWTs keyed from a server secret; changing the
// secret signs every browser out.
package session

import (
	"crypto/hkdf"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/benvon/thai-toolkit/internal/models"
)

const (
	// Issuer is the iss claim of every session token.
	Issuer = "thai-toolkit"
	// DefaultTTL is how long a login lasts.
	DefaultTTL = 30 * 24 * time.Hour

	subject   = "learner-session"
	keyInfo   = "thai-toolkit session signing key v1"
	keyLength = 32
)

var (
	// ErrInvalid wraps every verification failure.
	ErrInvalid = errors.New("invalid session token")

	errNoSecret = errors.New("session secret must not be empty")
)

// Manager issues and verifies session tokens
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// DeriveKey stretches secret into an HMAC-SHA256 key.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	return hkdf.Key(sha256.New, []byte(secret), nil, keyInfo, keyLength)
}

// NewManager creates a manager signing with a key derived from secret.
func NewManager(secret string, opts ...Option) (*Manager, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	m := &Manager{key: key, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	return m, nil
}

// TTL returns the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a signed token valid for TTL.
func (m *Manager) Issue() (string, error) {
	now := m.now().Truncate(time.Second)
	tok, err := jwt.NewBuilder().
		Issuer(Issuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build session token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.key))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(signed), nil
}

// Verify checks the signature, issuer, subject and expiry of token.
func (m *Manager) Verify(token string) (*models.SessionClaims, error) {
	if token == "" {
		return nil, ErrInvalid
	}
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(Issuer),
		jwt.WithSubject(subject),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &models.SessionClaims{
		Subject:   tok.Subject(),
		Issuer:    tok.Issuer(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}, nil
}
