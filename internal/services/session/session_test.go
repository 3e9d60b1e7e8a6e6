package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	a, err := DeriveKey("sawasdee")
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if len(a) != keyLength {
		t.Errorf("key length = %d, want %d", len(a), keyLength)
	}
	again, _ := DeriveKey("sawasdee")
	if !bytes.Equal(a, again) {
		t.Error("DeriveKey() not deterministic")
	}
	other, _ := DeriveKey("khop khun")
	if bytes.Equal(a, other) {
		t.Error("different secrets produced the same key")
	}
	if _, err := DeriveKey(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestManager_IssueVerify(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewManager("sawasdee", WithClock(fixedClock(issuedAt)))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	token, err := m.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a compact JWS", token)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Issuer != Issuer || claims.Subject != subject {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Equal(issuedAt.Add(DefaultTTL)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, issuedAt.Add(DefaultTTL))
	}
}

func TestManager_VerifyRejects(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m, _ := NewManager("sawasdee", WithClock(fixedClock(issuedAt)), WithTTL(time.Hour))
	token, err := m.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	later, _ := NewManager("sawasdee", WithClock(fixedClock(issuedAt.Add(2*time.Hour))))
	otherKey, _ := NewManager("khop khun", WithClock(fixedClock(issuedAt)), WithTTL(time.Hour))
	foreign, err := otherKey.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Split(foreign, ".")[2]

	tests := []struct {
		name    string
		manager *Manager
		token   string
	}{
		{"empty", m, ""},
		{"legacy literal", m, "authenticated"},
		{"expired", later, token},
		{"other key", otherKey, token},
		{"signature swapped", m, tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.manager.Verify(tt.token)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Verify() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestManager_TTL(t *testing.T) {
	t.Parallel()
	m, _ := NewManager("s", WithTTL(-time.Minute))
	if m.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want default for non-positive ttl", m.TTL())
	}
	m, _ = NewManager("s", WithTTL(time.Hour))
	if m.TTL() != time.Hour {
		t.Errorf("TTL() = %v", m.TTL())
	}
}
