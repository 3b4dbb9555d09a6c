package security

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()

	codec, err := NewTokenCodec("test-secret-value", "citypulse", ttl)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return codec
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	if _, err := NewTokenCodec("", "citypulse", time.Hour); err == nil {
		t.Fatal("NewTokenCodec accepted an empty secret")
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("user-123", "ADMIN", true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if !claims.Admin {
		t.Fatal("admin flag was not carried")
	}
	if claims.Subject != "user-123" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	codec.ttl = -time.Minute

	token, err := codec.Issue("user-123", "CITIZEN", false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := codec.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	other, err := NewTokenCodec("a-different-secret", "citypulse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}

	token, err := other.Issue("user-123", "CITIZEN", false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := codec.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Parse(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", tok, err)
		}
	}
}
