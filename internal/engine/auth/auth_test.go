package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRequireOwner(t *testing.T) {
	if err := RequireOwner("", "alice", "mock", "m1"); !errors.As(err, &UnauthenticatedError{}) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	var fe ForbiddenError
	if err := RequireOwner("bob", "alice", "mock", "m1"); !errors.As(err, &fe) || fe.ID != "m1" {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := RequireOwner("alice", "alice", "mock", "m1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := SignToken("s3cret", "alice", time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := ParseToken("s3cret", token)
	if err != nil || sub != "alice" {
		t.Fatalf("parse: sub=%q err=%v", sub, err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatalf("expected signature failure")
	}
	expired, err := SignToken("s3cret", "alice", time.Minute, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := ParseToken("s3cret", expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	if _, err := SignToken("", "alice", 0, now); err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestNewAPIKeySecret(t *testing.T) {
	a, err := NewAPIKeySecret()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewAPIKeySecret()
	if a == b || !strings.HasPrefix(a, APIKeyPrefix) || len(a) != len(APIKeyPrefix)+48 {
		t.Fatalf("unexpected keys %q %q", a, b)
	}
}
