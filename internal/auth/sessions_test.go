package auth

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour)
	admin := AdminIdentity{ID: 1, Username: "root"}

	token := store.Create(admin)
	got, ok := store.Lookup(token)
	if !ok {
		t.Fatalf("expected session for fresh token")
	}
	if got != admin {
		t.Fatalf("expected %+v, got %+v", admin, got)
	}

	store.Delete(token)
	if _, ok := store.Lookup(token); ok {
		t.Fatalf("expected session gone after delete")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	token := store.Create(AdminIdentity{ID: 1, Username: "root"})

	current = current.Add(2 * time.Minute)
	if _, ok := store.Lookup(token); ok {
		t.Fatalf("expected expired session to be rejected")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("failed to generate salt: %v", err)
	}
	hash := HashPassword("secret", salt)

	if !VerifyPassword("secret", salt, hash) {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatalf("expected mismatched password to fail")
	}
}
