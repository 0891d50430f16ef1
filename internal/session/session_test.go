package session

import (
	"context"
	"errors"
	"testing"
)

func TestNewIdentity(t *testing.T) {
	id := NewIdentity()
	if len(id.UserID) != 8 || len(id.SessionID) != 8 {
		t.Errorf("Expected short 8-char ids, got %q/%q", id.UserID, id.SessionID)
	}
	if id.UserID == id.SessionID {
		t.Error("User and session ids must be independent")
	}

	other := NewIdentity()
	if other.UserID == id.UserID && other.SessionID == id.SessionID {
		t.Error("Two identities should not collide")
	}
}

func TestContextRoundTrip(t *testing.T) {
	id := NewIdentity()
	ctx := NewContext(context.Background(), id)

	got1, err := FromContext(ctx)
	if err != nil {
		t.Fatalf("FromContext failed: %v", err)
	}
	got2, _ := FromContext(ctx)
	if got1 != id || got2 != id {
		t.Error("Repeated reads must return the same identity")
	}
}

func TestFromContext_Uninitialized(t *testing.T) {
	_, err := FromContext(context.Background())
	if !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("Expected ErrNoIdentity, got %v", err)
	}
}

func TestOverride(t *testing.T) {
	id := NewIdentity()
	resumed := id.WithSessionID("server-issued")
	if resumed.SessionID != "server-issued" {
		t.Errorf("Expected override, got %q", resumed.SessionID)
	}
	if resumed.UserID != id.UserID {
		t.Error("Overriding session id must not touch user id")
	}

	ctx := NewContext(context.Background(), id)
	ctx = NewContext(ctx, resumed)
	got, _ := FromContext(ctx)
	if got.SessionID != "server-issued" {
		t.Error("Last write must win")
	}
}
