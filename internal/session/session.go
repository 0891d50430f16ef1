// Package session carries the ambient user/session identifier pair the
// backend uses to correlate client activity. The pair is generated once per
// process run and threaded through context.Context explicitly rather than
// held in a package-level global.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNoIdentity is returned when an identity is read from a context that
// was never initialized with one.
var ErrNoIdentity = errors.New("session: no identity in context")

// Identity is the user/session pair attached to correlated requests.
// It is not persisted; a new pair is issued per process run unless a
// caller overrides a field (e.g. adopting a server-issued session id).
type Identity struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// NewIdentity issues two independent short alphanumeric identifiers.
func NewIdentity() Identity {
	return Identity{
		UserID:    shortID(),
		SessionID: shortID(),
	}
}

// WithUserID returns a copy with the user id replaced. Last write wins.
func (id Identity) WithUserID(userID string) Identity {
	id.UserID = userID
	return id
}

// WithSessionID returns a copy with the session id replaced. The RAG flow
// uses this to resume a session id issued by the backend.
func (id Identity) WithSessionID(sessionID string) Identity {
	id.SessionID = sessionID
	return id
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

type contextKey struct{}

// NewContext attaches an identity to the context.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity, failing with ErrNoIdentity outside an
// initialized scope.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
