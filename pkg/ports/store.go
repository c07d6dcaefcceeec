package ports

import (
	"context"

	"github.com/aretw0/onboard/pkg/domain"
)

// SessionStore keeps the position of in-progress flows between requests.
// Answers are not meant to survive a restart; implementations may be volatile.
type SessionStore interface {
	// Save stores the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snapshot domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
