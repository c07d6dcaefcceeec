package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/onboard/pkg/domain"
)

type entry struct {
	snapshot domain.Snapshot
	savedAt  time.Time
}

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL expires sessions that have not been saved for longer than ttl.
// Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save keeps a copy of the snapshot. Answers and candidates are immutable values,
// so a struct copy is enough to isolate the caller from the store.
func (s *Store) Save(ctx context.Context, sessionID string, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	snapshot.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = entry{snapshot: snapshot, savedAt: now}
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.RLock()
	e, ok := s.data[sessionID]
	s.mu.RUnlock()

	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	if s.expired(e) {
		s.mu.Lock()
		delete(s.data, sessionID)
		s.mu.Unlock()
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return e.snapshot, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns live sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if s.expired(e) {
			continue
		}
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.savedAt) > s.ttl
}
