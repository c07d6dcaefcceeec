package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/internal/compiler"
	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// HookFactory builds the lifecycle hooks attached to a session's wizard.
// It is called each time the wizard is rebuilt.
type HookFactory func(sessionID string, flow domain.Flow) domain.LifecycleHooks

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.SessionStore
	loader ports.FlowLoader
	parser *compiler.Parser

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	flowMu sync.RWMutex
	flows  map[string]domain.Flow

	hooks  []HookFactory
	newID  func() string
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the wizards it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks attaches lifecycle hooks to every session's wizard.
// Multiple factories are merged in registration order.
func WithHooks(factory HookFactory) Option {
	return func(m *Manager) {
		m.hooks = append(m.hooks, factory)
	}
}

// WithIDGenerator overrides session id allocation (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Session Manager over the given store and flow source.
func NewManager(store ports.SessionStore, loader ports.FlowLoader, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		loader: loader,
		parser: compiler.NewParser(),
		locks:  make(map[string]*lockEntry),
		flows:  make(map[string]domain.Flow),
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Flows lists the flows that sessions can be started for.
func (m *Manager) Flows() ([]string, error) {
	return m.loader.ListFlows()
}

// Flow loads and parses a flow definition. Parsed flows are cached by name.
func (m *Manager) Flow(name string) (domain.Flow, error) {
	m.flowMu.RLock()
	flow, ok := m.flows[name]
	m.flowMu.RUnlock()
	if ok {
		return flow, nil
	}

	raw, err := m.loader.GetFlow(name)
	if err != nil {
		return domain.Flow{}, err
	}
	flow, err = m.parser.Parse(raw)
	if err != nil {
		return domain.Flow{}, fmt.Errorf("flow %s: %w", name, err)
	}
	if flow.Name == "" {
		flow.Name = name
	}

	m.flowMu.Lock()
	m.flows[name] = flow
	m.flowMu.Unlock()
	return flow, nil
}

// Start creates a session for the named flow and returns its id and first view.
func (m *Manager) Start(ctx context.Context, flowName string) (string, domain.View, error) {
	flow, err := m.Flow(flowName)
	if err != nil {
		return "", domain.View{}, err
	}

	id := m.newID()
	var view domain.View
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		w, err := m.build(id, flow, nil)
		if err != nil {
			return err
		}
		view = w.View()
		return m.store.Save(ctx, id, w.Snapshot())
	})
	if err != nil {
		return "", domain.View{}, err
	}

	m.logger.Info("session started", "session_id", id, "flow", flow.Name)
	return id, view, nil
}

// WithSession rebuilds the session's wizard, runs fn and saves the resulting
// snapshot. The snapshot is saved even when fn fails, so buffer edits that
// preceded a rejected advance are kept.
func (m *Manager) WithSession(ctx context.Context, sessionID string, fn func(*onboard.Wizard) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		flow, err := m.Flow(snap.Flow)
		if err != nil {
			return err
		}
		w, err := m.build(sessionID, flow, &snap)
		if err != nil {
			return err
		}

		fnErr := fn(w)
		if err := m.store.Save(ctx, sessionID, w.Snapshot()); err != nil {
			return errors.Join(fnErr, fmt.Errorf("failed to save session: %w", err))
		}
		return fnErr
	})
}

// View returns the current view of a session.
func (m *Manager) View(ctx context.Context, sessionID string) (domain.View, error) {
	var view domain.View
	err := m.WithSession(ctx, sessionID, func(w *onboard.Wizard) error {
		view = w.View()
		return nil
	})
	return view, err
}

// Dispatch applies an input event to a session. The returned view reflects the
// session after the event, including the inline error of a rejected advance.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, ev domain.InputEvent) (domain.View, domain.Event, error) {
	var (
		view domain.View
		out  domain.Event
	)
	err := m.WithSession(ctx, sessionID, func(w *onboard.Wizard) error {
		var err error
		out, err = w.Dispatch(ev)
		view = w.View()
		return err
	})
	if err != nil {
		m.logger.Debug("session event rejected", "session_id", sessionID, "event", ev.Type, "err", err)
	}
	return view, out, err
}

// Delete removes a session. Unknown sessions return domain.ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	_, err := m.Remove(ctx, sessionID)
	return err
}

// Remove deletes a session and returns the snapshot it held. Loading and
// deleting share one session lock, so the snapshot is the final state.
func (m *Manager) Remove(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		if snap, err = m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		m.logger.Info("session deleted", "session_id", sessionID, "status", snap.Status)
		return m.store.Delete(ctx, sessionID)
	})
	return snap, err
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

func (m *Manager) build(sessionID string, flow domain.Flow, snap *domain.Snapshot) (*onboard.Wizard, error) {
	opts := []onboard.Option{
		onboard.WithLogger(m.logger.With("session_id", sessionID)),
	}
	for _, factory := range m.hooks {
		opts = append(opts, onboard.WithLifecycleHooks(factory(sessionID, flow)))
	}
	if snap != nil {
		opts = append(opts, onboard.WithSnapshot(*snap))
	}
	return onboard.NewFromFlow(flow, opts...)
}
