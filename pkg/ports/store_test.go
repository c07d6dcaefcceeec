package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/ports"
)

// MockStore is a map-backed SessionStore used to check the contract suite itself.
type MockStore struct {
	data map[string]domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.Snapshot),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, snapshot domain.Snapshot) error {
	m.data[sessionID] = snapshot
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	snap, ok := m.data[sessionID]
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return snap, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewMockStore())
}
