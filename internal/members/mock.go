package members

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Well-known ids seeded into the mock directory for development.
const (
	SeedManagerID   = "00000000-0000-0000-0000-000000000001"
	SeedEmployee1ID = "00000000-0000-0000-0000-000000000002"
	SeedEmployee2ID = "00000000-0000-0000-0000-000000000003"
)

// MockDirectory is an in-memory stand-in for the external Members API,
// used in development and tests. It satisfies Directory so the core
// stays ignorant of where the directory actually lives.
type MockDirectory struct {
	mu    sync.RWMutex
	store map[string]*Member
}

func NewMockDirectory() *MockDirectory {
	d := &MockDirectory{store: make(map[string]*Member)}
	d.put(&Member{ID: SeedManagerID, Name: "Alice Manager", Role: "MANAGER"})
	d.put(&Member{ID: SeedEmployee1ID, Name: "Bob Employee", Role: "EMPLOYEE"})
	d.put(&Member{ID: SeedEmployee2ID, Name: "Carol Employee", Role: "EMPLOYEE"})
	return d
}

func (d *MockDirectory) put(m *Member) {
	d.store[m.ID] = m
}

func (d *MockDirectory) Lookup(_ context.Context, externalID string) (*Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.store[externalID]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (d *MockDirectory) Create(_ context.Context, name, role string) (*Member, error) {
	m := &Member{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(name),
		Role: role,
	}
	d.mu.Lock()
	d.store[m.ID] = m
	d.mu.Unlock()
	return m, nil
}
