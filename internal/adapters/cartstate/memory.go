package cartstate

import (
	"context"
	"sync"

	"github.com/phenrril/storefront/internal/domain"
)

var _ domain.CartState = (*Memory)(nil)

// Memory is the single-process fallback used when no Redis is configured.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]domain.CartSnapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: map[string]domain.CartSnapshot{}}
}

func (m *Memory) Get(_ context.Context, sessionID string) (*domain.CartSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *Memory) Set(_ context.Context, sessionID string, snap domain.CartSnapshot) error {
	m.mu.Lock()
	m.snaps[sessionID] = snap
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.snaps, sessionID)
	m.mu.Unlock()
	return nil
}
