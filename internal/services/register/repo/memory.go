package repo

import (
	"context"
	"sync"
	"time"

	"rolelink/internal/services/register/domain"
)

// Memory is a process-local session store for tests and single-node runs
type Memory struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewMemory constructs an empty in-memory store
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]domain.Session), now: time.Now}
}

// Save implements domain.SessionPort
func (m *Memory) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

// Get implements domain.SessionPort
func (m *Memory) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.ExpiresAt.IsZero() && !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil, nil
	}
	out := s
	return &out, nil
}

// Delete implements domain.SessionPort
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
