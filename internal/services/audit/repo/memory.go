package repo

import (
	"context"
	"sync"

	"rolelink/internal/services/audit/domain"
)

// Memory keeps the most recent events in process. Used when no columnar
// backend is configured and in tests.
type Memory struct {
	mu     sync.Mutex
	events []domain.Event
	limit  int
}

// NewMemory constructs a bounded in-memory trail
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = 1000
	}
	return &Memory{limit: limit}
}

// Append implements the audit storage contract
func (m *Memory) Append(_ context.Context, ev domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	if len(m.events) > m.limit {
		m.events = m.events[len(m.events)-m.limit:]
	}
	return nil
}

// Recent implements the audit storage contract, newest first
func (m *Memory) Recent(_ context.Context, target string, limit int) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if target == "" || m.events[i].Target == target {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}
