// Package store provides in-memory implementations of the generic stores.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]generic.ScenarioRecord
	leads     []generic.Lead
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: make(map[string]generic.ScenarioRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SaveScenario inserts or replaces a scenario. Replacing bumps the version
// and keeps the original creation time.
func (m *Memory) SaveScenario(_ context.Context, rec generic.ScenarioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.scenarios[rec.ID]; ok {
		rec.Version = existing.Version + 1
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.Version == 0 {
			rec.Version = 1
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.scenarios[rec.ID] = rec
	return nil
}

func (m *Memory) GetScenario(_ context.Context, id string) (*generic.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.scenarios[id]
	if !ok {
		return nil, generic.ErrScenarioNotFound
	}
	return &rec, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]generic.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]generic.ScenarioRecord, 0, len(m.scenarios))
	for _, rec := range m.scenarios {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) DeleteScenario(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[id]; !ok {
		return generic.ErrScenarioNotFound
	}
	delete(m.scenarios, id)
	return nil
}

// SaveLead appends a lead.
func (m *Memory) SaveLead(_ context.Context, lead generic.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = m.now()
	}
	m.leads = append(m.leads, lead)
	return nil
}

// ListLeads returns the newest leads first. limit <= 0 means all.
func (m *Memory) ListLeads(_ context.Context, limit int) ([]generic.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]generic.Lead, 0, len(m.leads))
	for i := len(m.leads) - 1; i >= 0; i-- {
		out = append(out, m.leads[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
