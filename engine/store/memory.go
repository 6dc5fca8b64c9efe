// Package store provides ContractStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/suncoast/lot-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	contracts map[int]engine.Contract
	nextID    int
}

func NewMemory() *Memory {
	return &Memory{
		contracts: make(map[int]engine.Contract),
		nextID:    1,
	}
}

var _ engine.ContractStore = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, c engine.Contract) (engine.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextID
	m.nextID++
	m.contracts[c.ID] = cloneContract(c)
	return c, nil
}

func (m *Memory) Get(_ context.Context, id int) (engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contracts[id]
	if !ok {
		return engine.Contract{}, &engine.NotFoundError{ContractID: id}
	}
	return cloneContract(c), nil
}

func (m *Memory) List(_ context.Context) ([]engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.contracts))
	for id := range m.contracts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]engine.Contract, 0, len(ids))
	for _, id := range ids {
		result = append(result, cloneContract(m.contracts[id]))
	}
	return result, nil
}

func (m *Memory) Replace(_ context.Context, c engine.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.contracts[c.ID]
	if !ok {
		return &engine.NotFoundError{ContractID: c.ID}
	}
	// Whole-record edits never rewrite the financial or audit history.
	c.Payments = existing.Payments
	c.AuditLog = existing.AuditLog
	m.contracts[c.ID] = cloneContract(c)
	return nil
}

func (m *Memory) AppendPayment(_ context.Context, id int, p engine.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contracts[id]
	if !ok {
		return &engine.NotFoundError{ContractID: id}
	}
	c.Payments = append(c.Payments, p)
	m.contracts[id] = c
	return nil
}

func (m *Memory) AppendAudit(_ context.Context, id int, entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contracts[id]
	if !ok {
		return &engine.NotFoundError{ContractID: id}
	}
	c.AuditLog = append(c.AuditLog, entry)
	m.contracts[id] = c
	return nil
}

func (m *Memory) RecordNoticeSent(_ context.Context, id int, sent engine.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contracts[id]
	if !ok {
		return &engine.NotFoundError{ContractID: id}
	}
	c.NoticeSentDate = sent
	m.contracts[id] = c
	return nil
}

// cloneContract copies slice-backed fields so callers hold true snapshots.
func cloneContract(c engine.Contract) engine.Contract {
	c.Payments = append([]engine.Payment(nil), c.Payments...)
	c.AuditLog = append([]string(nil), c.AuditLog...)
	c.Notes = append([]string(nil), c.Notes...)
	return c
}
