// Package store provides an in-memory Source implementation for tests and
// demo scenarios.
package store

import (
	"context"
	"sync"

	"github.com/warp/resale-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	singles     []engine.RawSingleItem
	lots        []engine.RawBulkLot
	allocations []engine.RawBulkAllocation
	manuals     []engine.RawManualSale
	platforms   []engine.Platform
	goals       map[goalKey]engine.MonthlyGoal
}

type goalKey struct {
	UserID string
	Year   int
	Month  int
}

func NewMemory() *Memory {
	return &Memory{
		goals: make(map[goalKey]engine.MonthlyGoal),
	}
}

// =============================================================================
// SEEDING - Writes are owned by the CRUD layer; these exist for tests/demos
// =============================================================================

func (m *Memory) AddSingleItems(items ...engine.RawSingleItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.singles = append(m.singles, items...)
}

func (m *Memory) AddBulkLots(lots ...engine.RawBulkLot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots = append(m.lots, lots...)
}

func (m *Memory) AddBulkAllocations(allocs ...engine.RawBulkAllocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocations = append(m.allocations, allocs...)
}

func (m *Memory) AddManualSales(sales ...engine.RawManualSale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manuals = append(m.manuals, sales...)
}

func (m *Memory) AddPlatforms(platforms ...engine.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platforms = append(m.platforms, platforms...)
}

// Reset drops every collection and goal. Used between demo scenario loads.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.singles = nil
	m.lots = nil
	m.allocations = nil
	m.manuals = nil
	m.platforms = nil
	m.goals = make(map[goalKey]engine.MonthlyGoal)
}

// =============================================================================
// SOURCE IMPLEMENTATION
// =============================================================================

func (m *Memory) FetchSingleItems(_ context.Context) ([]engine.RawSingleItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.RawSingleItem(nil), m.singles...), nil
}

func (m *Memory) FetchBulkLots(_ context.Context) ([]engine.RawBulkLot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.RawBulkLot(nil), m.lots...), nil
}

func (m *Memory) FetchBulkAllocations(_ context.Context) ([]engine.RawBulkAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.RawBulkAllocation(nil), m.allocations...), nil
}

func (m *Memory) FetchManualSales(_ context.Context) ([]engine.RawManualSale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.RawManualSale(nil), m.manuals...), nil
}

func (m *Memory) ListPlatforms(_ context.Context) ([]engine.Platform, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.Platform(nil), m.platforms...), nil
}

func (m *Memory) GetGoal(_ context.Context, userID string, year, month int) (*engine.MonthlyGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[goalKey{UserID: userID, Year: year, Month: month}]
	if !ok {
		return nil, nil
	}
	out := g
	return &out, nil
}

func (m *Memory) UpsertGoal(_ context.Context, goal engine.MonthlyGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goalKey{UserID: goal.UserID, Year: goal.Year, Month: goal.Month}] = goal
	return nil
}
