package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// Memory keeps rate plans in process. It's used for local development and
// loses everything on restart.
type Memory struct {
	mu    sync.RWMutex
	plans map[string]*types.RatePlan
}

var _ Database = (*Memory)(nil)

// NewMemory returns an empty Memory database.
func NewMemory() *Memory {
	return &Memory{
		plans: make(map[string]*types.RatePlan),
	}
}

// GetRatePlan implements Database.
func (m *Memory) GetRatePlan(ctx context.Context, label string) (*types.RatePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRatePlanNotFound, label)
	}
	cp := *plan
	return &cp, nil
}

// ListRatePlans implements Database.
func (m *Memory) ListRatePlans(ctx context.Context, utility string) ([]*types.RatePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var plans []*types.RatePlan
	for _, label := range slices.Sorted(maps.Keys(m.plans)) {
		plan := m.plans[label]
		if utility != "" && plan.Utility != utility {
			continue
		}
		cp := *plan
		plans = append(plans, &cp)
	}
	return plans, nil
}

// UpsertRatePlan implements Database.
func (m *Memory) UpsertRatePlan(ctx context.Context, plan *types.RatePlan) error {
	if err := validateLabel(plan.Label); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.Label] = &cp
	return nil
}

// DeleteRatePlan implements Database.
func (m *Memory) DeleteRatePlan(ctx context.Context, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, label)
	return nil
}

// Close implements Database.
func (m *Memory) Close() error {
	return nil
}
