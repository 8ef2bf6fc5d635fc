package storagemock

import (
	"context"

	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetRatePlan(ctx context.Context, label string) (*types.RatePlan, error) {
	args := m.Called(ctx, label)
	plan, _ := args.Get(0).(*types.RatePlan)
	return plan, args.Error(1)
}

func (m *MockDatabase) ListRatePlans(ctx context.Context, utility string) ([]*types.RatePlan, error) {
	args := m.Called(ctx, utility)
	plans, _ := args.Get(0).([]*types.RatePlan)
	return plans, args.Error(1)
}

func (m *MockDatabase) UpsertRatePlan(ctx context.Context, plan *types.RatePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockDatabase) DeleteRatePlan(ctx context.Context, label string) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
