package storage

import (
	"context"
	"errors"

	"github.com/raterudder/rateexplorer/pkg/types"
)

var (
	ErrRatePlanNotFound = errors.New("rate plan not found")
)

// Database persists rate plans.
type Database interface {
	// GetRatePlan returns ErrRatePlanNotFound if no plan has the label.
	GetRatePlan(ctx context.Context, label string) (*types.RatePlan, error)
	// ListRatePlans returns every plan ordered by label. An empty utility
	// lists the plans of every utility.
	ListRatePlans(ctx context.Context, utility string) ([]*types.RatePlan, error)
	UpsertRatePlan(ctx context.Context, plan *types.RatePlan) error
	DeleteRatePlan(ctx context.Context, label string) error

	// Lifecycle
	Close() error
}
