package rates

import (
	"context"
	"sort"
	"time"

	"github.com/raterudder/rateexplorer/pkg/types"
	"golang.org/x/sync/errgroup"
)

// CompareMonthlyBills calculates the monthly bill for each plan using the same
// usage profile. Plans are simulated concurrently with at most concurrency at
// a time (unlimited if concurrency <= 0). The results are in the same order as
// plans.
func CompareMonthlyBills(ctx context.Context, plans []*types.RatePlan, profile types.UsageProfile, monthStart time.Time, concurrency int) ([]types.PlanBill, error) {
	results := make([]types.PlanBill, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, plan := range plans {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var pb types.PlanBill
			if plan != nil {
				pb.Label = plan.Label
				pb.Name = plan.Name
				pb.Utility = plan.Utility
			}
			pb.Bill = CalculateMonthlyBill(plan, profile, monthStart)
			results[i] = pb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SortByTotal sorts bills from cheapest to most expensive. Bills without a
// cost are placed last.
func SortByTotal(bills []types.PlanBill) {
	sort.SliceStable(bills, func(i, j int) bool {
		ci, cj := bills[i].Bill.Cost, bills[j].Bill.Cost
		if ci == nil || cj == nil {
			return ci != nil && cj == nil
		}
		return ci.Total < cj.Total
	})
}
