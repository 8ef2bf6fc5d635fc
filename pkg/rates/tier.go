package rates

import (
	"math"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// ResolveTierRate returns the effective rate of the first tier measured in
// unit whose Max has not been exceeded by cumulative usage. Tiers are assumed
// to be sorted ascending by Max. If no tier matches, the rate is 0.
func ResolveTierRate(tiers []types.Tier, unit types.TierUnit, cumulative float64) float64 {
	for _, t := range tiers {
		if t.UsageUnit() != unit {
			continue
		}
		if t.Max == nil || *t.Max >= cumulative {
			return t.EffectiveRate()
		}
	}
	return 0
}

// energyRate resolves the marginal energy rate for a period given the usage
// so far this month and this day.
func energyRate(tiers []types.Tier, monthKWh, dayKWh float64) float64 {
	if len(tiers) == 0 {
		return 0
	}
	switch unit := tiers[0].UsageUnit(); unit {
	case types.TierUnitKWh:
		return ResolveTierRate(tiers, unit, monthKWh)
	case types.TierUnitKWhDaily:
		return ResolveTierRate(tiers, unit, dayKWh)
	}
	// kWh/kW tiers scale with billing demand which isn't modeled
	return 0
}

// TieredDemandCost fills the tiers from the bottom up with peakKW. Each tier
// that receives demand costs its rate per kW plus its adjustment once.
func TieredDemandCost(tiers []types.Tier, peakKW float64) float64 {
	if len(tiers) == 0 || peakKW <= 0 {
		return 0
	}

	var cost, prevMax float64
	remaining := peakKW
	for _, t := range tiers {
		tierMax := math.Inf(1)
		if t.Max != nil {
			tierMax = *t.Max
		}
		inTier := math.Min(remaining, tierMax-prevMax)
		if inTier > 0 {
			cost += inTier*types.Float(t.Rate) + types.Float(t.Adj)
			remaining -= inTier
		}
		prevMax = tierMax
		if remaining <= 0 {
			break
		}
	}
	return cost
}

// CoincidentDemandCost prices peakKW at every tier of the period, adding each
// tier's adjustment once. Coincident tiers are not filled bottom up.
func CoincidentDemandCost(tiers []types.Tier, peakKW float64) float64 {
	var cost float64
	for _, t := range tiers {
		cost += peakKW*types.Float(t.Rate) + types.Float(t.Adj)
	}
	return cost
}

// periodTiers returns the tiers for period or nil if the structure doesn't
// define that period.
func periodTiers(structure [][]types.Tier, period int) []types.Tier {
	if period < 0 || period >= len(structure) {
		return nil
	}
	return structure[period]
}
