package rates

import (
	"testing"

	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestResolveTierRate(t *testing.T) {
	tiers := []types.Tier{
		{Rate: types.Ptr(0.05), Max: types.Ptr(300.0), Unit: types.TierUnitKWh},
		{Rate: types.Ptr(0.08), Unit: types.TierUnitKWh},
	}

	t.Run("boundary", func(t *testing.T) {
		assert.Equal(t, 0.05, ResolveTierRate(tiers, types.TierUnitKWh, 0))
		assert.Equal(t, 0.05, ResolveTierRate(tiers, types.TierUnitKWh, 299))
		assert.Equal(t, 0.05, ResolveTierRate(tiers, types.TierUnitKWh, 300))
		assert.Equal(t, 0.08, ResolveTierRate(tiers, types.TierUnitKWh, 300.0001))
		assert.Equal(t, 0.08, ResolveTierRate(tiers, types.TierUnitKWh, 1e9))
	})

	t.Run("adjustments", func(t *testing.T) {
		assert.InDelta(t, 0.08, ResolveTierRate([]types.Tier{{Rate: types.Ptr(0.1), Adj: types.Ptr(-0.02)}}, types.TierUnitKWh, 1), 1e-12)
		assert.InDelta(t, 0.02, ResolveTierRate([]types.Tier{{Adj: types.Ptr(0.02)}}, types.TierUnitKWh, 1), 1e-12)
		assert.Equal(t, 0.0, ResolveTierRate([]types.Tier{{}}, types.TierUnitKWh, 1))
	})

	t.Run("no tiers", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveTierRate(nil, types.TierUnitKWh, 10))
		assert.Equal(t, 0.0, ResolveTierRate([]types.Tier{}, types.TierUnitKWh, 10))
	})

	t.Run("all tiers exceeded", func(t *testing.T) {
		bounded := []types.Tier{{Rate: types.Ptr(0.1), Max: types.Ptr(10.0)}}
		assert.Equal(t, 0.0, ResolveTierRate(bounded, types.TierUnitKWh, 11))
	})

	t.Run("unit mismatch", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveTierRate(tiers, types.TierUnitKWhDaily, 1))
		daily := []types.Tier{
			{Rate: types.Ptr(0.3), Max: types.Ptr(5.0), Unit: types.TierUnitKWhDaily},
			{Rate: types.Ptr(0.1), Unit: types.TierUnitKWh},
		}
		assert.Equal(t, 0.1, ResolveTierRate(daily, types.TierUnitKWh, 1))
		assert.Equal(t, 0.3, ResolveTierRate(daily, types.TierUnitKWhDaily, 1))
	})

	t.Run("default unit", func(t *testing.T) {
		assert.Equal(t, 0.2, ResolveTierRate([]types.Tier{{Rate: types.Ptr(0.2)}}, types.TierUnitKWh, 1))
	})
}

func TestTieredDemandCost(t *testing.T) {
	tiers := []types.Tier{
		{Rate: types.Ptr(10.0), Max: types.Ptr(5.0)},
		{Rate: types.Ptr(15.0)},
	}
	assert.InDelta(t, 5*10+3*15, TieredDemandCost(tiers, 8), 1e-9)
	assert.InDelta(t, 30, TieredDemandCost(tiers, 3), 1e-9)
	assert.InDelta(t, 50, TieredDemandCost(tiers, 5), 1e-9)
	assert.Equal(t, 0.0, TieredDemandCost(tiers, 0))
	assert.Equal(t, 0.0, TieredDemandCost(tiers, -1))
	assert.Equal(t, 0.0, TieredDemandCost(nil, 8))

	// the adjustment is added once per tier, not per kW
	withAdj := []types.Tier{{Rate: types.Ptr(10.0), Adj: types.Ptr(1.0)}}
	assert.InDelta(t, 41, TieredDemandCost(withAdj, 4), 1e-9)

	// only tiers that receive demand add their adjustment
	tieredAdj := []types.Tier{
		{Rate: types.Ptr(10.0), Adj: types.Ptr(1.0), Max: types.Ptr(5.0)},
		{Rate: types.Ptr(15.0), Adj: types.Ptr(2.0)},
	}
	assert.InDelta(t, 3*10+1, TieredDemandCost(tieredAdj, 3), 1e-9)
	assert.InDelta(t, 5*10+1+3*15+2, TieredDemandCost(tieredAdj, 8), 1e-9)

	// demand above the last bounded tier isn't billed
	bounded := []types.Tier{{Rate: types.Ptr(10.0), Max: types.Ptr(5.0)}}
	assert.InDelta(t, 50, TieredDemandCost(bounded, 8), 1e-9)
}

func TestCoincidentDemandCost(t *testing.T) {
	tiers := []types.Tier{
		{Rate: types.Ptr(2.0), Max: types.Ptr(1.0)},
		{Rate: types.Ptr(3.0)},
	}
	// every tier is charged the whole peak
	assert.InDelta(t, 20, CoincidentDemandCost(tiers, 4), 1e-9)

	withAdj := []types.Tier{{Rate: types.Ptr(2.0), Adj: types.Ptr(0.5)}, {Adj: types.Ptr(1.0)}}
	assert.InDelta(t, 8+0.5+1, CoincidentDemandCost(withAdj, 4), 1e-9)
	assert.Equal(t, 0.0, CoincidentDemandCost(nil, 4))
}

func TestPeriodTiers(t *testing.T) {
	structure := [][]types.Tier{{{Rate: types.Ptr(0.1)}}}
	assert.Len(t, periodTiers(structure, 0), 1)
	assert.Nil(t, periodTiers(structure, 1))
	assert.Nil(t, periodTiers(structure, -1))
	assert.Nil(t, periodTiers(nil, 0))
}
