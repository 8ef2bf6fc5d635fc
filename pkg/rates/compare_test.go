package rates

import (
	"context"
	"testing"

	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareMonthlyBills(t *testing.T) {
	cheap := flatPlan(0.1)
	cheap.Label = "cheap"
	pricey := flatPlan(0.2)
	pricey.Label = "pricey"
	pricey.Utility = "Example Electric"

	plans := []*types.RatePlan{pricey, nil, cheap}

	t.Run("keeps order", func(t *testing.T) {
		bills, err := CompareMonthlyBills(context.Background(), plans, constantProfile(1), jan2024, 2)
		require.NoError(t, err)
		require.Len(t, bills, 3)

		assert.Equal(t, "pricey", bills[0].Label)
		assert.Equal(t, "Example Electric", bills[0].Utility)
		assert.InDelta(t, 744*0.2, bills[0].Bill.Cost.Total, 1e-9)

		assert.Equal(t, "", bills[1].Label)
		assert.Nil(t, bills[1].Bill.Cost)
		require.NotNil(t, bills[1].Bill.Usage)
		assert.InDelta(t, 744, bills[1].Bill.Usage.KWh, 1e-9)

		assert.Equal(t, "cheap", bills[2].Label)
		assert.InDelta(t, 744*0.1, bills[2].Bill.Cost.Total, 1e-9)
	})

	t.Run("sort by total", func(t *testing.T) {
		bills, err := CompareMonthlyBills(context.Background(), plans, constantProfile(1), jan2024, 0)
		require.NoError(t, err)
		SortByTotal(bills)
		assert.Equal(t, "cheap", bills[0].Label)
		assert.Equal(t, "pricey", bills[1].Label)
		assert.Nil(t, bills[2].Bill.Cost)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := CompareMonthlyBills(ctx, plans, constantProfile(1), jan2024, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no plans", func(t *testing.T) {
		bills, err := CompareMonthlyBills(context.Background(), nil, constantProfile(1), jan2024, 1)
		require.NoError(t, err)
		assert.Empty(t, bills)
	})
}
