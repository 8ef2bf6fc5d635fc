package main

import (
	"testing"
	"time"

	"github.com/raterudder/rateexplorer/pkg/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplePlans(t *testing.T) {
	seen := map[string]bool{}
	profile := make([]float64, 24)
	for i := range profile {
		profile[i] = 1
	}
	for _, p := range samplePlans() {
		require.NoError(t, p.Validate(), p.Label)
		assert.False(t, seen[p.Label], "duplicate label %s", p.Label)
		seen[p.Label] = true

		bill := rates.CalculateMonthlyBill(p, profile, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
		require.NotNil(t, bill.Cost, p.Label)
		assert.Greater(t, bill.Cost.Total, 0.0, p.Label)
	}
}

func TestSchedule(t *testing.T) {
	s := schedule(14, 19, true)
	assert.Equal(t, 1, s[6][14])
	assert.Equal(t, 0, s[6][19])
	assert.Equal(t, 0, s[0][14])
}
