package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlan(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		plan, err := loadPlan("testdata/flat.json")
		require.NoError(t, err)
		assert.Equal(t, "flat-json", plan.Label)
		assert.Equal(t, types.ChargeUnitsPerMonth, plan.FixedChargeUnits)
		assert.InDelta(t, 10, types.Float(plan.FixedChargeFirstMeter), 1e-9)
		assert.True(t, plan.HasEnergySchedule())
	})

	t.Run("yaml", func(t *testing.T) {
		plan, err := loadPlan("testdata/tiered.yaml")
		require.NoError(t, err)
		assert.Equal(t, "tiered-yaml", plan.Label)
		require.Len(t, plan.EnergyRateTiers, 1)
		require.Len(t, plan.EnergyRateTiers[0], 2)
		assert.InDelta(t, 500, types.Float(plan.EnergyRateTiers[0][0].Max), 1e-9)
		assert.Nil(t, plan.EnergyRateTiers[0][1].Max)
		assert.Len(t, plan.EnergyWeekdaySched, 12)
	})

	t.Run("toml", func(t *testing.T) {
		plan, err := loadPlan("testdata/daily.toml")
		require.NoError(t, err)
		// no label in the file so the file name is used
		assert.Equal(t, "daily", plan.Label)
		assert.Equal(t, "Daily TOML", plan.Name)
		assert.Equal(t, types.ChargeUnitsPerDay, plan.FixedChargeUnits)
		assert.InDelta(t, 0.12, plan.EnergyRateTiers[0][0].EffectiveRate(), 1e-9)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := loadPlan("testdata/plan.txt")
		assert.ErrorContains(t, err, "unsupported file format")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := loadPlan("testdata/nope.json")
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := loadPlan("testdata")
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("invalid shape", func(t *testing.T) {
		_, err := loadPlan("testdata/broken.json")
		assert.ErrorContains(t, err, "12 months")
	})
}

func TestLoadProfile(t *testing.T) {
	profile, err := loadProfile("testdata/profile.json")
	require.NoError(t, err)
	assert.Len(t, profile, 24)
	assert.InDelta(t, 24, profile.DailyKWh(), 1e-9)

	_, err = loadProfile("testdata/short_profile.json")
	assert.ErrorContains(t, err, "24 hourly samples")

	// non-finite samples would turn every total into NaN
	_, err = loadProfile("testdata/nan_profile.yaml")
	assert.ErrorContains(t, err, "hour 5")

	_, err = loadProfile("testdata/inf_profile.toml")
	assert.ErrorContains(t, err, "hour 0")
}

func TestResolveProfile(t *testing.T) {
	jul := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("region", func(t *testing.T) {
		profile, err := resolveProfile(options{region: string(types.RegionTexas)}, jul)
		require.NoError(t, err)
		assert.Len(t, profile, 24)
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := resolveProfile(options{region: "Atlantis"}, jul)
		assert.Error(t, err)
	})

	t.Run("unknown season", func(t *testing.T) {
		_, err := resolveProfile(options{region: string(types.RegionTexas), season: "spring"}, jul)
		assert.Error(t, err)
	})

	t.Run("dwelling", func(t *testing.T) {
		profile, err := resolveProfile(options{dwelling: "apartment", climate: "west"}, jul)
		require.NoError(t, err)
		assert.Len(t, profile, 24)
	})

	t.Run("unknown dwelling", func(t *testing.T) {
		_, err := resolveProfile(options{dwelling: "castle", climate: "west"}, jul)
		assert.Error(t, err)
	})

	t.Run("scaled", func(t *testing.T) {
		profile, err := resolveProfile(options{profileFile: "testdata/profile.json", monthlyKWh: 1488}, jul)
		require.NoError(t, err)
		// 31 days at 48 kWh a day
		assert.InDelta(t, 48, profile.DailyKWh(), 1e-9)
	})

	t.Run("negative monthly kwh", func(t *testing.T) {
		_, err := resolveProfile(options{profileFile: "testdata/profile.json", monthlyKWh: -1}, jul)
		assert.Error(t, err)
	})
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommandJSON(t *testing.T) {
	stdout, _, err := executeRoot(t,
		"--month", "2024-07",
		"--profile", "testdata/profile.json",
		"--json",
		"testdata/tiered.yaml", "testdata/flat.json", "testdata/daily.toml",
	)
	require.NoError(t, err)

	var bills []types.PlanBill
	require.NoError(t, json.Unmarshal([]byte(stdout), &bills))
	require.Len(t, bills, 3)

	// sorted cheapest first
	assert.Equal(t, "flat-json", bills[0].Label)
	assert.InDelta(t, 744*0.1+10, bills[0].Bill.Cost.Total, 1e-6)
	assert.Equal(t, "tiered-yaml", bills[1].Label)
	assert.InDelta(t, 500*0.1+244*0.2, bills[1].Bill.Cost.Total, 1e-6)
	assert.Equal(t, "daily", bills[2].Label)
	assert.InDelta(t, 744*0.12+31*0.5, bills[2].Bill.Cost.Total, 1e-6)

	for _, pb := range bills {
		assert.Equal(t, 31, pb.Bill.Days)
		assert.InDelta(t, 744, pb.Bill.Usage.KWh, 1e-6)
	}
}

func TestRootCommandTable(t *testing.T) {
	stdout, _, err := executeRoot(t,
		"--month", "2024-07",
		"--region", string(types.RegionNewEngland),
		"testdata/flat.json",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Flat JSON (flat-json)")
	assert.Contains(t, stdout, "Test Electric")
}

func TestRootCommandWarnings(t *testing.T) {
	_, stderr, err := executeRoot(t,
		"--month", "2024-07",
		"--profile", "testdata/profile.json",
		"--json",
		"testdata/flat.json",
	)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	stdout, stderr, err := executeRoot(t,
		"--month", "2024-07",
		"--profile", "testdata/profile.json",
		"--json",
		"testdata/fixed_only.json",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "fixed-only has no energy schedule")
	assert.Contains(t, stderr, "fixed-only is not in effect for 2024-07")

	// the plan is still billed
	var bills []types.PlanBill
	require.NoError(t, json.Unmarshal([]byte(stdout), &bills))
	require.Len(t, bills, 1)
	assert.InDelta(t, 12, bills[0].Bill.Cost.Total, 1e-9)
}

func TestRootCommandErrors(t *testing.T) {
	t.Run("no usage source", func(t *testing.T) {
		_, _, err := executeRoot(t, "testdata/flat.json")
		assert.Error(t, err)
	})

	t.Run("two usage sources", func(t *testing.T) {
		_, _, err := executeRoot(t, "--region", "Texas", "--profile", "testdata/profile.json", "testdata/flat.json")
		assert.Error(t, err)
	})

	t.Run("no plans", func(t *testing.T) {
		_, _, err := executeRoot(t, "--region", "Texas")
		assert.Error(t, err)
	})

	t.Run("nan profile", func(t *testing.T) {
		_, _, err := executeRoot(t, "--profile", "testdata/nan_profile.yaml", "testdata/flat.json")
		assert.ErrorContains(t, err, "invalid profile")
	})

	t.Run("bad plan", func(t *testing.T) {
		_, _, err := executeRoot(t, "--region", "Texas", "testdata/broken.json")
		assert.ErrorContains(t, err, "invalid plan")
	})
}
