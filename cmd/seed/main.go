package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/raterudder/rateexplorer/pkg/urdb"
)

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	s := storage.Configured()
	u := urdb.Configured()
	importEIAID := lflag.Int("import-eiaid", 0, "Also import the residential plans of this utility from the URDB")
	lflag.Configure()

	ctx := context.Background()
	if _, err := log.ConfigureFromFlags(); err != nil {
		panic(err)
	}
	defer s.Close()

	plans := samplePlans()
	if *importEIAID > 0 {
		imported, err := u.FetchRates(ctx, int64(*importEIAID))
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to import urdb rates", slog.Any("error", err))
			os.Exit(1)
		}
		plans = append(plans, imported...)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding rate plans", slog.Int("count", len(plans)))
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "invalid sample plan", slog.String("label", p.Label), slog.Any("error", err))
			os.Exit(1)
		}
		if err := s.UpsertRatePlan(ctx, p); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed plan", slog.String("label", p.Label), slog.Any("error", err))
			os.Exit(1)
		}
	}
	log.Ctx(ctx).InfoContext(ctx, "done seeding")
}

func schedule(peakStart, peakEnd int, summerOnly bool) types.Schedule {
	s := make(types.Schedule, 12)
	for m := range s {
		s[m] = make([]int, 24)
		summer := m >= 5 && m <= 8
		for h := range s[m] {
			if h >= peakStart && h < peakEnd && (summer || !summerOnly) {
				s[m][h] = 1
			}
		}
	}
	return s
}

const sampleUtility = "Sample Electric Co"

func samplePlans() []*types.RatePlan {
	offPeak := schedule(0, 0, false)
	tou := schedule(16, 21, false)
	summerPeak := schedule(14, 19, true)

	return []*types.RatePlan{
		{
			Label:                 "sample-flat",
			Name:                  "Residential Flat",
			Utility:               sampleUtility,
			EIAID:                 99999,
			EnergyWeekdaySched:    offPeak,
			EnergyWeekendSched:    offPeak,
			EnergyRateTiers:       [][]types.Tier{{{Rate: types.Ptr(0.14), Unit: types.TierUnitKWh}}},
			FixedChargeFirstMeter: types.Ptr(12.0),
			FixedChargeUnits:      types.ChargeUnitsPerMonth,
		},
		{
			Label:              "sample-tiered",
			Name:               "Residential Tiered",
			Utility:            sampleUtility,
			EIAID:              99999,
			EnergyWeekdaySched: offPeak,
			EnergyWeekendSched: offPeak,
			EnergyRateTiers: [][]types.Tier{{
				{Rate: types.Ptr(0.11), Max: types.Ptr(500.0), Unit: types.TierUnitKWh},
				{Rate: types.Ptr(0.16), Adj: types.Ptr(0.01), Unit: types.TierUnitKWh},
			}},
			FixedChargeFirstMeter: types.Ptr(0.4),
			FixedChargeUnits:      types.ChargeUnitsPerDay,
			MinCharge:             types.Ptr(15.0),
			MinChargeUnits:        types.ChargeUnitsPerMonth,
		},
		{
			Label:              "sample-tou",
			Name:               "Residential Time of Use",
			Utility:            sampleUtility,
			EIAID:              99999,
			EnergyWeekdaySched: tou,
			EnergyWeekendSched: offPeak,
			EnergyRateTiers: [][]types.Tier{
				{{Rate: types.Ptr(0.09)}},
				{{Rate: types.Ptr(0.31)}},
			},
			FixedChargeFirstMeter: types.Ptr(10.0),
			FixedChargeUnits:      types.ChargeUnitsPerMonth,
		},
		{
			Label:              "sample-demand",
			Name:               "Residential Demand",
			Utility:            sampleUtility,
			EIAID:              99999,
			EnergyWeekdaySched: offPeak,
			EnergyWeekendSched: offPeak,
			EnergyRateTiers:    [][]types.Tier{{{Rate: types.Ptr(0.07)}}},
			DemandUnit:         "kW",
			DemandWeekdaySched: summerPeak,
			DemandWeekendSched: offPeak,
			DemandRateTiers: [][]types.Tier{
				{{Rate: types.Ptr(0.0)}},
				{{Rate: types.Ptr(8.5), Max: types.Ptr(5.0)}, {Rate: types.Ptr(12.0)}},
			},
			FlatDemandUnit:        "kW",
			FlatDemandTiers:       [][]types.Tier{{{Rate: types.Ptr(2.0)}}},
			FlatDemandMonths:      make([]int, 12),
			FixedChargeFirstMeter: types.Ptr(15.0),
			FixedChargeUnits:      types.ChargeUnitsPerMonth,
		},
	}
}
