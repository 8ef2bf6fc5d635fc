package rates

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// HourlyKWh converts a profile of kW samples into the energy used during each
// hour of the day. Each hour is the average of the sample at the start of the
// hour and the sample at the start of the next hour, wrapping at midnight.
// Missing samples are skipped so a short profile still produces usage for the
// hours it covers.
func HourlyKWh(profile types.UsageProfile) [24]float64 {
	var hourly [24]float64
	for h := range hourly {
		var sum float64
		var n int
		for _, i := range []int{h, (h + 1) % 24} {
			if i < len(profile) {
				sum += profile[i]
				n++
			}
		}
		if n > 0 {
			hourly[h] = sum / float64(n)
		}
	}
	return hourly
}

// CalculateMonthlyBill simulates every hour of the month starting at
// monthStart using the same daily usage profile each day.
//
// If profile is nil the returned Bill has neither Usage nor Cost. If plan is
// nil only Usage is returned. Missing schedules, periods or tiers contribute
// nothing to the cost but usage is still metered.
func CalculateMonthlyBill(plan *types.RatePlan, profile types.UsageProfile, monthStart time.Time) types.Bill {
	days := DaysInMonth(monthStart)
	bill := types.Bill{
		MonthStart: monthStart,
		Days:       days,
	}
	if profile == nil {
		return bill
	}

	hourly := HourlyKWh(profile)

	if plan == nil {
		var daily, peak float64
		for _, kwh := range hourly {
			daily += kwh
			peak = math.Max(peak, kwh)
		}
		bill.Usage = &types.UsageTotals{
			KWh:    daily * float64(days),
			PeakKW: peak,
		}
		return bill
	}

	var usage types.UsageTotals
	var cost types.CostBreakdown
	fixedCharge := types.Float(plan.FixedChargeFirstMeter)

	switch plan.FixedChargeUnits {
	case types.ChargeUnitsPerMonth:
		cost.FixedCharge = fixedCharge
	case types.ChargeUnitsPerYear:
		cost.FixedCharge = fixedCharge / 12
	}

	// peak demand per period for TOU and coincident demand charges
	demandPeaks := make(map[int]float64)
	coincidentPeaks := make(map[int]float64)

	monthEnd := monthStart.AddDate(0, 1, 0)
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		if plan.FixedChargeUnits == types.ChargeUnitsPerDay {
			cost.FixedCharge += fixedCharge
		}

		energySched := ScheduleFor(plan.EnergyWeekdaySched, plan.EnergyWeekendSched, day)
		demandSched := ScheduleFor(plan.DemandWeekdaySched, plan.DemandWeekendSched, day)

		var dayKWh float64
		for hour, kwh := range hourly {
			// usage is metered whether or not there's a price for it
			usage.KWh += kwh
			dayKWh += kwh
			usage.PeakKW = math.Max(usage.PeakKW, kwh)

			if period, ok := energySched.Period(day.Month(), hour); ok {
				rate := energyRate(periodTiers(plan.EnergyRateTiers, period), usage.KWh, dayKWh)
				cost.EnergyCharge += kwh * rate
			}
			if period, ok := demandSched.Period(day.Month(), hour); ok {
				demandPeaks[period] = math.Max(demandPeaks[period], kwh)
			}
			if period, ok := plan.CoincidentSched.Period(day.Month(), hour); ok {
				coincidentPeaks[period] = math.Max(coincidentPeaks[period], kwh)
			}
		}
	}

	// sort the periods so the floating point sums are deterministic
	for _, period := range slices.Sorted(maps.Keys(demandPeaks)) {
		cost.DemandCharge += TieredDemandCost(periodTiers(plan.DemandRateTiers, period), demandPeaks[period])
	}
	for _, period := range slices.Sorted(maps.Keys(coincidentPeaks)) {
		cost.CoincidentDemandCharge += CoincidentDemandCost(periodTiers(plan.CoincidentRateTiers, period), coincidentPeaks[period])
	}
	cost.FlatDemandCharge = TieredDemandCost(
		periodTiers(plan.FlatDemandTiers, flatDemandPeriod(plan, monthStart.Month())),
		usage.PeakKW,
	)

	subtotal := cost.FixedCharge + cost.EnergyCharge + cost.DemandCharge + cost.FlatDemandCharge + cost.CoincidentDemandCharge
	if floor := minimumCharge(plan, days); subtotal < floor {
		cost.MinChargeAdjustment = floor - subtotal
	}
	cost.Total = subtotal + cost.MinChargeAdjustment

	bill.Usage = &usage
	bill.Cost = &cost
	return bill
}

// flatDemandPeriod returns the flat demand period for month. Plans without a
// month mapping use period 0 all year.
func flatDemandPeriod(plan *types.RatePlan, month time.Month) int {
	m := int(month) - 1
	if m < len(plan.FlatDemandMonths) {
		return plan.FlatDemandMonths[m]
	}
	return 0
}

// minimumCharge returns the least the month can cost. A per-day minimum is
// multiplied by the days in the month and compared against the whole month
// rather than flooring each day individually.
func minimumCharge(plan *types.RatePlan, days int) float64 {
	minCharge := types.Float(plan.MinCharge)
	switch plan.MinChargeUnits {
	case types.ChargeUnitsPerMonth:
		return minCharge
	case types.ChargeUnitsPerDay:
		return minCharge * float64(days)
	case types.ChargeUnitsPerYear:
		return minCharge / 12
	}
	return 0
}
