package usage

import (
	"math"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// minimumLoadKW is the least any estimated hour can draw.
const minimumLoadKW = 0.2

// estimatedMonthDays is the month length EstimateMonthlyKWh assumes.
const estimatedMonthDays = 30

var baseLoad = map[types.DwellingType][24]float64{
	types.DwellingHouse: {
		0.8, 0.7, 0.6, 0.6, 0.6, 0.7,
		1.2, 1.8, 1.4, 1.0, 0.9, 0.9,
		0.9, 0.9, 1.0, 1.2, 1.5, 2.0,
		2.5, 2.8, 2.2, 1.8, 1.4, 1.0,
	},
	types.DwellingTownhouse: {
		0.6, 0.5, 0.5, 0.5, 0.5, 0.5,
		0.9, 1.4, 1.1, 0.8, 0.7, 0.7,
		0.7, 0.7, 0.8, 1.0, 1.2, 1.6,
		2.0, 2.2, 1.8, 1.4, 1.1, 0.8,
	},
	types.DwellingApartment: {
		0.4, 0.4, 0.3, 0.3, 0.3, 0.4,
		0.7, 1.0, 0.8, 0.6, 0.5, 0.5,
		0.5, 0.5, 0.6, 0.7, 0.9, 1.2,
		1.5, 1.6, 1.4, 1.1, 0.8, 0.5,
	},
}

// electric heating load, peaking in the morning and evening
var heatingLoad = map[types.DwellingType][24]float64{
	types.DwellingHouse: {
		2.0, 2.0, 2.2, 2.2, 2.5, 3.0,
		3.5, 3.0, 2.0, 1.5, 1.2, 1.0,
		1.0, 1.0, 1.2, 1.5, 2.0, 2.5,
		3.0, 3.2, 3.0, 2.8, 2.5, 2.2,
	},
	types.DwellingTownhouse: {
		1.4, 1.4, 1.5, 1.5, 1.8, 2.1,
		2.4, 2.1, 1.4, 1.0, 0.8, 0.7,
		0.7, 0.7, 0.8, 1.0, 1.4, 1.8,
		2.1, 2.2, 2.1, 2.0, 1.8, 1.5,
	},
	types.DwellingApartment: {
		0.8, 0.8, 0.9, 0.9, 1.0, 1.2,
		1.4, 1.2, 0.8, 0.6, 0.5, 0.4,
		0.4, 0.4, 0.5, 0.6, 0.8, 1.0,
		1.2, 1.3, 1.2, 1.1, 1.0, 0.9,
	},
}

// air conditioning load, peaking in the afternoon
var coolingLoad = map[types.DwellingType][24]float64{
	types.DwellingHouse: {
		0.5, 0.4, 0.4, 0.4, 0.4, 0.5,
		0.8, 1.2, 1.8, 2.5, 3.0, 3.5,
		4.0, 4.5, 5.0, 5.0, 4.5, 4.0,
		3.5, 3.0, 2.5, 1.8, 1.2, 0.8,
	},
	types.DwellingTownhouse: {
		0.4, 0.3, 0.3, 0.3, 0.3, 0.4,
		0.6, 0.9, 1.3, 1.8, 2.1, 2.4,
		2.8, 3.2, 3.5, 3.5, 3.2, 2.8,
		2.4, 2.1, 1.8, 1.3, 0.9, 0.6,
	},
	types.DwellingApartment: {
		0.2, 0.2, 0.2, 0.2, 0.2, 0.2,
		0.4, 0.6, 0.8, 1.1, 1.3, 1.5,
		1.7, 1.9, 2.1, 2.1, 1.9, 1.7,
		1.5, 1.3, 1.0, 0.8, 0.5, 0.3,
	},
}

// load moved off electricity by gas cooking, water heating and drying
var gasApplianceReduction = map[types.DwellingType][24]float64{
	types.DwellingHouse: {
		0.1, 0.1, 0.1, 0.1, 0.1, 0.2,
		0.4, 0.5, 0.3, 0.2, 0.2, 0.3,
		0.4, 0.3, 0.2, 0.2, 0.3, 0.5,
		0.6, 0.5, 0.3, 0.2, 0.1, 0.1,
	},
	types.DwellingTownhouse: {
		0.08, 0.08, 0.08, 0.08, 0.08, 0.15,
		0.3, 0.4, 0.25, 0.15, 0.15, 0.25,
		0.3, 0.25, 0.15, 0.15, 0.25, 0.4,
		0.5, 0.4, 0.25, 0.15, 0.08, 0.08,
	},
	types.DwellingApartment: {
		0.05, 0.05, 0.05, 0.05, 0.05, 0.1,
		0.2, 0.25, 0.15, 0.1, 0.1, 0.15,
		0.2, 0.15, 0.1, 0.1, 0.15, 0.25,
		0.3, 0.25, 0.15, 0.1, 0.05, 0.05,
	},
}

// a 7.6 kW level 2 charger plugged in from 10pm until early morning
var evCharging = [24]float64{
	7.6, 7.6, 7.6, 7.6, 4.0, 0,
	0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 7.6, 7.6,
}

type climateMultiplier struct {
	winter float64
	summer float64
}

var climateMultipliers = map[types.ClimateZone]climateMultiplier{
	types.ClimateMidwest:   {winter: 1.3, summer: 1.1},
	types.ClimateNortheast: {winter: 1.2, summer: 0.9},
	types.ClimateSouth:     {winter: 0.6, summer: 1.4},
	types.ClimateWest:      {winter: 0.8, summer: 1.0},
}

// Estimate builds a 24 hour profile for the dwelling in the given season.
// Homes with gas heat still run air conditioning in the summer.
func Estimate(d types.DwellingProfile, season types.Season) (types.UsageProfile, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if _, err := types.ParseSeason(string(season)); err != nil {
		return nil, err
	}
	climate := climateMultipliers[d.Climate]

	profile := make(types.UsageProfile, 24)
	for hour := range profile {
		kw := baseLoad[d.DwellingType][hour]
		switch {
		case season == types.SeasonSummer:
			kw += coolingLoad[d.DwellingType][hour] * climate.summer
		case !d.HasGasHeat:
			kw += heatingLoad[d.DwellingType][hour] * climate.winter
		}
		if d.HasGasAppliances {
			kw -= gasApplianceReduction[d.DwellingType][hour]
		}
		if d.HasEV {
			kw += evCharging[hour]
		}
		profile[hour] = math.Max(minimumLoadKW, kw)
	}
	return profile, nil
}

// EstimateMonthlyKWh approximates a month of usage for the dwelling as 30
// days of its estimated profile.
func EstimateMonthlyKWh(d types.DwellingProfile, season types.Season) (float64, error) {
	profile, err := Estimate(d, season)
	if err != nil {
		return 0, err
	}
	return profile.DailyKWh() * estimatedMonthDays, nil
}

// ScaleToMonthlyKWh returns a copy of profile scaled so that repeating it for
// days days uses monthlyKWh in total. A profile with no usage is returned
// unscaled.
func ScaleToMonthlyKWh(profile types.UsageProfile, monthlyKWh float64, days int) types.UsageProfile {
	scaled := make(types.UsageProfile, len(profile))
	copy(scaled, profile)
	total := profile.DailyKWh() * float64(days)
	if total <= 0 || days <= 0 {
		return scaled
	}
	factor := monthlyKWh / total
	for i := range scaled {
		scaled[i] *= factor
	}
	return scaled
}
