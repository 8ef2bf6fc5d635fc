package urdb

import (
	"fmt"
	"time"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// Tier is a tier as published by the URDB.
type Tier struct {
	Rate *float64 `json:"rate"`
	Adj  *float64 `json:"adj"`
	Max  *float64 `json:"max"`
	Unit string   `json:"unit"`
}

// Rate is a single rate as returned by the v7 utility_rates API with full
// detail. Dates are unix seconds.
type Rate struct {
	Label          string `json:"label"`
	Name           string `json:"name"`
	Utility        string `json:"utility"`
	EIAID          int64  `json:"eiaid"`
	Sector         string `json:"sector"`
	StartDate      *int64 `json:"startdate"`
	EndDate        *int64 `json:"enddate"`
	LatestUpdate   *int64 `json:"latest_update"`
	Supersedes     string `json:"supersedes"`
	EnergyComments string `json:"energycomments"`
	DemandComments string `json:"demandcomments"`

	EnergyRateStructure   [][]Tier `json:"energyratestructure"`
	EnergyWeekdaySchedule [][]int  `json:"energyweekdayschedule"`
	EnergyWeekendSchedule [][]int  `json:"energyweekendschedule"`

	DemandRateUnit        string   `json:"demandrateunit"`
	DemandRateStructure   [][]Tier `json:"demandratestructure"`
	DemandWeekdaySchedule [][]int  `json:"demandweekdayschedule"`
	DemandWeekendSchedule [][]int  `json:"demandweekendschedule"`

	FlatDemandUnit      string   `json:"flatdemandunit"`
	FlatDemandStructure [][]Tier `json:"flatdemandstructure"`
	FlatDemandMonths    []int    `json:"flatdemandmonths"`

	CoincidentRateUnit      string   `json:"coincidentrateunit"`
	CoincidentRateStructure [][]Tier `json:"coincidentratestructure"`
	CoincidentRateSchedule  [][]int  `json:"coincidentrateschedule"`

	FixedChargeFirstMeter *float64 `json:"fixedchargefirstmeter"`
	FixedChargeUnits      string   `json:"fixedchargeunits"`
	MinCharge             *float64 `json:"mincharge"`
	MinChargeUnits        string   `json:"minchargeunits"`
}

// ConvertRate converts a URDB rate into a validated RatePlan.
func ConvertRate(r Rate) (*types.RatePlan, error) {
	if r.Label == "" {
		return nil, fmt.Errorf("rate is missing a label")
	}
	if r.Sector != "" && r.Sector != "Residential" {
		return nil, fmt.Errorf("rate %s is not residential: %s", r.Label, r.Sector)
	}

	plan := &types.RatePlan{
		Label:          r.Label,
		Name:           r.Name,
		Utility:        r.Utility,
		EIAID:          r.EIAID,
		StartDate:      unixTime(r.StartDate),
		EndDate:        unixTime(r.EndDate),
		LatestUpdate:   unixTime(r.LatestUpdate),
		Supersedes:     r.Supersedes,
		EnergyComments: r.EnergyComments,
		DemandComments: r.DemandComments,

		EnergyWeekdaySched: schedule(r.EnergyWeekdaySchedule),
		EnergyWeekendSched: schedule(r.EnergyWeekendSchedule),
		EnergyRateTiers:    structure(r.EnergyRateStructure),

		DemandUnit:         r.DemandRateUnit,
		DemandWeekdaySched: schedule(r.DemandWeekdaySchedule),
		DemandWeekendSched: schedule(r.DemandWeekendSchedule),
		DemandRateTiers:    structure(r.DemandRateStructure),

		FlatDemandUnit:   r.FlatDemandUnit,
		FlatDemandTiers:  structure(r.FlatDemandStructure),
		FlatDemandMonths: r.FlatDemandMonths,

		CoincidentSched:     schedule(r.CoincidentRateSchedule),
		CoincidentRateTiers: structure(r.CoincidentRateStructure),

		FixedChargeFirstMeter: r.FixedChargeFirstMeter,
		FixedChargeUnits:      types.ChargeUnits(r.FixedChargeUnits),
		MinCharge:             r.MinCharge,
		MinChargeUnits:        types.ChargeUnits(r.MinChargeUnits),
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate %s: %w", r.Label, err)
	}
	return plan, nil
}

func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}

func schedule(s [][]int) types.Schedule {
	if len(s) == 0 {
		return nil
	}
	return types.Schedule(s)
}

func structure(s [][]Tier) [][]types.Tier {
	if len(s) == 0 {
		return nil
	}
	out := make([][]types.Tier, len(s))
	for period, tiers := range s {
		out[period] = make([]types.Tier, len(tiers))
		for i, t := range tiers {
			out[period][i] = types.Tier{
				Rate: t.Rate,
				Adj:  t.Adj,
				Max:  t.Max,
				Unit: types.TierUnit(t.Unit),
			}
		}
	}
	return out
}
