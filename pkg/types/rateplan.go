package types

import (
	"fmt"
	"math"
	"time"
)

// ChargeUnits is the billing interval of a fixed or minimum charge.
type ChargeUnits string

const (
	ChargeUnitsPerMonth ChargeUnits = "$/month"
	ChargeUnitsPerDay   ChargeUnits = "$/day"
	ChargeUnitsPerYear  ChargeUnits = "$/year"
)

// Valid returns true if the units are empty or one of the known units.
func (u ChargeUnits) Valid() bool {
	switch u {
	case "", ChargeUnitsPerMonth, ChargeUnitsPerDay, ChargeUnitsPerYear:
		return true
	}
	return false
}

// TierUnit is the usage unit a tier's Max is measured in.
type TierUnit string

const (
	TierUnitKWh      TierUnit = "kWh"
	TierUnitKWhDaily TierUnit = "kWh daily"
	TierUnitKWhPerKW TierUnit = "kWh/kW"
)

// Tier is a usage band within a period. A nil Max means the tier is
// unbounded and must be the last tier of the period.
type Tier struct {
	Rate *float64 `json:"rate,omitempty" yaml:"rate,omitempty" toml:"rate,omitempty"`
	Adj  *float64 `json:"adj,omitempty" yaml:"adj,omitempty" toml:"adj,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Unit TierUnit `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
}

// EffectiveRate is the tier's rate plus its adjustment, treating either as 0
// when absent.
func (t Tier) EffectiveRate() float64 {
	return Float(t.Rate) + Float(t.Adj)
}

// UsageUnit returns the unit of the tier, defaulting to kWh like URDB does.
func (t Tier) UsageUnit() TierUnit {
	if t.Unit == "" {
		return TierUnitKWh
	}
	return t.Unit
}

// Schedule maps month (0-11) and hour (0-23) to a period id.
type Schedule [][]int

// Period returns the period id for the given month and hour. It returns false
// if the schedule has no entry for that month or hour.
func (s Schedule) Period(month time.Month, hour int) (int, bool) {
	m := int(month) - 1
	if m < 0 || m >= len(s) {
		return 0, false
	}
	row := s[m]
	if hour < 0 || hour >= len(row) {
		return 0, false
	}
	return row[hour], true
}

func (s Schedule) validate(name string) error {
	if s == nil {
		return nil
	}
	if len(s) != 12 {
		return fmt.Errorf("%s must have 12 months, got %d", name, len(s))
	}
	for m, row := range s {
		if len(row) != 24 {
			return fmt.Errorf("%s month %d must have 24 hours, got %d", name, m, len(row))
		}
		for h, p := range row {
			if p < 0 {
				return fmt.Errorf("%s month %d hour %d has negative period %d", name, m, h, p)
			}
		}
	}
	return nil
}

// RatePlan is a parsed residential rate plan. Nearly every field is optional
// since most plans only define a handful of charges.
type RatePlan struct {
	Label          string     `json:"label" yaml:"label" toml:"label"`
	Name           string     `json:"name" yaml:"name" toml:"name"`
	Utility        string     `json:"utility" yaml:"utility" toml:"utility"`
	EIAID          int64      `json:"eiaid,omitempty" yaml:"eiaid,omitempty" toml:"eiaid,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty" toml:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty" toml:"endDate,omitempty"`
	LatestUpdate   *time.Time `json:"latestUpdate,omitempty" yaml:"latestUpdate,omitempty" toml:"latestUpdate,omitempty"`
	Supersedes     string     `json:"supersedes,omitempty" yaml:"supersedes,omitempty" toml:"supersedes,omitempty"`
	EnergyComments string     `json:"energyComments,omitempty" yaml:"energyComments,omitempty" toml:"energyComments,omitempty"`
	DemandComments string     `json:"demandComments,omitempty" yaml:"demandComments,omitempty" toml:"demandComments,omitempty"`

	EnergyWeekdaySched Schedule `json:"energyWeekdaySched,omitempty" yaml:"energyWeekdaySched,omitempty" toml:"energyWeekdaySched,omitempty"`
	EnergyWeekendSched Schedule `json:"energyWeekendSched,omitempty" yaml:"energyWeekendSched,omitempty" toml:"energyWeekendSched,omitempty"`
	EnergyRateTiers    [][]Tier `json:"energyRate_tiers,omitempty" yaml:"energyRate_tiers,omitempty" toml:"energyRate_tiers,omitempty"`

	DemandUnit         string   `json:"demandUnit,omitempty" yaml:"demandUnit,omitempty" toml:"demandUnit,omitempty"`
	DemandWeekdaySched Schedule `json:"demandWeekdaySched,omitempty" yaml:"demandWeekdaySched,omitempty" toml:"demandWeekdaySched,omitempty"`
	DemandWeekendSched Schedule `json:"demandWeekendSched,omitempty" yaml:"demandWeekendSched,omitempty" toml:"demandWeekendSched,omitempty"`
	DemandRateTiers    [][]Tier `json:"demandRate_tiers,omitempty" yaml:"demandRate_tiers,omitempty" toml:"demandRate_tiers,omitempty"`

	FlatDemandUnit   string   `json:"flatDemandUnit,omitempty" yaml:"flatDemandUnit,omitempty" toml:"flatDemandUnit,omitempty"`
	FlatDemandTiers  [][]Tier `json:"flatDemand_tiers,omitempty" yaml:"flatDemand_tiers,omitempty" toml:"flatDemand_tiers,omitempty"`
	FlatDemandMonths []int    `json:"flatDemandMonths,omitempty" yaml:"flatDemandMonths,omitempty" toml:"flatDemandMonths,omitempty"`

	CoincidentSched     Schedule `json:"coincidentSched,omitempty" yaml:"coincidentSched,omitempty" toml:"coincidentSched,omitempty"`
	CoincidentRateTiers [][]Tier `json:"coincidentRate_tiers,omitempty" yaml:"coincidentRate_tiers,omitempty" toml:"coincidentRate_tiers,omitempty"`

	FixedChargeFirstMeter *float64    `json:"fixedChargeFirstMeter,omitempty" yaml:"fixedChargeFirstMeter,omitempty" toml:"fixedChargeFirstMeter,omitempty"`
	FixedChargeUnits      ChargeUnits `json:"fixedChargeUnits,omitempty" yaml:"fixedChargeUnits,omitempty" toml:"fixedChargeUnits,omitempty"`
	MinCharge             *float64    `json:"minCharge,omitempty" yaml:"minCharge,omitempty" toml:"minCharge,omitempty"`
	MinChargeUnits        ChargeUnits `json:"minChargeUnits,omitempty" yaml:"minChargeUnits,omitempty" toml:"minChargeUnits,omitempty"`
}

// HasEnergySchedule returns true if the plan bills energy by time-of-use.
func (p *RatePlan) HasEnergySchedule() bool {
	return (p.EnergyWeekdaySched != nil || p.EnergyWeekendSched != nil) && len(p.EnergyRateTiers) > 0
}

// Validate checks the shape of the plan. The cost simulator assumes plans
// have been validated and only tolerates absent data, not malformed data.
func (p *RatePlan) Validate() error {
	schedules := []struct {
		name  string
		sched Schedule
	}{
		{"energyWeekdaySched", p.EnergyWeekdaySched},
		{"energyWeekendSched", p.EnergyWeekendSched},
		{"demandWeekdaySched", p.DemandWeekdaySched},
		{"demandWeekendSched", p.DemandWeekendSched},
		{"coincidentSched", p.CoincidentSched},
	}
	for _, s := range schedules {
		if err := s.sched.validate(s.name); err != nil {
			return err
		}
	}

	structures := []struct {
		name    string
		periods [][]Tier
	}{
		{"energyRate_tiers", p.EnergyRateTiers},
		{"demandRate_tiers", p.DemandRateTiers},
		{"flatDemand_tiers", p.FlatDemandTiers},
		{"coincidentRate_tiers", p.CoincidentRateTiers},
	}
	for _, s := range structures {
		for period, tiers := range s.periods {
			if err := validateTiers(tiers); err != nil {
				return fmt.Errorf("%s period %d: %w", s.name, period, err)
			}
		}
	}

	if p.FlatDemandMonths != nil {
		if len(p.FlatDemandMonths) != 12 {
			return fmt.Errorf("flatDemandMonths must have 12 months, got %d", len(p.FlatDemandMonths))
		}
		for m, period := range p.FlatDemandMonths {
			if period < 0 {
				return fmt.Errorf("flatDemandMonths month %d has negative period %d", m, period)
			}
		}
	}

	if !p.FixedChargeUnits.Valid() {
		return fmt.Errorf("unknown fixedChargeUnits: %s", p.FixedChargeUnits)
	}
	if !p.MinChargeUnits.Valid() {
		return fmt.Errorf("unknown minChargeUnits: %s", p.MinChargeUnits)
	}
	if !finite(p.FixedChargeFirstMeter) {
		return fmt.Errorf("fixedChargeFirstMeter must be finite")
	}
	if !finite(p.MinCharge) {
		return fmt.Errorf("minCharge must be finite")
	}
	return nil
}

func validateTiers(tiers []Tier) error {
	var prevMax float64
	for i, t := range tiers {
		if !finite(t.Rate) || !finite(t.Adj) || !finite(t.Max) {
			return fmt.Errorf("tier %d has a non-finite value", i)
		}
		switch t.UsageUnit() {
		case TierUnitKWh, TierUnitKWhDaily, TierUnitKWhPerKW:
		default:
			// demand tiers carry kW units which aren't checked here
			if t.Unit != "kW" && t.Unit != "kVA" && t.Unit != "hp" {
				return fmt.Errorf("tier %d has unknown unit: %s", i, t.Unit)
			}
		}
		if t.Max == nil {
			if i != len(tiers)-1 {
				return fmt.Errorf("tier %d is unbounded but is not the last tier", i)
			}
			continue
		}
		if *t.Max < prevMax {
			return fmt.Errorf("tier %d max %v is below the previous tier max %v", i, *t.Max, prevMax)
		}
		prevMax = *t.Max
	}
	return nil
}

func finite(f *float64) bool {
	return f == nil || (!math.IsNaN(*f) && !math.IsInf(*f, 0))
}

// Float returns the value pointed to by f or 0 if f is nil.
func Float(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
