package types

import "time"

// RatePlanSummary is the listing view of a rate plan.
type RatePlanSummary struct {
	Label             string      `json:"label"`
	Name              string      `json:"name"`
	Utility           string      `json:"utility"`
	EIAID             int64       `json:"eiaid,omitempty"`
	StartDate         *time.Time  `json:"startDate,omitempty"`
	EndDate           *time.Time  `json:"endDate,omitempty"`
	HasEnergySchedule bool        `json:"hasEnergySchedule"`
	HasDemandCharges  bool        `json:"hasDemandCharges"`
	FixedChargeUnits  ChargeUnits `json:"fixedChargeUnits,omitempty"`
}

// Summary returns the listing view of the plan.
func (p *RatePlan) Summary() RatePlanSummary {
	return RatePlanSummary{
		Label:             p.Label,
		Name:              p.Name,
		Utility:           p.Utility,
		EIAID:             p.EIAID,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		HasEnergySchedule: p.HasEnergySchedule(),
		HasDemandCharges:  len(p.DemandRateTiers) > 0 || len(p.FlatDemandTiers) > 0 || len(p.CoincidentRateTiers) > 0,
		FixedChargeUnits:  p.FixedChargeUnits,
	}
}

// Active returns true if the plan is in effect at t. Plans without a start
// date are considered to have always been in effect.
func (p *RatePlan) Active(t time.Time) bool {
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && !t.Before(*p.EndDate) {
		return false
	}
	return true
}
