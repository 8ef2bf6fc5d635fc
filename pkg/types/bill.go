package types

import "time"

// UsageTotals is the metered usage over a simulated month.
type UsageTotals struct {
	KWh    float64 `json:"kWh"`
	PeakKW float64 `json:"peakKW"`
}

// CostBreakdown itemizes the cost of a simulated month. Total is the sum of
// every other field.
type CostBreakdown struct {
	Total                  float64 `json:"total"`
	FixedCharge            float64 `json:"fixedCharge"`
	EnergyCharge           float64 `json:"energyCharge"`
	DemandCharge           float64 `json:"demandCharge"`
	FlatDemandCharge       float64 `json:"flatDemandCharge"`
	CoincidentDemandCharge float64 `json:"coincidentDemandCharge"`
	MinChargeAdjustment    float64 `json:"minChargeAdjustment"`
}

// Bill is the result of simulating one month. Usage is nil when there was no
// usage profile and Cost is nil when there was no rate plan.
type Bill struct {
	MonthStart time.Time      `json:"monthStart"`
	Days       int            `json:"days"`
	Usage      *UsageTotals   `json:"usage,omitempty"`
	Cost       *CostBreakdown `json:"cost,omitempty"`
}

// PlanBill is a Bill for a specific rate plan, used when comparing plans.
type PlanBill struct {
	Label   string `json:"label"`
	Name    string `json:"name"`
	Utility string `json:"utility"`
	Bill    Bill   `json:"bill"`
}
