package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/raterudder/rateexplorer/pkg/rates"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/raterudder/rateexplorer/pkg/usage"
)

// usageRequest picks the daily profile to simulate. Exactly one of Profile,
// Dwelling or Region must be set.
type usageRequest struct {
	Profile  types.UsageProfile     `json:"profile,omitempty"`
	Dwelling *types.DwellingProfile `json:"dwelling,omitempty"`
	Region   types.Region           `json:"region,omitempty"`
	// Season defaults to the season of the simulated month.
	Season types.Season `json:"season,omitempty"`
	// MonthlyKWh rescales the profile so the month uses this much energy.
	MonthlyKWh float64 `json:"monthlyKWh,omitempty"`
}

// profile resolves the request into a usage profile for the month.
func (u usageRequest) profile(monthStart time.Time) (types.UsageProfile, error) {
	season := u.Season
	if season == "" {
		season = types.SeasonOf(monthStart.Month())
	} else if _, err := types.ParseSeason(string(season)); err != nil {
		return nil, err
	}

	var set int
	for _, ok := range []bool{u.Profile != nil, u.Dwelling != nil, u.Region != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of profile, dwelling or region is required")
	}

	var profile types.UsageProfile
	var err error
	switch {
	case u.Profile != nil:
		if err := u.Profile.Validate(); err != nil {
			return nil, err
		}
		profile = u.Profile
	case u.Dwelling != nil:
		profile, err = usage.Estimate(*u.Dwelling, season)
	default:
		profile, err = usage.Synthetic(u.Region, season)
	}
	if err != nil {
		return nil, err
	}

	if u.MonthlyKWh < 0 {
		return nil, fmt.Errorf("monthlyKWh cannot be negative")
	}
	if u.MonthlyKWh > 0 {
		profile = usage.ScaleToMonthlyKWh(profile, u.MonthlyKWh, rates.DaysInMonth(monthStart))
	}
	return profile, nil
}

func (s *Server) handleSyntheticUsage(w http.ResponseWriter, r *http.Request) {
	region, err := types.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	season, err := types.ParseSeason(r.URL.Query().Get("season"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	samples, err := usage.SyntheticSamples(region, season)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, samples)
}

type estimateResponse struct {
	Profile    types.UsageProfile `json:"profile"`
	MonthlyKWh float64            `json:"monthlyKWh"`
}

func (s *Server) handleEstimateUsage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	season, err := types.ParseSeason(q.Get("season"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	d := types.DwellingProfile{
		DwellingType: types.DwellingType(q.Get("dwellingType")),
		Climate:      types.ClimateZone(q.Get("climate")),
	}
	for name, dst := range map[string]*bool{
		"gasHeat":       &d.HasGasHeat,
		"gasAppliances": &d.HasGasAppliances,
		"ev":            &d.HasEV,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, fmt.Sprintf("invalid %s: %s", name, v), http.StatusBadRequest)
			return
		}
		*dst = b
	}

	profile, err := usage.Estimate(d, season)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	monthly, err := usage.EstimateMonthlyKWh(d, season)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, estimateResponse{
		Profile:    profile,
		MonthlyKWh: monthly,
	})
}
