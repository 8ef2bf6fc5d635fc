package types

import (
	"fmt"
	"math"
	"time"
)

// Season selects which synthetic or estimated profile to use.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSummer Season = "summer"
)

// ParseSeason validates s as a Season.
func ParseSeason(s string) (Season, error) {
	switch Season(s) {
	case SeasonWinter, SeasonSummer:
		return Season(s), nil
	}
	return "", fmt.Errorf("unknown season: %s", s)
}

// SeasonOf returns summer for May through October and winter otherwise.
func SeasonOf(month time.Month) Season {
	if month >= time.May && month <= time.October {
		return SeasonSummer
	}
	return SeasonWinter
}

// Region is a synthetic usage region.
type Region string

const (
	RegionNewEngland         Region = "New England"
	RegionTexas              Region = "Texas"
	RegionSouthernCalifornia Region = "Southern California"
)

// ParseRegion validates s as a Region.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionNewEngland, RegionTexas, RegionSouthernCalifornia:
		return Region(s), nil
	}
	return "", fmt.Errorf("unknown region: %s", s)
}

// UsageProfile is 24 hourly kW samples for one representative day.
type UsageProfile []float64

// Validate returns an error unless the profile has 24 finite, non-negative
// samples.
func (p UsageProfile) Validate() error {
	if len(p) != 24 {
		return fmt.Errorf("profile must have 24 hourly samples, got %d", len(p))
	}
	for h, kw := range p {
		if kw < 0 || math.IsNaN(kw) || math.IsInf(kw, 0) {
			return fmt.Errorf("profile hour %d has invalid usage %v", h, kw)
		}
	}
	return nil
}

// DailyKWh returns the sum of the samples.
func (p UsageProfile) DailyKWh() float64 {
	var sum float64
	for _, kw := range p {
		sum += kw
	}
	return sum
}

// UsageSample is one hour of a synthetic profile.
type UsageSample struct {
	Hour    int     `json:"hour"`
	UsageKW float64 `json:"usageKW"`
	Season  Season  `json:"season"`
	Region  Region  `json:"region"`
}

// DwellingType is the kind of home an estimated profile is built for.
type DwellingType string

const (
	DwellingHouse     DwellingType = "house"
	DwellingTownhouse DwellingType = "townhouse"
	DwellingApartment DwellingType = "apartment"
)

// ClimateZone scales heating and cooling loads for an estimated profile.
type ClimateZone string

const (
	ClimateMidwest   ClimateZone = "midwest"
	ClimateNortheast ClimateZone = "northeast"
	ClimateSouth     ClimateZone = "south"
	ClimateWest      ClimateZone = "west"
)

// DwellingProfile describes a home whose usage should be estimated.
type DwellingProfile struct {
	DwellingType     DwellingType `json:"dwellingType" yaml:"dwellingType" toml:"dwellingType"`
	Climate          ClimateZone  `json:"climate" yaml:"climate" toml:"climate"`
	HasGasHeat       bool         `json:"hasGasHeat" yaml:"hasGasHeat" toml:"hasGasHeat"`
	HasGasAppliances bool         `json:"hasGasAppliances" yaml:"hasGasAppliances" toml:"hasGasAppliances"`
	HasEV            bool         `json:"hasEV" yaml:"hasEV" toml:"hasEV"`
}

// Validate returns an error if the dwelling type or climate is unknown.
func (d DwellingProfile) Validate() error {
	switch d.DwellingType {
	case DwellingHouse, DwellingTownhouse, DwellingApartment:
	default:
		return fmt.Errorf("unknown dwelling type: %s", d.DwellingType)
	}
	switch d.Climate {
	case ClimateMidwest, ClimateNortheast, ClimateSouth, ClimateWest:
	default:
		return fmt.Errorf("unknown climate: %s", d.Climate)
	}
	return nil
}

// SyntheticRegion returns the synthetic region whose grid most resembles the
// climate zone.
func (c ClimateZone) SyntheticRegion() Region {
	switch c {
	case ClimateNortheast:
		return RegionNewEngland
	case ClimateWest:
		return RegionSouthernCalifornia
	}
	return RegionTexas
}
