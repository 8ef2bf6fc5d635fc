package usage

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// the jitter on overnight EV charging is seeded so every process serves the
// same synthetic profiles
const syntheticSeed = 42

type syntheticKey struct {
	region types.Region
	season types.Season
}

var syntheticProfiles = sync.OnceValue(generateSynthetic)

// Synthetic returns the synthetic 24 hour profile for region and season. The
// returned profile is a copy and can be modified by the caller.
func Synthetic(region types.Region, season types.Season) (types.UsageProfile, error) {
	profile, ok := syntheticProfiles()[syntheticKey{region, season}]
	if !ok {
		return nil, fmt.Errorf("no synthetic profile for %s in %s", region, season)
	}
	out := make(types.UsageProfile, len(profile))
	copy(out, profile)
	return out, nil
}

// SyntheticSamples returns the Synthetic profile as individual hourly samples.
func SyntheticSamples(region types.Region, season types.Season) ([]types.UsageSample, error) {
	profile, err := Synthetic(region, season)
	if err != nil {
		return nil, err
	}
	samples := make([]types.UsageSample, len(profile))
	for h, kw := range profile {
		samples[h] = types.UsageSample{
			Hour:    h,
			UsageKW: kw,
			Season:  season,
			Region:  region,
		}
	}
	return samples, nil
}

func generateSynthetic() map[syntheticKey]types.UsageProfile {
	rng := rand.New(rand.NewPCG(syntheticSeed, syntheticSeed))
	profiles := make(map[syntheticKey]types.UsageProfile)
	for _, season := range []types.Season{types.SeasonWinter, types.SeasonSummer} {
		ne := make(types.UsageProfile, 24)
		tx := make(types.UsageProfile, 24)
		ca := make(types.UsageProfile, 24)
		for hour := range 24 {
			ne[hour] = round2(newEnglandKW(season, hour))
			tx[hour] = round2(texasKW(season, hour))
			ca[hour] = round2(southernCaliforniaKW(season, hour, rng))
		}
		profiles[syntheticKey{types.RegionNewEngland, season}] = ne
		profiles[syntheticKey{types.RegionTexas, season}] = tx
		profiles[syntheticKey{types.RegionSouthernCalifornia, season}] = ca
	}
	return profiles
}

// bump returns a half sine wave of amplitude amp over span hours starting at
// start.
func bump(hour, start int, span, amp float64) float64 {
	return math.Sin(float64(hour-start)*math.Pi/span) * amp
}

func between(hour, lo, hi int) bool {
	return lo <= hour && hour <= hi
}

// newEnglandKW models gas heat with moderate summer AC.
func newEnglandKW(season types.Season, hour int) float64 {
	kw := 1.5
	if season == types.SeasonWinter {
		if between(hour, 6, 8) {
			kw += 2.0 + bump(hour, 6, 2, 1.5)
		}
		if between(hour, 17, 22) {
			kw += 2.5 + bump(hour, 17, 5, 2.0)
		}
		return kw
	}
	if between(hour, 6, 8) {
		kw += 1.5 + bump(hour, 6, 2, 1.0)
	}
	if between(hour, 13, 20) {
		kw += 2.5 + bump(hour, 13, 7, 2.5)
	}
	if between(hour, 20, 22) {
		kw += 1.5
	}
	return kw
}

// texasKW models electric heat and heavy summer cooling.
func texasKW(season types.Season, hour int) float64 {
	if season == types.SeasonWinter {
		kw := 2.0
		if between(hour, 6, 8) {
			kw += 3.0 + bump(hour, 6, 2, 1.8)
		}
		if between(hour, 17, 23) {
			kw += 3.5 + bump(hour, 17, 6, 2.5)
		}
		if between(hour, 0, 6) {
			kw += 1.5
		}
		return kw
	}
	kw := 2.5
	if between(hour, 6, 8) {
		kw += 1.5 + bump(hour, 6, 2, 1.0)
	}
	if between(hour, 13, 21) {
		kw += 5.0 + bump(hour, 13, 8, 4.0)
	}
	if between(hour, 9, 13) {
		kw += 2.5
	}
	if between(hour, 21, 23) {
		kw += 2.5
	}
	if between(hour, 0, 6) {
		kw += 1.5
	}
	return kw
}

// southernCaliforniaKW models minimal heating with an EV charging overnight.
func southernCaliforniaKW(season types.Season, hour int, rng *rand.Rand) float64 {
	var kw float64
	if season == types.SeasonWinter {
		kw = 1.2
		if between(hour, 6, 8) {
			kw += 1.2 + bump(hour, 6, 2, 0.8)
		}
		if between(hour, 17, 22) {
			kw += 1.5 + bump(hour, 17, 5, 1.0)
		}
	} else {
		kw = 1.3
		if between(hour, 6, 8) {
			kw += 1.0 + bump(hour, 6, 2, 0.7)
		}
		if between(hour, 15, 20) {
			kw += 2.0 + bump(hour, 15, 5, 1.5)
		}
		if between(hour, 20, 22) {
			kw += 1.2
		}
	}
	if hour >= 23 || hour <= 6 {
		kw += 6.5 + rng.Float64()*0.5
	}
	return kw
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
