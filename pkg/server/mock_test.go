package server

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://accounts.example.com"
	testAudience = "test-audience"
)

type fakeFetcher struct {
	plans []*types.RatePlan
	err   error
	eiaid int64
}

func (f *fakeFetcher) FetchRates(ctx context.Context, eiaid int64) ([]*types.RatePlan, error) {
	f.eiaid = eiaid
	return f.plans, f.err
}

// testTokens returns a verifier and a function that signs ID tokens it
// accepts.
func testTokens(t *testing.T) (tokenVerifier, func(claims map[string]any) string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := oidc.NewVerifier(
		testIssuer,
		&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&priv.PublicKey}},
		&oidc.Config{ClientID: testAudience},
	)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: priv},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	sign := func(extra map[string]any) string {
		claims := map[string]any{
			"iss": testIssuer,
			"aud": testAudience,
			"sub": "subject",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		for k, v := range extra {
			claims[k] = v
		}
		raw, err := jwt.Signed(signer).Claims(claims).Serialize()
		require.NoError(t, err)
		return raw
	}
	return verifier.Verify, sign
}

func flatSchedule(period int) types.Schedule {
	s := make(types.Schedule, 12)
	for m := range s {
		s[m] = make([]int, 24)
		for h := range s[m] {
			s[m][h] = period
		}
	}
	return s
}

func flatPlan(label, utility string, rate float64) *types.RatePlan {
	return &types.RatePlan{
		Label:              label,
		Name:               "Plan " + label,
		Utility:            utility,
		EnergyWeekdaySched: flatSchedule(0),
		EnergyWeekendSched: flatSchedule(0),
		EnergyRateTiers:    [][]types.Tier{{{Rate: types.Ptr(rate)}}},
	}
}

func constantProfile(kw float64) types.UsageProfile {
	p := make(types.UsageProfile, 24)
	for i := range p {
		p[i] = kw
	}
	return p
}
