package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleBill(t *testing.T) {
	db := storage.NewMemory()
	require.NoError(t, db.UpsertRatePlan(context.Background(), flatPlan("stored", "Example Electric", 0.2)))
	handler := (&Server{storage: db}).setupHandler()

	t.Run("Inline plan", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Plan:  flatPlan("inline", "", 0.1),
			Usage: usageRequest{Profile: constantProfile(1)},
			Month: "2024-01",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bill types.Bill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bill))
		assert.Equal(t, 31, bill.Days)
		assert.True(t, bill.MonthStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		require.NotNil(t, bill.Usage)
		require.NotNil(t, bill.Cost)
		assert.InDelta(t, 744, bill.Usage.KWh, 1e-9)
		assert.InDelta(t, 74.4, bill.Cost.EnergyCharge, 1e-9)
	})

	t.Run("Stored plan", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Label: "stored",
			Usage: usageRequest{Profile: constantProfile(1)},
			Month: "2024-02",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bill types.Bill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bill))
		assert.InDelta(t, 29*24*0.2, bill.Cost.Total, 1e-9)
	})

	t.Run("Scaled usage", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Label: "stored",
			Usage: usageRequest{Region: types.RegionTexas, Season: types.SeasonSummer, MonthlyKWh: 1000},
			Month: "2024-07",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bill types.Bill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bill))
		assert.InDelta(t, 1000, bill.Usage.KWh, 1e-6)
		assert.InDelta(t, 200, bill.Cost.Total, 1e-6)
	})

	t.Run("Dwelling usage", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Label: "stored",
			Usage: usageRequest{Dwelling: &types.DwellingProfile{
				DwellingType: types.DwellingApartment,
				Climate:      types.ClimateMidwest,
				HasGasHeat:   true,
			}},
			Month: "2024-01",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bill types.Bill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bill))
		assert.InDelta(t, 17.5*31, bill.Usage.KWh, 1e-9)
	})

	t.Run("Not found", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Label: "missing",
			Usage: usageRequest{Profile: constantProfile(1)},
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invalid plan", func(t *testing.T) {
		plan := flatPlan("bad", "", 0.1)
		plan.EnergyWeekdaySched = plan.EnergyWeekdaySched[:3]
		rr := postJSON(t, handler, "/api/bill", billRequest{
			Plan:  plan,
			Usage: usageRequest{Profile: constantProfile(1)},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Bad requests", func(t *testing.T) {
		for name, req := range map[string]any{
			"no plan":        billRequest{Usage: usageRequest{Profile: constantProfile(1)}},
			"no usage":       billRequest{Label: "stored"},
			"two usages":     billRequest{Label: "stored", Usage: usageRequest{Profile: constantProfile(1), Region: types.RegionTexas}},
			"short profile":  billRequest{Label: "stored", Usage: usageRequest{Profile: types.UsageProfile{1, 2}}},
			"negative usage": billRequest{Label: "stored", Usage: usageRequest{Profile: constantProfile(-1)}},
			"bad month":      billRequest{Label: "stored", Usage: usageRequest{Profile: constantProfile(1)}, Month: "January"},
			"bad season":     billRequest{Label: "stored", Usage: usageRequest{Region: types.RegionTexas, Season: "spring"}},
			"unknown field":  map[string]any{"label": "stored", "usage": map[string]any{"profile": constantProfile(1)}, "extra": 1},
		} {
			t.Run(name, func(t *testing.T) {
				rr := postJSON(t, handler, "/api/bill", req)
				assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			})
		}
	})
}

func TestHandleCompare(t *testing.T) {
	db := storage.NewMemory()
	ctx := context.Background()
	expired := flatPlan("expired", "Example Electric", 0.01)
	expired.EndDate = types.Ptr(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, p := range []*types.RatePlan{
		flatPlan("pricey", "Example Electric", 0.3),
		flatPlan("cheap", "Example Electric", 0.1),
		flatPlan("other", "Other Power", 0.05),
		expired,
	} {
		require.NoError(t, db.UpsertRatePlan(ctx, p))
	}
	handler := (&Server{storage: db, compareConcurrency: 2}).setupHandler()

	t.Run("Labels", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/compare", compareRequest{
			Labels: []string{"pricey", "other"},
			Usage:  usageRequest{Profile: constantProfile(1)},
			Month:  "2024-01",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bills []types.PlanBill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bills))
		require.Len(t, bills, 2)
		assert.Equal(t, "other", bills[0].Label)
		assert.Equal(t, "pricey", bills[1].Label)
		assert.InDelta(t, 744*0.05, bills[0].Bill.Cost.Total, 1e-9)
	})

	t.Run("Utility", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/compare", compareRequest{
			Utility: "Example Electric",
			Usage:   usageRequest{Profile: constantProfile(1)},
			Month:   "2024-01",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var bills []types.PlanBill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&bills))
		require.Len(t, bills, 2)
		assert.Equal(t, "cheap", bills[0].Label)
		assert.Equal(t, "pricey", bills[1].Label)
	})

	t.Run("Unknown utility", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/compare", compareRequest{
			Utility: "Nobody",
			Usage:   usageRequest{Profile: constantProfile(1)},
		})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("Missing label", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/compare", compareRequest{
			Labels: []string{"cheap", "missing"},
			Usage:  usageRequest{Profile: constantProfile(1)},
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("No plans", func(t *testing.T) {
		rr := postJSON(t, handler, "/api/compare", compareRequest{
			Usage: usageRequest{Profile: constantProfile(1)},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
