package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/rates"
	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
)

type billRequest struct {
	// Label of a stored plan. Plan is used instead when it's set.
	Label string          `json:"label,omitempty"`
	Plan  *types.RatePlan `json:"plan,omitempty"`
	Usage usageRequest    `json:"usage"`
	Month string          `json:"month,omitempty"`
}

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req billRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	monthStart, err := rates.ParseMonth(req.Month, time.Now())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	profile, err := req.Usage.profile(monthStart)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("invalid usage: %v", err), http.StatusBadRequest)
		return
	}

	plan := req.Plan
	switch {
	case plan != nil:
		if err := plan.Validate(); err != nil {
			writeJSONError(w, fmt.Sprintf("invalid plan: %v", err), http.StatusBadRequest)
			return
		}
	case req.Label != "":
		plan, err = s.storage.GetRatePlan(ctx, req.Label)
		if err != nil {
			if errors.Is(err, storage.ErrRatePlanNotFound) {
				writeJSONError(w, "rate plan not found", http.StatusNotFound)
				return
			}
			log.Ctx(ctx).ErrorContext(ctx, "failed to get rate plan", slog.String("label", req.Label), slog.Any("error", err))
			writeJSONError(w, "failed to get rate plan", http.StatusInternalServerError)
			return
		}
	default:
		writeJSONError(w, "label or plan is required", http.StatusBadRequest)
		return
	}

	if !plan.HasEnergySchedule() {
		log.Ctx(ctx).DebugContext(ctx, "plan has no energy schedule", slog.String("label", plan.Label))
	}
	writeJSON(w, rates.CalculateMonthlyBill(plan, profile, monthStart))
}

type compareRequest struct {
	// Labels of stored plans to compare. When empty every plan of Utility
	// in effect during the month is compared.
	Labels  []string     `json:"labels,omitempty"`
	Utility string       `json:"utility,omitempty"`
	Usage   usageRequest `json:"usage"`
	Month   string       `json:"month,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req compareRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	monthStart, err := rates.ParseMonth(req.Month, time.Now())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	profile, err := req.Usage.profile(monthStart)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("invalid usage: %v", err), http.StatusBadRequest)
		return
	}

	var plans []*types.RatePlan
	switch {
	case len(req.Labels) > 0:
		for _, label := range req.Labels {
			plan, err := s.storage.GetRatePlan(ctx, label)
			if err != nil {
				if errors.Is(err, storage.ErrRatePlanNotFound) {
					writeJSONError(w, fmt.Sprintf("rate plan not found: %s", label), http.StatusNotFound)
					return
				}
				log.Ctx(ctx).ErrorContext(ctx, "failed to get rate plan", slog.String("label", label), slog.Any("error", err))
				writeJSONError(w, "failed to get rate plan", http.StatusInternalServerError)
				return
			}
			plans = append(plans, plan)
		}
	case req.Utility != "":
		all, err := s.storage.ListRatePlans(ctx, req.Utility)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to list rate plans", slog.String("utility", req.Utility), slog.Any("error", err))
			writeJSONError(w, "failed to list rate plans", http.StatusInternalServerError)
			return
		}
		for _, plan := range all {
			if plan.Active(monthStart) {
				plans = append(plans, plan)
			}
		}
	default:
		writeJSONError(w, "labels or utility is required", http.StatusBadRequest)
		return
	}

	bills, err := rates.CompareMonthlyBills(ctx, plans, profile, monthStart, s.compareConcurrency)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to compare plans", slog.Any("error", err))
		writeJSONError(w, "failed to compare plans", http.StatusServiceUnavailable)
		return
	}
	rates.SortByTotal(bills)

	log.Ctx(ctx).DebugContext(ctx, "compared plans", slog.Int("count", len(bills)))
	// Always return an array, even if empty
	if bills == nil {
		bills = []types.PlanBill{}
	}
	writeJSON(w, bills)
}
