package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	utility := r.URL.Query().Get("utility")

	plans, err := s.storage.ListRatePlans(ctx, utility)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list rate plans", slog.String("utility", utility), slog.Any("error", err))
		writeJSONError(w, "failed to list rate plans", http.StatusInternalServerError)
		return
	}

	// Always return an array, even if empty
	summaries := make([]types.RatePlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, p.Summary())
	}
	writeJSON(w, summaries)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := r.PathValue("label")

	plan, err := s.storage.GetRatePlan(ctx, label)
	if err != nil {
		if errors.Is(err, storage.ErrRatePlanNotFound) {
			writeJSONError(w, "rate plan not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get rate plan", slog.String("label", label), slog.Any("error", err))
		writeJSONError(w, "failed to get rate plan", http.StatusInternalServerError)
		return
	}
	writeJSON(w, plan)
}
