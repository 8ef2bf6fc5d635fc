package server

import (
	"log/slog"
	"net/http"

	"github.com/raterudder/rateexplorer/pkg/log"
)

type importRequest struct {
	EIAID int64 `json:"eiaid"`
}

type importResponse struct {
	Imported   int      `json:"imported"`
	Labels     []string `json:"labels"`
	ImportedBy string   `json:"importedBy,omitempty"`
}

// handleImport fetches every residential plan for a utility from the URDB
// and stores them, replacing plans with the same label.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req importRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.EIAID <= 0 {
		writeJSONError(w, "eiaid is required", http.StatusBadRequest)
		return
	}
	if s.urdb == nil {
		writeJSONError(w, "rate import is not configured", http.StatusServiceUnavailable)
		return
	}

	plans, err := s.urdb.FetchRates(ctx, req.EIAID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch urdb rates", slog.Int64("eiaid", req.EIAID), slog.Any("error", err))
		writeJSONError(w, "failed to fetch rates", http.StatusBadGateway)
		return
	}

	resp := importResponse{Labels: []string{}}
	resp.ImportedBy, _ = ctx.Value(adminEmailContextKey).(string)
	for _, plan := range plans {
		if err := s.storage.UpsertRatePlan(ctx, plan); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to store rate plan", slog.String("label", plan.Label), slog.Any("error", err))
			writeJSONError(w, "failed to store rate plan", http.StatusInternalServerError)
			return
		}
		resp.Labels = append(resp.Labels, plan.Label)
	}
	resp.Imported = len(resp.Labels)

	log.Ctx(ctx).InfoContext(ctx, "imported rate plans", slog.Int64("eiaid", req.EIAID), slog.Int("count", resp.Imported))
	writeJSON(w, resp)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := r.PathValue("label")
	if err := s.storage.DeleteRatePlan(ctx, label); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to delete rate plan", slog.String("label", label), slog.Any("error", err))
		writeJSONError(w, "failed to delete rate plan", http.StatusInternalServerError)
		return
	}
	log.Ctx(ctx).InfoContext(ctx, "deleted rate plan", slog.String("label", label))
	w.WriteHeader(http.StatusNoContent)
}
