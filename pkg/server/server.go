package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/rs/cors"
)

// maxBodyBytes limits request bodies. Inline plans with every schedule are
// well under this.
const maxBodyBytes = 1 << 20

// tokenVerifier is a function that validates a Google ID Token.
type tokenVerifier func(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)

// RateFetcher fetches a utility's plans from an upstream rate database.
type RateFetcher interface {
	FetchRates(ctx context.Context, eiaid int64) ([]*types.RatePlan, error)
}

// Server serves the rate plan and bill simulation API.
type Server struct {
	storage storage.Database
	urdb    RateFetcher

	listenAddr string
	httpServer *http.Server

	adminEmails        []string
	oidcVerifier       tokenVerifier
	bypassAuth         bool
	corsOrigins        []string
	compareConcurrency int
	serverName         string
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(s storage.Database, u RateFetcher) *Server {
	srv := &Server{
		storage:    s,
		urdb:       u,
		serverName: "rateexplorer",
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	adminEmails := lflag.String("admin-emails", "", "comma-delimited list of email addresses allowed to import rate plans")
	oidcAudience := lflag.String("oidc-audience", "", "audience to validate admin id tokens against")
	dev := lflag.Bool("dev", false, "Development mode, disables admin authentication")
	corsOrigins := lflag.String("cors-origins", "", "comma-delimited list of origins allowed to call the API from a browser")
	compareConcurrency := lflag.Int("compare-concurrency", 8, "Number of plans simulated in parallel when comparing")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.adminEmails = splitList(*adminEmails)
		srv.corsOrigins = splitList(*corsOrigins)
		srv.compareConcurrency = *compareConcurrency
		srv.bypassAuth = *dev

		if *oidcAudience != "" {
			provider, err := oidc.NewProvider(context.Background(), "https://accounts.google.com")
			if err != nil {
				log.Ctx(context.Background()).Error("failed to initialize Google OIDC provider", slog.Any("error", err))
				os.Exit(1)
			}
			srv.oidcVerifier = provider.Verifier(&oidc.Config{ClientID: *oidcAudience}).Verify
		} else if !srv.bypassAuth {
			log.Ctx(context.Background()).Warn("oidc-audience not set, admin endpoints are disabled")
		}
	})

	return srv
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/plans", s.handleListPlans)
	apiMux.HandleFunc("GET /api/plans/{label}", s.handleGetPlan)
	apiMux.HandleFunc("POST /api/bill", s.handleBill)
	apiMux.HandleFunc("POST /api/compare", s.handleCompare)
	apiMux.HandleFunc("GET /api/usage/synthetic", s.handleSyntheticUsage)
	apiMux.HandleFunc("GET /api/usage/estimate", s.handleEstimateUsage)
	apiMux.Handle("POST /api/admin/import", s.adminMiddleware(http.HandlerFunc(s.handleImport)))
	apiMux.Handle("DELETE /api/admin/plans/{label}", s.adminMiddleware(http.HandlerFunc(s.handleDeletePlan)))

	mux := http.NewServeMux()
	mux.Handle("/api/", s.requestLogMiddleware(apiMux))
	mux.HandleFunc("/healthz", s.handleHealthz)

	var h http.Handler = s.securityHeadersMiddleware(mux)
	if len(s.corsOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         3600,
		}).Handler(h)
	}
	return s.revisionMiddleware(gziphandler.GzipHandler(h))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

// decodeBody decodes a size limited JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}
