// Package api provides the HTTP server for the regime calculator.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finplan/regime-calculator/internal/cache"
	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/store"
)

// maxBodyBytes bounds request bodies; a plan with a few dozen items is a
// couple of kilobytes.
const maxBodyBytes = 1 << 20

// PlanRepository persists computed plans per user.
type PlanRepository interface {
	Save(ctx context.Context, userID, financialYear string, summary domain.PlanSummary) (store.Snapshot, error)
	Latest(ctx context.Context, userID string) (store.Snapshot, error)
	History(ctx context.Context, userID string, limit int) ([]store.Snapshot, error)
	Delete(ctx context.Context, userID string) error
}

// Server is the regime calculator HTTP API server.
type Server struct {
	engine         *calculation.CalculationEngine
	plans          PlanRepository // nil disables the /users routes
	cache          cache.Cache    // nil disables response caching
	cacheTTL       time.Duration
	logger         calculation.Logger
	metricsEnabled bool
}

// NewServer creates a new API server around a calculation engine.
func NewServer(engine *calculation.CalculationEngine) *Server {
	return &Server{engine: engine, logger: calculation.NopLogger{}}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetPlanRepository mounts the per-user plan routes.
func (s *Server) SetPlanRepository(r PlanRepository) { s.plans = r }

// SetCache enables caching of compare and tips responses.
func (s *Server) SetCache(c cache.Cache, ttl time.Duration) {
	s.cache = c
	s.cacheTTL = ttl
}

// SetLogger sets the server logger. If nil is provided, a no-op logger is used.
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.logger = l
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":         "ok",
			"financial_year": s.engine.Rules.FinancialYear,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/tips", s.handleTips)
		r.Post("/hra", s.handleHRA)
		r.Get("/rules", s.handleRules)

		if s.plans != nil {
			r.Route("/users/{userID}", func(r chi.Router) {
				r.Put("/plan", s.handleSavePlan)
				r.Get("/plan", s.handleLatestPlan)
				r.Delete("/plan", s.handleDeletePlan)
				r.Get("/history", s.handleHistory)
			})
		}
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Infof("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    http.StatusText(status),
		},
	})
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into v. Unknown fields are rejected
// so that misspelled amounts do not silently default to zero.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", config.ErrInvalidInput, err)
	}
	return nil
}
