package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finplan/regime-calculator/internal/cache"
	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/store"
)

const defaultPlanName = "default"

// tipsResponse is the body of POST /api/v1/tips.
type tipsResponse struct {
	CheaperRegime domain.Regime            `json:"cheaper_regime"`
	Tips          []domain.OptimizationTip `json:"tips"`
}

// regimeResponse is the body of POST /api/v1/compare?regime=.
type regimeResponse struct {
	Regime  domain.Regime       `json:"regime"`
	Cheaper bool                `json:"cheaper"`
	Result  domain.RegimeResult `json:"result"`
}

// hraResponse is the body of POST /api/v1/hra.
type hraResponse struct {
	Exemption decimal.Decimal `json:"exemption"`
	Taxable   decimal.Decimal `json:"taxable_hra"`
}

// readPlan decodes and validates a plan body. The name is optional over HTTP.
func readPlan(w http.ResponseWriter, r *http.Request) (domain.Plan, error) {
	var plan domain.Plan
	if err := decodeBody(w, r, &plan); err != nil {
		return plan, err
	}
	if strings.TrimSpace(plan.Name) == "" {
		plan.Name = defaultPlanName
	}
	if err := config.ValidatePlan(&plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// handleCompare handles POST /api/v1/compare. With ?regime=old|new only
// that regime's result is returned.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var regime domain.Regime
	if q := r.URL.Query().Get("regime"); q != "" {
		parsed, err := domain.ParseRegime(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		regime = parsed
	}
	plan, err := readPlan(w, r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if regime != "" {
		s.respondCached(w, r, "compare-"+string(regime), plan, func() (any, error) {
			cmp := s.engine.CompareRegimes(plan.Income, plan.Deductions, plan.HRA)
			result := cmp.New
			if regime == domain.RegimeOld {
				result = cmp.Old
			}
			return regimeResponse{Regime: regime, Cheaper: cmp.Cheaper == regime, Result: result}, nil
		})
		return
	}
	s.respondCached(w, r, "compare", plan, func() (any, error) {
		summary := s.engine.RunPlan(plan)
		comparisonsTotal.WithLabelValues(string(summary.Comparison.Cheaper)).Inc()
		return summary, nil
	})
}

// handleTips handles POST /api/v1/tips.
func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	plan, err := readPlan(w, r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.respondCached(w, r, "tips", plan, func() (any, error) {
		cmp, tips := s.engine.CompareWithTips(plan.Income, plan.Deductions, plan.HRA)
		if tips == nil {
			tips = []domain.OptimizationTip{}
		}
		return tipsResponse{CheaperRegime: cmp.Cheaper, Tips: tips}, nil
	})
}

// handleHRA handles POST /api/v1/hra.
func (s *Server) handleHRA(w http.ResponseWriter, r *http.Request) {
	var in domain.HRAInputs
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := config.ValidateHRA(&in); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	exemption := calculation.ComputeHRAExemption(in)
	writeJSON(w, http.StatusOK, hraResponse{
		Exemption: exemption,
		Taxable:   domain.NonNegative(in.HRAReceived.Sub(exemption)),
	})
}

// handleRules handles GET /api/v1/rules.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Rules)
}

// handleSavePlan handles PUT /api/v1/users/{userID}/plan.
func (s *Server) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := readPlan(w, r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	summary := s.engine.RunPlan(plan)
	comparisonsTotal.WithLabelValues(string(summary.Comparison.Cheaper)).Inc()

	snap, err := s.plans.Save(r.Context(), chi.URLParam(r, "userID"), s.engine.Rules.FinancialYear, summary)
	if err != nil {
		s.logger.Errorf("save plan: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// handleLatestPlan handles GET /api/v1/users/{userID}/plan.
func (s *Server) handleLatestPlan(w http.ResponseWriter, r *http.Request) {
	snap, err := s.plans.Latest(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleDeletePlan handles DELETE /api/v1/users/{userID}/plan.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHistory handles GET /api/v1/users/{userID}/history?limit=N.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	snaps, err := s.plans.History(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// respondCached serves a cached JSON body for req when one exists, otherwise
// computes, stores and writes it. Cache failures are logged and bypassed.
func (s *Server) respondCached(w http.ResponseWriter, r *http.Request, namespace string, req any, compute func() (any, error)) {
	var key string
	if s.cache != nil {
		var err error
		key, err = cache.Key(namespace, struct {
			Rules   domain.TaxRules `json:"rules"`
			Request any             `json:"request"`
		}{s.engine.Rules, req})
		if err != nil {
			s.logger.Warnf("cache key: %v", err)
		} else if body, ok, err := s.cache.Get(r.Context(), key); err != nil {
			s.logger.Warnf("cache get: %v", err)
		} else if ok {
			cacheRequestsTotal.WithLabelValues("hit").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
		cacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	result, err := compute()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.cache != nil && key != "" {
		if err := s.cache.Set(r.Context(), key, body, s.cacheTTL); err != nil {
			s.logger.Warnf("cache set: %v", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
