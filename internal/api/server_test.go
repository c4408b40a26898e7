package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/regime-calculator/internal/cache"
	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/store"
)

const scenarioA = `{"name":"A","income":{"salary":1200000}}`

const maxedPlan = `{
  "name": "maxed",
  "income": {"salary": 1200000},
  "hra": {"basic_salary": 600000, "hra_received": 300000, "rent_paid": 240000, "metro_city": true},
  "deductions": [
    {"name": "PPF", "section": "80C", "claimed": 150000},
    {"name": "NPS", "section": "80CCD(1B)", "claimed": 50000},
    {"name": "Mediclaim", "section": "80D", "claimed": 25000},
    {"name": "Home loan interest", "section": "24(b)", "claimed": 200000}
  ]
}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(calculation.NewCalculationEngine())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-25", body["financial_year"])
}

func TestCompare(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var summary domain.PlanSummary
	decode(t, resp, &summary)
	assert.Equal(t, "A", summary.Name)
	assert.Equal(t, domain.RegimeNew, summary.Comparison.Cheaper)
	assert.True(t, summary.Comparison.Old.TotalTax.Equal(decimal.NewFromInt(163800)))
	assert.True(t, summary.Comparison.New.TotalTax.Equal(decimal.NewFromInt(71500)))
	assert.True(t, summary.Comparison.Difference.Equal(decimal.NewFromInt(92300)))
}

func TestCompareOldCheaper(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", maxedPlan)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary domain.PlanSummary
	decode(t, resp, &summary)
	assert.Equal(t, domain.RegimeOld, summary.Comparison.Cheaper)
	assert.True(t, summary.Comparison.Old.TotalTax.Equal(decimal.NewFromInt(22360)))
	assert.True(t, summary.HRAExemption.Equal(decimal.NewFromInt(180000)))
}

func TestCompareSingleRegime(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare?regime=OLD", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body regimeResponse
	decode(t, resp, &body)
	assert.Equal(t, domain.RegimeOld, body.Regime)
	assert.False(t, body.Cheaper)
	assert.True(t, body.Result.TotalTax.Equal(decimal.NewFromInt(163800)))

	resp = do(t, http.MethodPost, ts.URL+"/api/v1/compare?regime=new", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.True(t, body.Cheaper)
	assert.True(t, body.Result.TotalTax.Equal(decimal.NewFromInt(71500)))

	resp = do(t, http.MethodPost, ts.URL+"/api/v1/compare?regime=flat", scenarioA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareDefaultsPlanName(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", `{"income":{"salary":500000}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary domain.PlanSummary
	decode(t, resp, &summary)
	assert.Equal(t, defaultPlanName, summary.Name)
}

func TestCompareRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t)
	tests := map[string]string{
		"negative salary": `{"income":{"salary":-1}}`,
		"unknown field":   `{"income":{"salary":1000000},"bonus":5}`,
		"misspelled deduction amount": `{"income":{"salary":1000000},"deductions":[{"name":"PPF","section":"80C","claimd":150000}]}`,
		"unknown section": `{"income":{"salary":1000000},"deductions":[{"name":"x","section":"80Q","claimed":1}]}`,
		"malformed json":  `{"income":`,
		"hra above basic": `{"income":{"salary":1000000},"hra":{"basic_salary":100,"hra_received":200}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errBody struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			decode(t, resp, &errBody)
			assert.NotEmpty(t, errBody.Error.Message)
		})
	}
}

func TestTips(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/tips", `{"income":{"salary":2000000}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tipsResponse
	decode(t, resp, &body)
	require.NotEmpty(t, body.Tips)
	assert.Equal(t, domain.Section24B, body.Tips[0].Section)
	assert.True(t, body.Tips[0].ProjectedSaving.Equal(decimal.NewFromInt(60000)))
}

func TestTipsEmptyIsArray(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/tips", `{"income":{"salary":0}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tips":[]`)
}

func TestHRA(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/hra",
		`{"basic_salary":600000,"hra_received":300000,"rent_paid":240000,"metro_city":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body hraResponse
	decode(t, resp, &body)
	assert.True(t, body.Exemption.Equal(decimal.NewFromInt(180000)))
	assert.True(t, body.Taxable.Equal(decimal.NewFromInt(120000)))

	bad := do(t, http.MethodPost, ts.URL+"/api/v1/hra", `{"rent_paid":-5}`)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestRules(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/rules", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rules domain.TaxRules
	decode(t, resp, &rules)
	assert.Equal(t, "2024-25", rules.FinancialYear)
	assert.Len(t, rules.Old.Slabs, 4)
	assert.Len(t, rules.New.Slabs, 6)
}

func TestUserRoutesNeedRepository(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/users/u1/plan", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserPlanLifecycle(t *testing.T) {
	plans, err := store.Open(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { plans.Close() })

	s := NewServer(calculation.NewCalculationEngine())
	s.SetPlanRepository(plans)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	base := ts.URL + "/api/v1/users/user-42"

	missing := do(t, http.MethodGet, base+"/plan", "")
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	created := do(t, http.MethodPut, base+"/plan", scenarioA)
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var snap store.Snapshot
	decode(t, created, &snap)
	assert.Equal(t, "user-42", snap.UserID)
	assert.Equal(t, "FY 2024-25", snap.FinancialYear)
	assert.Equal(t, domain.RegimeNew, snap.CheaperRegime)
	assert.NotEmpty(t, snap.ID)

	second := do(t, http.MethodPut, base+"/plan", maxedPlan)
	require.Equal(t, http.StatusCreated, second.StatusCode)

	latest := do(t, http.MethodGet, base+"/plan", "")
	require.Equal(t, http.StatusOK, latest.StatusCode)
	var got store.Snapshot
	decode(t, latest, &got)
	assert.Equal(t, "maxed", got.Summary.Name)
	assert.True(t, got.TotalTax.Equal(decimal.NewFromInt(22360)))

	history := do(t, http.MethodGet, base+"/history", "")
	require.Equal(t, http.StatusOK, history.StatusCode)
	var hist struct {
		Snapshots []store.Snapshot `json:"snapshots"`
	}
	decode(t, history, &hist)
	require.Len(t, hist.Snapshots, 2)
	assert.Equal(t, "maxed", hist.Snapshots[0].Summary.Name)

	limited := do(t, http.MethodGet, base+"/history?limit=1", "")
	decode(t, limited, &hist)
	assert.Len(t, hist.Snapshots, 1)

	badLimit := do(t, http.MethodGet, base+"/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, badLimit.StatusCode)

	deleted := do(t, http.MethodDelete, base+"/plan", "")
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	gone := do(t, http.MethodDelete, base+"/plan", "")
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)

	empty := do(t, http.MethodGet, base+"/history", "")
	raw, err := io.ReadAll(empty.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshots":[]}`, string(raw))
}

func TestCompareIsCached(t *testing.T) {
	mem := cache.NewMemoryCache()
	s := NewServer(calculation.NewCalculationEngine())
	s.SetCache(mem, time.Minute)
	cached := httptest.NewServer(s.Handler())
	t.Cleanup(cached.Close)

	hits := counterValue(t, cacheRequestsTotal.WithLabelValues("hit"))
	misses := counterValue(t, cacheRequestsTotal.WithLabelValues("miss"))

	first := do(t, http.MethodPost, cached.URL+"/api/v1/compare", scenarioA)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))
	firstBody, err := io.ReadAll(first.Body)
	require.NoError(t, err)

	second := do(t, http.MethodPost, cached.URL+"/api/v1/compare", scenarioA)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))
	secondBody, err := io.ReadAll(second.Body)
	require.NoError(t, err)
	assert.Equal(t, string(firstBody), string(secondBody))

	assert.Equal(t, hits+1, counterValue(t, cacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+1, counterValue(t, cacheRequestsTotal.WithLabelValues("miss")))

	// tips for the same plan live under their own key
	tips := do(t, http.MethodPost, cached.URL+"/api/v1/tips", scenarioA)
	assert.Equal(t, "MISS", tips.Header.Get("X-Cache"))
	assert.Equal(t, 2, mem.Len())
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(calculation.NewCalculationEngine())
	s.EnableMetrics()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	before := counterValue(t, comparisonsTotal.WithLabelValues("new"))
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, before+1, counterValue(t, comparisonsTotal.WithLabelValues("new")))

	metrics := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, metrics.StatusCode)
	raw, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "regimecalc_api_comparisons_total")
	assert.Contains(t, string(raw), `route="/api/v1/compare"`)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
