package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assessmentapp "hydropower-calc/internal/assessment/application"
	assessment "hydropower-calc/internal/assessment/domain"
	"hydropower-calc/internal/audit"
	"hydropower-calc/internal/config"
	"hydropower-calc/internal/report"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }

type staticIDs struct{}

func (staticIDs) NewID() string { return "asmt-fixed" }

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAudit) Log(_ context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

const referenceBody = `{
  "name": "reference",
  "site": {"head_m": 50, "flow_m3s": 10, "turbine_type": "Francis", "efficiency": 0.9, "site_type": "diversion", "capacity_factor": 0.5},
  "economics": {"electricity_price_usd_per_mwh": 60, "project_lifetime_years": 30, "discount_rate": 0.06, "capex_usd_per_kw": 3000, "om_rate": 0.02}
}`

func newTestServer(t *testing.T) (*http.ServeMux, *recordingAudit) {
	t.Helper()
	svc, err := assessmentapp.NewService(assessment.DefaultViabilityThresholds(),
		assessmentapp.WithClock(fixedClock{}),
		assessmentapp.WithIDGenerator(staticIDs{}),
	)
	require.NoError(t, err)

	cfg := config.Default()
	recorder := &recordingAudit{}
	handler, err := NewHandler(svc, cfg.Presets, cfg.Economics, WithAuditLogger(recorder))
	require.NoError(t, err)

	mux := http.NewServeMux()
	handler.Register(mux)
	return mux, recorder
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	return resp
}

func TestNewHandlerRequiresService(t *testing.T) {
	_, err := NewHandler(nil, nil, assessment.EconomicInput{})
	assert.Error(t, err)
}

func TestAssessReferenceSite(t *testing.T) {
	mux, recorder := newTestServer(t)

	resp := do(t, mux, http.MethodPost, "/api/v1/assessments", referenceBody)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var got assessment.Assessment
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "asmt-fixed", got.ID)
	assert.Equal(t, assessment.TurbineFrancis, got.Site.TurbineType())
	assert.InDelta(t, 4414.5, got.Power.PowerKW, 1e-9)
	assert.InDelta(t, 895260.6, got.Economic.AnnualNetCashFlowUSD, 1e-6)
	assert.Len(t, got.Economic.CashFlowSeries, 31)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "assessment.create", recorder.entries[0].Action)
	assert.Equal(t, audit.DigestJSON([]byte(referenceBody)), recorder.entries[0].PayloadDigest)
}

func TestAssessValidationErrorsAre422(t *testing.T) {
	mux, recorder := newTestServer(t)
	body := `{"site": {"head_m": 0, "flow_m3s": 10, "turbine_type": "waterwheel", "efficiency": 0.9, "site_type": "diversion", "capacity_factor": 0.5},
	          "economics": {"electricity_price_usd_per_mwh": 60, "project_lifetime_years": 30, "discount_rate": 0.2, "capex_usd_per_kw": 3000, "om_rate": 0.02}}`

	resp := do(t, mux, http.MethodPost, "/api/v1/assessments", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var got violationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	fields := []string{}
	for _, v := range got.Violations {
		fields = append(fields, v.Field)
		assert.Nil(t, v.Scenario)
	}
	assert.Equal(t, []string{"head_m", "turbine_type", "discount_rate"}, fields)
	assert.Equal(t, "(0, 500]", got.Violations[0].Bound)
	assert.Empty(t, recorder.entries)
}

func TestAssessUsesPresetAndDefaultEconomics(t *testing.T) {
	mux, _ := newTestServer(t)

	resp := do(t, mux, http.MethodPost, "/api/v1/assessments", `{"preset": "small-run-of-river"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got assessment.Assessment
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "small-run-of-river", got.Name)
	assert.Equal(t, assessment.TurbineKaplan, got.Site.TurbineType())
	assert.Equal(t, config.Default().Economics, got.Economics.Input())
}

func TestAssessBadRequests(t *testing.T) {
	mux, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/v1/assessments", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/v1/assessments", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/v1/assessments", `{"preset":"atlantis"}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodGet, "/api/v1/assessments", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPost, "/api/v1/assessments/other", referenceBody).Code)

	huge := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(t, mux, http.MethodPost, "/api/v1/assessments", huge).Code)
}

func TestExportFormats(t *testing.T) {
	mux, recorder := newTestServer(t)

	for _, format := range report.Formats {
		resp := do(t, mux, http.MethodPost, "/api/v1/assessments/export."+string(format), referenceBody)
		require.Equal(t, http.StatusOK, resp.Code, format)
		assert.Equal(t, format.ContentType(), resp.Header().Get("Content-Type"), format)
		assert.Contains(t, resp.Header().Get("Content-Disposition"), "hydropower_", format)
		assert.Equal(t, "asmt-fixed", resp.Header().Get("X-Assessment-ID"))
		assert.NotZero(t, resp.Body.Len(), format)
	}
	assert.Len(t, recorder.entries, len(report.Formats))

	pdf := do(t, mux, http.MethodPost, "/api/v1/assessments/export.pdf", referenceBody)
	assert.True(t, bytes.HasPrefix(pdf.Body.Bytes(), []byte("%PDF")))

	jsonResp := do(t, mux, http.MethodPost, "/api/v1/assessments/export.json", referenceBody)
	decoded, err := report.DecodeJSON(jsonResp.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "reference", decoded.Name)
}

func TestExportUnknownFormatAndInvalidInput(t *testing.T) {
	mux, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPost, "/api/v1/assessments/export.docx", referenceBody).Code)

	bad := strings.Replace(referenceBody, `"om_rate": 0.02`, `"om_rate": 0.5`, 1)
	resp := do(t, mux, http.MethodPost, "/api/v1/assessments/export.csv", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCompareScenarios(t *testing.T) {
	mux, recorder := newTestServer(t)
	body := `{"scenarios": [
	  {"name": "base", "preset": "medium-diversion"},
	  {"name": "cheap power", "preset": "medium-diversion", "economics": {"electricity_price_usd_per_mwh": 30, "project_lifetime_years": 30, "discount_rate": 0.06, "capex_usd_per_kw": 3000, "om_rate": 0.025}}
	]}`

	resp := do(t, mux, http.MethodPost, "/api/v1/scenarios/compare", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got assessmentapp.Comparison
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got.Ranking, 2)
	assert.Equal(t, "base", got.Ranking[0].Name)
	assert.Equal(t, "cheap power", got.Ranking[1].Name)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "scenario.compare", recorder.entries[0].Action)
}

func TestCompareErrors(t *testing.T) {
	mux, _ := newTestServer(t)

	one := `{"scenarios": [{"preset": "medium-diversion"}]}`
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/v1/scenarios/compare", one).Code)

	unknown := `{"scenarios": [{"preset": "medium-diversion"}, {"preset": "nowhere"}]}`
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/api/v1/scenarios/compare", unknown).Code)

	invalid := `{"scenarios": [
	  {"preset": "medium-diversion"},
	  {"site": {"head_m": 50, "flow_m3s": 5000, "turbine_type": "francis", "efficiency": 0.9, "site_type": "diversion", "capacity_factor": 0.5}}
	]}`
	resp := do(t, mux, http.MethodPost, "/api/v1/scenarios/compare", invalid)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var got violationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got.Violations, 1)
	require.NotNil(t, got.Violations[0].Scenario)
	assert.Equal(t, 1, *got.Violations[0].Scenario)
	assert.Equal(t, "flow_m3s", got.Violations[0].Field)
}

func TestPresets(t *testing.T) {
	mux, _ := newTestServer(t)

	resp := do(t, mux, http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var got []struct {
		Name      string                   `json:"name"`
		Site      assessment.SiteInput     `json:"site"`
		Economics assessment.EconomicInput `json:"economics"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "small-run-of-river", got[0].Name)
	assert.Equal(t, 30, got[0].Economics.ProjectLifetimeYears)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodPost, "/api/v1/presets", "").Code)
}
