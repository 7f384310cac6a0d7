package planner

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostPlans(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})

	rec := do(t, mux, http.MethodPost, "/plans?project=garden-7",
		`{"mode":"continuous","length_m":40,"total_flow_lh":120,"connectors":{"elbows":2,"tees":1,"straights":3}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var evt messages.PlanComputedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evt))
	assert.Equal(t, "garden-7", evt.ProjectID)
	assert.Equal(t, "continuous", evt.Result.Type)
	assert.Equal(t, 16.0, evt.Result.RecommendedPipeMM)
	assert.Equal(t, 1.164, evt.Result.RequiredInletPressureBar)
	assert.Len(t, evt.Result.GraphData.X, 51)
	require.NotNil(t, evt.Result.DebugInfo)
}

func TestPostPlans_BadRequests(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})

	for name, body := range map[string]string{
		"malformed":     `{"mode":`,
		"unknown field": `{"mode":"continuous","length":40}`,
		"bad mode":      `{"mode":"sprinkler","length_m":40}`,
		"no outlets":    `{"mode":"planters","length_m":40,"num_outlets":-1}`,
		"odd dripper":   `{"mode":"continuous","length_m":40,"dripper_counts":{"3":2}}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/plans", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var e errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
		})
	}

	rec := do(t, mux, http.MethodGet, "/plans", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPostPlans_DefaultsOnlyWhenAbsent(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})

	rec := do(t, mux, http.MethodPost, "/plans", `{"mode":"planters"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var evt messages.PlanComputedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evt))
	assert.Equal(t, messages.DefaultLengthM, evt.Request.LengthM)
	assert.Equal(t, messages.DefaultOutlets, evt.Request.NumOutlets)
	assert.Len(t, evt.Result.DetailedPlantersList, messages.DefaultOutlets)
	assert.Equal(t, 10.0, evt.Result.TotalFlowLH)

	for _, body := range []string{
		`{"mode":"planters","length_m":30,"num_outlets":0}`,
		`{"mode":"continuous","length_m":0,"total_flow_lh":10}`,
		`{"mode":"planters","length_m":30,"num_outlets":4611686018427387903}`,
		`{"mode":"planters","length_m":151,"num_outlets":3}`,
	} {
		rec = do(t, mux, http.MethodPost, "/plans", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetPlans(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})

	_, err := s.Compute(t.Context(), "p", messages.ScenarioRequest{Mode: entities.ModePlanters, LengthM: 30, NumOutlets: 3})
	require.NoError(t, err)

	rec := do(t, mux, http.MethodGet, "/plans/latest?source=influx&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", rec.Header().Get("X-Data-Source"))
	var list []messages.PlanSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "plan-1", list[0].PlanID)

	rec = do(t, mux, http.MethodGet, "/plans/plan-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var evt messages.PlanComputedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evt))
	assert.Len(t, evt.Result.DetailedPlantersList, 3)

	rec = do(t, mux, http.MethodGet, "/plans/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})

	rec := do(t, mux, http.MethodGet, "/catalog/pipes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pipes []entities.PipeSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pipes))
	assert.Len(t, pipes, s.Catalog().Len())
	for i := 1; i < len(pipes); i++ {
		assert.Less(t, pipes[i-1].NominalMM, pipes[i].NominalMM)
	}

	rec = do(t, mux, http.MethodGet, "/catalog/fittings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/catalog/drippers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var drippers []entities.DripperSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drippers))
	require.Len(t, drippers, 1)
	assert.Equal(t, "Button dripper", drippers[0].DripperType)
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestService(t, nil)

	rec := do(t, NewHTTPMux(s, Probes{}), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st healthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "ok", st.Status)
	assert.Positive(t, st.CatalogPipes)

	rec = do(t, NewHTTPMux(s, Probes{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	strict := NewHTTPMux(s, Probes{MQTTRequired: true})
	rec = do(t, strict, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = do(t, strict, http.MethodGet, "/healthz", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "degraded", st.Status)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestService(t, nil)
	mux := NewHTTPMux(s, Probes{})
	do(t, mux, http.MethodPost, "/plans", `{"mode":"continuous","length_m":40,"total_flow_lh":10}`)
	do(t, mux, http.MethodPost, "/plans", `{"mode":"continuous","length_m":0.0001,"total_flow_lh":-1}`)

	rec := do(t, mux, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dripplan_plans_computed_total{mode="continuous"} 1`)
	assert.Contains(t, body, `dripplan_plans_rejected_total{source="http"} 1`)
	assert.Contains(t, body, "dripplan_compute_duration_seconds_count 1")
}
