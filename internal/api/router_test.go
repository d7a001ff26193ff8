package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/services"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	instance *domain.Instance
}

func (s *stubRepo) LoadInstance(context.Context) (*domain.Instance, error) { return s.instance, nil }

func (s *stubRepo) ListNodes(context.Context) ([]domain.Node, error) { return s.instance.Nodes.All(), nil }

// lineInstance places customers on a line at 1..4 with 100 kg each.
func lineInstance(t *testing.T, classes ...domain.VehicleClass) *domain.Instance {
	t.Helper()

	nodes := []domain.Node{{ID: 0}}
	for i := 1; i <= 4; i++ {
		nodes = append(nodes, domain.Node{ID: i, DemandKg: 100, DemandM3: 1})
	}
	table, err := domain.NewNodeTable(nodes)
	require.NoError(t, err)

	fleet, err := domain.NewFleetSpec(classes)
	require.NoError(t, err)

	return &domain.Instance{
		Nodes:     table,
		Distances: distance.NewLineMatrix([]float64{0, 1, 2, 3, 4}),
		Fleet:     fleet,
		FuelPrice: 2,
	}
}

func newTestServer(t *testing.T, instance *domain.Instance) *httptest.Server {
	t.Helper()
	router := NewRouter(&stubRepo{instance: instance}, cache.NewMemoryPlanStore(), services.PlanRequest{})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postPlan(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/plans", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 1, Available: 1}))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestListNodes(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 1, Available: 1}))

	resp, err := http.Get(srv.URL + "/nodes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ListNodesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Nodes, 5)
	require.True(t, body.Nodes[0].Depot)
	require.Equal(t, 100.0, body.Nodes[3].DemandKg)
}

func TestPlanAndFetch(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 0.5, Available: 1}))

	resp := postPlan(t, srv, `{"strategy": "tier-tracked", "improvement": "vnd", "depart_at": "2026-01-01T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plan dto.PlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	require.NotEmpty(t, plan.ID)
	require.Len(t, plan.Routes, 1)
	require.Equal(t, "truck", plan.Routes[0].VehicleClass)
	require.InDelta(t, 8.0, plan.TotalDistance, 1e-9)
	// distance 8 × rate 0.5 × price 2
	require.InDelta(t, 8.0, plan.Cost, 1e-9)
	require.NotNil(t, plan.Search)
	require.NotNil(t, plan.Routes[0].Stops[0].ArriveAt)

	got, err := http.Get(srv.URL + "/plans/" + plan.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)

	var fetched dto.PlanResponse
	require.NoError(t, json.NewDecoder(got.Body).Decode(&fetched))
	require.Equal(t, plan.ID, fetched.ID)
	require.Equal(t, plan.Routes, fetched.Routes)
	require.Nil(t, fetched.Search)
}

func TestPlanRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 1, Available: 1}))

	for _, body := range []string{
		`{"strategy": "random"}`,
		`{"improvement": "tabu"}`,
		`{"fullness_weight": 2}`,
		`{"max_moves": -1}`,
		`{"unknown": true}`,
		`{} {}`,
	} {
		resp := postPlan(t, srv, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}

	resp, err := http.Get(srv.URL + "/plans")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPlanInfeasibleIsUnprocessable(t *testing.T) {
	// 400 kg of demand against 300 kg of fleet.
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "van", CapacityKg: 150, CapacityM3: 10, FuelRate: 1, Available: 2}))

	resp := postPlan(t, srv, `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["error"])
	require.Equal(t, resp.Header.Get("X-Request-ID"), body["request_id"])
}

func TestGetUnknownPlan(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 1, Available: 1}))

	resp, err := http.Get(srv.URL + "/plans/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, lineInstance(t, domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 1, Available: 1}))

	resp := postPlan(t, srv, `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer m.Body.Close()

	b, err := io.ReadAll(m.Body)
	require.NoError(t, err)
	text := string(b)
	require.True(t, strings.Contains(text, "plan_runs_total"), "plan runs exported")
	require.True(t, strings.Contains(text, `http_requests_total{method="POST",path="/plans",status="200"}`), "request metric labelled by pattern")
}
