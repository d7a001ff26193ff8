package distance

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDenseMatrixValidates(t *testing.T) {
	_, err := NewDenseMatrix([][]float64{{0, 1}, {1}}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInstance)

	_, err = NewDenseMatrix([][]float64{{0, -1}, {1, 0}}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInstance)

	_, err = NewDenseMatrix([][]float64{{0, 1}, {1, 0}}, [][]float64{{0, 1}})
	require.ErrorIs(t, err, domain.ErrInvalidInstance)

	m, err := NewDenseMatrix([][]float64{{0, 2}, {3, 0}}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, m.Size())
	require.Equal(t, 3.0, m.Distance(1, 0))
	require.Zero(t, m.Duration(0, 1))
}

func TestHaversineBuilder(t *testing.T) {
	coords := []domain.Coordinates{
		{Lon: 11.3426, Lat: 44.4949}, // Bologna
		{Lon: 11.2558, Lat: 43.7696}, // Florence
	}

	m, err := NewHaversineBuilder(60).BuildMatrix(context.Background(), coords)
	require.NoError(t, err)

	d := m.Distance(0, 1)
	require.InDelta(t, 80800, d, 1500)
	require.Equal(t, d, m.Distance(1, 0))
	require.Zero(t, m.Distance(0, 0))
	require.InDelta(t, d/(60*1000.0/3600), m.Duration(0, 1), 1e-6)
}

func TestNewMockMatrixPanicsOnMissingPair(t *testing.T) {
	require.Panics(t, func() {
		NewMockMatrix(3, []MockPair{{From: 0, To: 1, Distance: 1}}, true)
	})
}

// memoryCache is a ports.DistanceCache fake.
type memoryCache struct {
	mu   sync.Mutex
	rows map[string]map[string]ports.DistanceResult
}

func (c *memoryCache) GetMany(_ context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range destinations {
		if r, ok := c.rows[origin][d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows == nil {
		c.rows = map[string]map[string]ports.DistanceResult{}
	}
	if c.rows[origin] == nil {
		c.rows[origin] = map[string]ports.DistanceResult{}
	}
	for k, v := range results {
		c.rows[origin][k] = v
	}
	return nil
}

// fakeORS answers matrix requests with 1000 m per degree of longitude and
// fails the first failures requests with 503.
func fakeORS(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= failures {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		require.Equal(t, "/v2/matrix/driving-hgv", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("Authorization"))

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		origin := req.Locations[req.Sources[0]]
		dists := make([]*float64, 0, len(req.Destinations))
		durs := make([]*float64, 0, len(req.Destinations))
		for _, idx := range req.Destinations {
			d := math.Abs(req.Locations[idx][0]-origin[0]) * 1000
			s := d / 10
			dists = append(dists, &d)
			durs = append(durs, &s)
		}
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{dists},
			Durations: [][]*float64{durs},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testCoords() []domain.Coordinates {
	return []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 3, Lat: 0}}
}

func TestORSMatrixBuilderBuildsAndCaches(t *testing.T) {
	srv, calls := fakeORS(t, 0)
	cache := &memoryCache{}

	b, err := NewORSMatrixBuilder("test-key", cache,
		WithBaseURL(srv.URL), WithRateLimit(1000, 10), WithBackoff(time.Millisecond))
	require.NoError(t, err)

	m, err := b.BuildMatrix(context.Background(), testCoords())
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())

	require.Equal(t, 1000.0, m.Distance(0, 1))
	require.Equal(t, 2000.0, m.Distance(2, 1))
	require.Equal(t, 300.0, m.Duration(0, 2))
	require.Zero(t, m.Distance(1, 1))

	// Second build is served from the cache.
	_, err = b.BuildMatrix(context.Background(), testCoords())
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestORSMatrixBuilderRetriesTransientFailures(t *testing.T) {
	srv, calls := fakeORS(t, 2)

	b, err := NewORSMatrixBuilder("test-key", nil,
		WithBaseURL(srv.URL), WithRateLimit(1000, 10), WithBackoff(time.Millisecond), WithWorkers(1))
	require.NoError(t, err)

	m, err := b.BuildMatrix(context.Background(), testCoords()[:2])
	require.NoError(t, err)
	require.Equal(t, 1000.0, m.Distance(1, 0))
	require.Equal(t, int32(4), calls.Load())
}

func TestORSMatrixBuilderGivesUpOnClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	b, err := NewORSMatrixBuilder("test-key", nil, WithBaseURL(srv.URL), WithRateLimit(1000, 10))
	require.NoError(t, err)

	_, err = b.BuildMatrix(context.Background(), testCoords())
	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestNewORSMatrixBuilderRequiresKey(t *testing.T) {
	_, err := NewORSMatrixBuilder("", nil)
	require.Error(t, err)
}
