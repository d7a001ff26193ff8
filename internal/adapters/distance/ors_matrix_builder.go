package distance

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ORSMatrixBuilder builds a full travel matrix with OpenRouteService,
// one origin row per request.
//
// It coordinates:
//   - Persistent row caching keyed by coordinates
//   - Client-side rate limiting shared by all rows
//   - External API calls with retry/backoff
//
// The builder is safe for concurrent use.
type ORSMatrixBuilder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	cache       ports.DistanceCache
	limiter     *rate.Limiter
	workers     int
	maxAttempts int
	backoff     time.Duration
}

type ORSOption func(*ORSMatrixBuilder)

// WithBaseURL points the builder at another ORS deployment.
func WithBaseURL(url string) ORSOption { return func(o *ORSMatrixBuilder) { o.baseURL = url } }

func WithProfile(profile string) ORSOption { return func(o *ORSMatrixBuilder) { o.profile = profile } }

// WithRateLimit caps requests per second; burst allows short spikes.
func WithRateLimit(perSecond float64, burst int) ORSOption {
	return func(o *ORSMatrixBuilder) { o.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1)) }
}

func WithWorkers(n int) ORSOption { return func(o *ORSMatrixBuilder) { o.workers = max(n, 1) } }

// WithBackoff sets the first retry delay; it doubles on every retry.
func WithBackoff(d time.Duration) ORSOption { return func(o *ORSMatrixBuilder) { o.backoff = d } }

func NewORSMatrixBuilder(apiKey string, cache ports.DistanceCache, opts ...ORSOption) (*ORSMatrixBuilder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSMatrixBuilder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-hgv",
		cache:   cache,
		// Free ORS plans allow 40 matrix requests per minute.
		limiter:     rate.NewLimiter(rate.Limit(40.0/60.0), 1),
		workers:     4,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// BuildMatrix fetches every origin row concurrently. The matrix is indexed
// by position in coords.
func (o *ORSMatrixBuilder) BuildMatrix(ctx context.Context, coords []domain.Coordinates) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.BuildMatrix")(&err)

	n := len(coords)
	if n == 0 {
		return nil, errors.New("ors matrix: no coordinates")
	}

	keys := make([]string, n)
	for i, c := range coords {
		keys[i] = CoordinateKey(c)
	}

	dist := make([][]float64, n)
	dur := make([][]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range n {
		g.Go(func() error {
			row, err := o.row(gctx, i, coords, keys)
			if err != nil {
				return fmt.Errorf("ors matrix: row %d: %w", i, err)
			}
			dist[i] = make([]float64, n)
			dur[i] = make([]float64, n)
			for j, r := range row {
				dist[i][j], dur[i][j] = r.Distance, r.DurationSeconds
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewDenseMatrix(dist, dur)
}

// row resolves distances from coords[i] to every location, serving what
// it can from the cache. Locations sharing the origin's key are zero.
func (o *ORSMatrixBuilder) row(
	ctx context.Context,
	i int,
	coords []domain.Coordinates,
	keys []string,
) ([]ports.DistanceResult, error) {
	origin := keys[i]

	seen := make(map[string]struct{}, len(keys))
	destList := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == origin {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		destList = append(destList, k)
	}

	hits := make(map[string]ports.DistanceResult)
	// Check persistent distance cache before issuing external API calls.
	if o.cache != nil && len(destList) > 0 {
		var err error
		hits, err = o.cache.GetMany(ctx, origin, destList)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: %w", err)
		}
		if hits == nil {
			hits = make(map[string]ports.DistanceResult)
		}
	}

	var (
		misses      []string
		missCoords  []domain.Coordinates
		coordsByKey = make(map[string]domain.Coordinates, len(keys))
	)
	for j, k := range keys {
		coordsByKey[k] = coords[j]
	}
	for _, d := range destList {
		if _, ok := hits[d]; !ok {
			misses = append(misses, d)
			missCoords = append(missCoords, coordsByKey[d])
		}
	}

	if len(misses) > 0 {
		fetched, err := o.fetchMatrixRow(ctx, coords[i], missCoords)
		if err != nil {
			return nil, fmt.Errorf("fetching matrix row: %w", err)
		}

		fresh := make(map[string]ports.DistanceResult, len(misses))
		for j, d := range misses {
			fresh[d] = fetched[j]
			hits[d] = fetched[j]
		}

		if o.cache != nil {
			if err := o.cache.PutMany(ctx, origin, fresh); err != nil {
				zap.L().Warn("distance cache write failed", zap.String("origin", origin), zap.Error(err))
			}
		}
	}

	out := make([]ports.DistanceResult, len(keys))
	for j, k := range keys {
		if k == origin {
			continue
		}
		out[j] = hits[k]
	}
	return out, nil
}

// CoordinateKey is the cache key of a location, rounded to about 10 cm.
func CoordinateKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}
