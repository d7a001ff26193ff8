package distance

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"math"
)

const earthRadiusMeters = 6371000.0

// HaversineBuilder derives a symmetric matrix from great-circle distances
// in meters, with durations from a constant average speed.
type HaversineBuilder struct {
	SpeedKmh float64
}

func NewHaversineBuilder(speedKmh float64) *HaversineBuilder {
	if speedKmh <= 0 {
		speedKmh = 40
	}
	return &HaversineBuilder{SpeedKmh: speedKmh}
}

func (h *HaversineBuilder) BuildMatrix(ctx context.Context, coords []domain.Coordinates) (domain.DistanceMatrix, error) {
	if len(coords) == 0 {
		return nil, errors.New("haversine matrix: no coordinates")
	}

	metersPerSecond := h.SpeedKmh * 1000 / 3600
	n := len(coords)
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := range n {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
	}

	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			d := Haversine(coords[i], coords[j])
			dist[i][j], dist[j][i] = d, d
			dur[i][j], dur[j][i] = d/metersPerSecond, d/metersPerSecond
		}
	}

	return NewDenseMatrix(dist, dur)
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b domain.Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
