package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
	"net/http"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixRow retrieves distance and duration from one origin to many
// destinations using the OpenRouteService matrix endpoint. Results follow
// the order of destinations.
func (o *ORSMatrixBuilder) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return []ports.DistanceResult{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, c := range destinations {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i := range destinations {
		// ORS reports unroutable pairs as null.
		if rowDistances[i] == nil || rowDurations[i] == nil {
			return nil, fmt.Errorf("matrix returned no route to destination %d %v", i, destinations[i].CoordsToList())
		}
		out[i] = ports.DistanceResult{Distance: *rowDistances[i], DurationSeconds: *rowDurations[i]}
	}

	return out, nil
}
