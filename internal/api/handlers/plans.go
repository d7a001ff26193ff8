package handlers

import (
	"encoding/json"
	"errors"
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxTimeLimitMs = 10 * 60 * 1000

type PlanHandler struct {
	Repo  ports.InstanceRepository
	Store ports.PlanStore
	// Defaults applies to fields the request leaves empty.
	Defaults services.PlanRequest
}

// Plan builds and improves routes for the whole instance, stores the
// result and returns it.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq, msg := h.toServiceRequest(req)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	result, err := services.PlanFleet(r.Context(), svcReq, h.Repo)
	if err != nil {
		status, msg := planErrorStatus(err)
		zap.L().Error("plan fleet failed", zap.Int("status", status), zap.Error(err))
		writeError(w, r, status, msg)
		return
	}

	stored := StoredPlanFrom(result, req.DepartAt)
	if h.Store != nil {
		if err := h.Store.SavePlan(r.Context(), stored); err != nil {
			// The plan is still returned; only GET /plans/{id} misses it.
			zap.L().Warn("save plan failed", zap.String("plan_id", stored.ID), zap.Error(err))
		}
	}

	res := ToPlanResponse(stored)
	res.Search = toSearchResponse(result.Search)
	writeJSON(w, r, http.StatusOK, res)
}

// Get returns a previously stored plan.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Store == nil {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "plan id is required")
		return
	}

	plan, err := h.Store.GetPlan(r.Context(), id)
	if errors.Is(err, ports.ErrPlanNotFound) {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		zap.L().Error("get plan failed", zap.String("plan_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, ToPlanResponse(plan))
}

// toServiceRequest merges the body over the defaults. A non-empty message
// means the request is invalid.
func (h *PlanHandler) toServiceRequest(req dto.PlanRequest) (services.PlanRequest, string) {
	out := h.Defaults

	if s := strings.TrimSpace(req.Strategy); s != "" {
		strategy, err := domain.ParseStrategy(s)
		if err != nil {
			return out, "unknown strategy"
		}
		out.Strategy = strategy
	}
	if s := strings.TrimSpace(req.Improvement); s != "" {
		improvement, err := domain.ParseImprovement(s)
		if err != nil {
			return out, "unknown improvement"
		}
		out.Improvement = improvement
	}

	if req.FuelPrice < 0 {
		return out, "fuel_price must be non-negative"
	}
	if req.FuelPrice > 0 {
		out.FuelPrice = req.FuelPrice
	}

	if req.FullnessWeight != nil {
		if *req.FullnessWeight < 0 || *req.FullnessWeight > 1 {
			return out, "fullness_weight must be between 0 and 1"
		}
		out.FullnessWeight = *req.FullnessWeight
	}

	if req.MaxMoves < 0 {
		return out, "max_moves must be non-negative"
	}
	if req.MaxMoves > 0 {
		out.MaxMoves = req.MaxMoves
	}

	if req.TimeLimitMs < 0 || req.TimeLimitMs > maxTimeLimitMs {
		return out, "time_limit_ms must be between 0 and 600000"
	}
	if req.TimeLimitMs > 0 {
		out.TimeLimit = time.Duration(req.TimeLimitMs) * time.Millisecond
	}

	out.ParallelSavings = out.ParallelSavings || req.ParallelSavings
	return out, ""
}

func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInfeasibleInstance):
		return http.StatusUnprocessableEntity, "instance is infeasible for the fleet"
	case errors.Is(err, domain.ErrFleetExhausted):
		return http.StatusUnprocessableEntity, "fleet has too few vehicles for the routes"
	case errors.Is(err, domain.ErrCapacityViolation):
		return http.StatusUnprocessableEntity, "a route exceeds every vehicle capacity"
	}
	return http.StatusInternalServerError, "internal server error"
}

// StoredPlanFrom keeps what a later GET needs from a solve result.
func StoredPlanFrom(result *services.PlanResult, departAt *time.Time) ports.StoredPlan {
	return ports.StoredPlan{
		ID:            result.ID,
		Strategy:      string(result.Strategy),
		Improvement:   string(result.Improvement),
		Cost:          result.Cost,
		InitialCost:   result.InitialCost,
		TotalDistance: result.TotalDistance,
		DepartAt:      departAt,
		Routes:        result.Routes,
	}
}

func toSearchResponse(stats services.SearchStats) *dto.SearchResponse {
	return &dto.SearchResponse{
		Moves:     stats.Moves,
		Truncated: stats.Truncated,
		ElapsedMs: stats.Elapsed.Milliseconds(),
	}
}

// ToPlanResponse renders a stored plan, adding wall-clock arrivals when the
// plan has a departure time.
func ToPlanResponse(p ports.StoredPlan) dto.PlanResponse {
	res := dto.PlanResponse{
		ID:            p.ID,
		Strategy:      p.Strategy,
		Improvement:   p.Improvement,
		InitialCost:   p.InitialCost,
		Cost:          p.Cost,
		TotalDistance: p.TotalDistance,
		DepartAt:      p.DepartAt,
		Routes:        make([]dto.RouteResponse, 0, len(p.Routes)),
	}

	for _, route := range p.Routes {
		stops := make([]dto.PlanStopResponse, 0, len(route.Stops))
		for _, s := range route.Stops {
			stop := dto.PlanStopResponse{
				NodeID:             s.NodeID,
				ArriveAfterSeconds: s.ArriveAfterSeconds,
				Distance:           s.Distance,
			}
			if p.DepartAt != nil {
				at := p.DepartAt.Add(time.Duration(s.ArriveAfterSeconds * float64(time.Second)))
				stop.ArriveAt = &at
			}
			stops = append(stops, stop)
		}

		res.Routes = append(res.Routes, dto.RouteResponse{
			VehicleClass:         route.VehicleClass,
			LoadKg:               route.Load.Kg,
			LoadM3:               route.Load.M3,
			TotalDistance:        route.TotalDistance,
			TotalDurationSeconds: route.TotalDurationSeconds,
			FuelCost:             route.FuelCost,
			Stops:                stops,
		})
	}
	return res
}
