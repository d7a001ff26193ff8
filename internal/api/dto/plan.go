package dto

import "time"

type PlanRequest struct {
	Strategy        string     `json:"strategy"`
	Improvement     string     `json:"improvement"`
	FuelPrice       float64    `json:"fuel_price"`
	FullnessWeight  *float64   `json:"fullness_weight"`
	MaxMoves        int        `json:"max_moves"`
	TimeLimitMs     int        `json:"time_limit_ms"`
	ParallelSavings bool       `json:"parallel_savings"`
	DepartAt        *time.Time `json:"depart_at"`
}

type PlanStopResponse struct {
	NodeID             int        `json:"node_id"`
	ArriveAfterSeconds float64    `json:"arrive_after_seconds"`
	ArriveAt           *time.Time `json:"arrive_at,omitempty"`
	Distance           float64    `json:"distance"`
}

type RouteResponse struct {
	VehicleClass         string             `json:"vehicle_class"`
	LoadKg               float64            `json:"load_kg"`
	LoadM3               float64            `json:"load_m3"`
	TotalDistance        float64            `json:"total_distance"`
	TotalDurationSeconds float64            `json:"total_duration_seconds"`
	FuelCost             float64            `json:"fuel_cost"`
	Stops                []PlanStopResponse `json:"stops"`
}

type SearchResponse struct {
	Moves     map[string]int `json:"moves"`
	Truncated bool           `json:"truncated"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

type PlanResponse struct {
	ID            string          `json:"id"`
	Strategy      string          `json:"strategy"`
	Improvement   string          `json:"improvement"`
	InitialCost   float64         `json:"initial_cost"`
	Cost          float64         `json:"cost"`
	TotalDistance float64         `json:"total_distance"`
	DepartAt      *time.Time      `json:"depart_at,omitempty"`
	Routes        []RouteResponse `json:"routes"`
	Search        *SearchResponse `json:"search,omitempty"`
}
