package ports

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"time"
)

var ErrPlanNotFound = errors.New("plan not found")

// Stored result of one planning run.
type StoredPlan struct {
	ID            string             `json:"id"`
	Strategy      string             `json:"strategy"`
	Improvement   string             `json:"improvement"`
	Cost          float64            `json:"cost"`
	InitialCost   float64            `json:"initial_cost"`
	TotalDistance float64            `json:"total_distance"`
	DepartAt      *time.Time         `json:"depart_at,omitempty"`
	Routes        []domain.RoutePlan `json:"routes"`
}

// Port: persistence for solved plans so they can be fetched by id.
type PlanStore interface {
	SavePlan(ctx context.Context, plan StoredPlan) error
	GetPlan(ctx context.Context, id string) (StoredPlan, error)
}
