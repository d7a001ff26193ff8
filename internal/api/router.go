package api

import (
	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/platform/metrics"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.InstanceRepository, store ports.PlanStore, defaults services.PlanRequest) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	nodeHandler := &handlers.NodeHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Repo:     repo,
		Store:    store,
		Defaults: defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/nodes", nodeHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/{id}", planHandler.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
