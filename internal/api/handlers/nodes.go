package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"net/http"

	"go.uber.org/zap"
)

// NodeHandler exposes read-only node retrieval endpoints.
type NodeHandler struct {
	Repo ports.InstanceRepository
}

func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	nodes, err := h.Repo.ListNodes(r.Context())
	if err != nil {
		zap.L().Error("list nodes failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListNodesResponse{
		Nodes: make([]dto.NodeResponse, 0, len(nodes)),
	}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, dto.NodeResponse{
			ID:             n.ID,
			Lon:            n.Coordinates.Lon,
			Lat:            n.Coordinates.Lat,
			DemandKg:       n.DemandKg,
			DemandM3:       n.DemandM3,
			ServiceSeconds: n.ServiceSeconds,
			Depot:          n.ID == domain.DepotID,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
