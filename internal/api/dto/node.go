package dto

type NodeResponse struct {
	ID             int     `json:"id"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	DemandKg       float64 `json:"demand_kg"`
	DemandM3       float64 `json:"demand_m3"`
	ServiceSeconds float64 `json:"service_seconds"`
	Depot          bool    `json:"depot"`
}

type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}
