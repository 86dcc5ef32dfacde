package dto

import "ecomap-score-service/internal/domain"

type StartSimulationRequest struct {
	Boundary []domain.LatLng `json:"boundary"`
}

type PlaceRequest struct {
	Mode  domain.InterventionKind `json:"mode"`
	Lat   *float64                `json:"lat"`
	Lng   *float64                `json:"lng"`
	Count int                     `json:"count,omitempty"`
}

type SimulationResponse struct {
	ID             string                `json:"id"`
	Boundary       []domain.LatLng       `json:"boundary,omitempty"`
	SimulationData domain.SimulationData `json:"simulationData"`
	PlacementCount int                   `json:"placementCount"`
	Remaining      int                   `json:"remaining"`
}
