package dto

import "ecomap-score-service/internal/domain"

type EvaluateRequest struct {
	LocationAnalysis string                 `json:"locationAnalysis"`
	SimulationData   *domain.SimulationData `json:"simulationData"`
}

// Evaluator failures carry the underlying reason for diagnostics.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
