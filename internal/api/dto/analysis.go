package dto

import "ecomap-score-service/internal/domain"

type AnalyzeRequest struct {
	Prompt      string          `json:"prompt"`
	Coordinates []domain.LatLng `json:"coordinates,omitempty"`
}

type AnalyzeResponse struct {
	Text string `json:"text"`
}

type ChallengeResponse struct {
	Coordinates []domain.LatLng `json:"coordinates"`
	Location    string          `json:"location"`
}
