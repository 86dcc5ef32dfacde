package handlers

import (
	"ecomap-score-service/internal/api/dto"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/services"
	"net/http"
)

type AnalysisHandler struct {
	Analyst   *services.Analyst
	Challenge *services.ChallengeGenerator
}

// Analyze answers a map question, optionally about a selected area.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	area := domain.NewBoundary(req.Coordinates...)
	if len(req.Coordinates) > 0 {
		if err := area.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	text, err := h.Analyst.Analyze(r.Context(), req.Prompt, area)
	if err != nil {
		writeServiceError(w, r, "analyze", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AnalyzeResponse{Text: text})
}

// GenerateChallenge returns a random rectangular area for the challenge game.
func (h *AnalysisHandler) GenerateChallenge(w http.ResponseWriter, r *http.Request) {
	area, err := h.Challenge.Generate(r.Context())
	if err != nil {
		writeServiceError(w, r, "generate challenge", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ChallengeResponse{
		Coordinates: area.Coordinates,
		Location:    area.Location,
	})
}
