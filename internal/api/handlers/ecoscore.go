package handlers

import (
	"context"
	"ecomap-score-service/internal/api/dto"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/platform/metrics"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"ecomap-score-service/internal/services"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ScoreHandler serves both scoring strategies.
type ScoreHandler struct {
	Evaluator *services.Evaluator
	Publisher ports.ScorePublisher
}

// Rubric scores a SimulationData body with the deterministic rubric.
func (h *ScoreHandler) Rubric(w http.ResponseWriter, r *http.Request) {
	var data domain.SimulationData
	if !decodeJSON(w, r, &data) {
		return
	}

	res := services.ScoreSimulation(data)
	recordRubricScore(res)
	publishScore(r.Context(), h.Publisher, ports.ScoreEvent{
		Strategy:   "rubric",
		Score:      res.TotalScore,
		Placements: data.PlacementCount(),
	})

	writeJSON(w, r, http.StatusOK, res)
}

// Evaluate judges a simulation against a location analysis through the
// text generation collaborator.
func (h *ScoreHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SimulationData == nil {
		writeError(w, r, http.StatusBadRequest, "simulationData is required")
		return
	}

	eval, err := h.Evaluator.Evaluate(r.Context(), req.LocationAnalysis, *req.SimulationData)
	if err != nil {
		writeServiceError(w, r, "evaluate", err)
		return
	}

	publishScore(r.Context(), h.Publisher, ports.ScoreEvent{
		Strategy:   "evaluator",
		Score:      eval.EcoScore,
		Placements: req.SimulationData.PlacementCount(),
	})

	writeJSON(w, r, http.StatusOK, eval)
}

func recordRubricScore(res domain.EcoScoreResult) {
	metrics.ScoresComputed.WithLabelValues("rubric").Inc()
	metrics.ScoreValue.WithLabelValues("rubric").Observe(float64(res.TotalScore))
}

// publishScore emits a score event. Failures are logged and never reach the client.
func publishScore(ctx context.Context, p ports.ScorePublisher, ev ports.ScoreEvent) {
	if p == nil {
		return
	}
	ev.ScoredAt = time.Now().UTC()
	if err := p.Publish(ctx, ev); err != nil {
		zap.L().Warn("publish score event failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("strategy", ev.Strategy),
			zap.Error(err),
		)
	}
}
