package services

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/platform/metrics"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

// Evaluator scores a simulation against a free-text environmental analysis of
// the selected area by delegating the relevance judgment to a text generator.
//
// Every call issues exactly one generator request. There is no caching and no
// retry; cancellation comes from ctx.
type Evaluator struct {
	Generator ports.TextGenerator
}

func NewEvaluator(generator ports.TextGenerator) *Evaluator {
	return &Evaluator{Generator: generator}
}

// Evaluate returns an evaluation or one of: ErrMissingAnalysis, an error wrapping
// ports.ErrCollaboratorUnavailable, *ParseError or *ValidationError.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	locationAnalysis string,
	data domain.SimulationData,
) (_ domain.EcoScoreEvaluation, err error) {
	defer obs.Time(ctx, "evaluator.Evaluate")(&err)

	if strings.TrimSpace(locationAnalysis) == "" {
		return domain.EcoScoreEvaluation{}, ErrMissingAnalysis
	}
	if e.Generator == nil {
		return domain.EcoScoreEvaluation{}, fmt.Errorf("evaluate: %w: no generator configured", ports.ErrCollaboratorUnavailable)
	}

	prompt := buildEvaluationPrompt(locationAnalysis, data)

	text, err := e.Generator.Generate(ctx, prompt)
	if err != nil {
		metrics.EvaluationFailures.WithLabelValues("unavailable").Inc()
		if !errors.Is(err, ports.ErrCollaboratorUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrCollaboratorUnavailable, err)
		}
		return domain.EcoScoreEvaluation{}, fmt.Errorf("evaluate: generate: %w", err)
	}

	eval, err := parseEvaluation(text)
	if err != nil {
		metrics.EvaluationFailures.WithLabelValues(failureReason(err)).Inc()
		return domain.EcoScoreEvaluation{}, fmt.Errorf("evaluate: %w", err)
	}

	metrics.ScoresComputed.WithLabelValues("evaluator").Inc()
	metrics.ScoreValue.WithLabelValues("evaluator").Observe(float64(eval.EcoScore))

	return eval, nil
}

func failureReason(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return "parse"
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "validation"
	}
	return "other"
}
