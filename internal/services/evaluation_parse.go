package services

import (
	"ecomap-score-service/internal/domain"
	"fmt"
	"math"
)

// parseEvaluation turns the collaborator's free text into a typed evaluation.
// It rejects the response as a whole; no partially filled result is returned.
func parseEvaluation(text string) (domain.EcoScoreEvaluation, error) {
	v, err := decodeModelJSON(text)
	if err != nil {
		return domain.EcoScoreEvaluation{}, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return domain.EcoScoreEvaluation{}, &ValidationError{Field: "response", Reason: "expected a JSON object"}
	}

	score, err := requireNumber(obj, "ecoscore", "ecoscore")
	if err != nil {
		return domain.EcoScoreEvaluation{}, err
	}
	if score < domain.MinEvaluationScore || score > domain.MaxEvaluationScore {
		return domain.EcoScoreEvaluation{}, &ValidationError{
			Field:  "ecoscore",
			Reason: fmt.Sprintf("%g is outside [%d, %d]", score, domain.MinEvaluationScore, domain.MaxEvaluationScore),
		}
	}

	breakdown, err := requireObject(obj, "breakdown")
	if err != nil {
		return domain.EcoScoreEvaluation{}, err
	}
	feedback, err := requireObject(obj, "feedback")
	if err != nil {
		return domain.EcoScoreEvaluation{}, err
	}

	out := domain.EcoScoreEvaluation{EcoScore: int(math.Round(score))}

	parts := []struct {
		key     string
		ceiling int
		dst     *int
	}{
		{"relevance", domain.MaxRelevanceScore, &out.Breakdown.Relevance},
		{"quantity", domain.MaxQuantityScore, &out.Breakdown.Quantity},
		{"diversity", domain.MaxDiversityScore, &out.Breakdown.Diversity},
		{"distribution", domain.MaxDistributionScore, &out.Breakdown.Distribution},
	}
	for _, p := range parts {
		n, err := requireNumber(breakdown, p.key, "breakdown."+p.key)
		if err != nil {
			return domain.EcoScoreEvaluation{}, err
		}
		*p.dst = clampScore(n, p.ceiling)
	}

	texts := []struct {
		key string
		dst *string
	}{
		{"whatWorked", &out.Feedback.WhatWorked},
		{"whatDidntWork", &out.Feedback.WhatDidntWork},
		{"optimalSolution", &out.Feedback.OptimalSolution},
	}
	for _, t := range texts {
		s, ok := feedback[t.key].(string)
		if !ok {
			return domain.EcoScoreEvaluation{}, &ValidationError{Field: "feedback." + t.key, Reason: "expected a string"}
		}
		*t.dst = s
	}

	return out, nil
}

func requireNumber(obj map[string]any, key, field string) (float64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, &ValidationError{Field: field, Reason: "missing"}
	}
	n, ok := raw.(float64)
	if !ok {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("expected a number, got %T", raw)}
	}
	return n, nil
}

func requireObject(obj map[string]any, key string) (map[string]any, error) {
	raw, ok := obj[key].(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: key, Reason: "expected an object"}
	}
	return raw, nil
}

// clampScore rounds a sub-score and keeps it within [0, ceiling].
func clampScore(n float64, ceiling int) int {
	return min(max(int(math.Round(n)), 0), ceiling)
}
