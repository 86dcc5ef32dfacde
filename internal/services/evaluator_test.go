package services

import (
	"context"
	"ecomap-score-service/internal/adapters/generative"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/ports"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floodingAnalysis = "The area floods frequently after storms and has very little tree canopy."

const validEvaluation = `{
  "ecoscore": 742.6,
  "breakdown": {"relevance": 410, "quantity": 180, "diversity": 100, "distribution": 60},
  "feedback": {
    "whatWorked": "Permeable pavement targets the flooding.",
    "whatDidntWork": "Solar does little for runoff.",
    "optimalSolution": "More pavement and trees along the low streets."
  }
}`

func sampleSimulation() domain.SimulationData {
	return domain.SimulationData{
		TreeClusters: []domain.PointCluster{
			{ID: "t1", Center: domain.LatLng{Lat: 37.7990, Lng: -122.4580}, Count: 10},
		},
		PlacedPavementPoints: []domain.PointPlacement{
			{ID: "p1", Center: domain.LatLng{Lat: 37.7985, Lng: -122.4560}},
		},
		TotalTreesPlaced: 10,
	}
}

func TestEvaluatorEvaluate(t *testing.T) {
	gen := generative.NewMockTextGenerator(validEvaluation)
	ev := NewEvaluator(gen)

	got, err := ev.Evaluate(context.Background(), floodingAnalysis, sampleSimulation())
	require.NoError(t, err)

	assert.Equal(t, 743, got.EcoScore)
	assert.Equal(t, domain.EvaluationBreakdown{Relevance: 410, Quantity: 180, Diversity: 100, Distribution: 60}, got.Breakdown)
	assert.Equal(t, "Permeable pavement targets the flooding.", got.Feedback.WhatWorked)

	require.Equal(t, 1, gen.Calls())
	prompt := gen.Prompts()[0]
	assert.Contains(t, prompt, floodingAnalysis)
	assert.Contains(t, prompt, "- Trees: 10 total in 1 clusters")
	assert.Contains(t, prompt, "- Permeable Pavement Points: 1")
	assert.Contains(t, prompt, "[37.799000, -122.458000]")
}

func TestEvaluationPromptCarriesRubric(t *testing.T) {
	prompt := buildEvaluationPrompt(floodingAnalysis, sampleSimulation())

	for _, weight := range []string{
		"Relevance to Issues (50% of score)",
		"Quantity (25% of score)",
		"Diversity (15% of score)",
		"Spatial Distribution (10% of score)",
	} {
		assert.Contains(t, prompt, weight)
	}
	assert.Contains(t, prompt, "If flooding is an issue, permeable pavement should score higher")
	assert.Contains(t, prompt, "If heat is an issue, trees and parks should score higher")
	assert.Contains(t, prompt, "If energy is an issue, solar panels should score higher")
	assert.Contains(t, prompt, "If air quality is an issue, trees should score higher")
	assert.Contains(t, prompt, "If the area already has something")
	assert.Contains(t, prompt, `"ecoscore": <number 1-1000>`)
}

func TestEvaluatorCodeFencesParseIdentically(t *testing.T) {
	plain, err := NewEvaluator(generative.NewMockTextGenerator(validEvaluation)).
		Evaluate(context.Background(), floodingAnalysis, sampleSimulation())
	require.NoError(t, err)

	for _, wrapped := range []string{
		"```json\n" + validEvaluation + "\n```",
		"```\n" + validEvaluation + "\n```",
		"  ```JSON\n" + validEvaluation + "```  ",
	} {
		got, err := NewEvaluator(generative.NewMockTextGenerator(wrapped)).
			Evaluate(context.Background(), floodingAnalysis, sampleSimulation())
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEvaluatorClampsBreakdown(t *testing.T) {
	resp := `{"ecoscore": 1000, "breakdown": {"relevance": 900, "quantity": -5, "diversity": 150.4, "distribution": 99.6},
	"feedback": {"whatWorked": "", "whatDidntWork": "", "optimalSolution": ""}}`

	got, err := NewEvaluator(generative.NewMockTextGenerator(resp)).
		Evaluate(context.Background(), floodingAnalysis, domain.SimulationData{})
	require.NoError(t, err)

	assert.Equal(t, 1000, got.EcoScore)
	assert.Equal(t, domain.EvaluationBreakdown{Relevance: 500, Quantity: 0, Diversity: 150, Distribution: 100}, got.Breakdown)
}

func TestEvaluatorValidationErrors(t *testing.T) {
	feedback := `"feedback": {"whatWorked": "a", "whatDidntWork": "b", "optimalSolution": "c"}`
	breakdown := `"breakdown": {"relevance": 1, "quantity": 1, "diversity": 1, "distribution": 1}`

	tests := []struct {
		name      string
		response  string
		wantField string
	}{
		{"score above range", `{"ecoscore": 1500, ` + breakdown + `, ` + feedback + `}`, "ecoscore"},
		{"score below range", `{"ecoscore": 0, ` + breakdown + `, ` + feedback + `}`, "ecoscore"},
		{"score missing", `{` + breakdown + `, ` + feedback + `}`, "ecoscore"},
		{"score not numeric", `{"ecoscore": "high", ` + breakdown + `, ` + feedback + `}`, "ecoscore"},
		{"breakdown not an object", `{"ecoscore": 500, "breakdown": [1,2], ` + feedback + `}`, "breakdown"},
		{"breakdown value not numeric", `{"ecoscore": 500, "breakdown": {"relevance": "x", "quantity": 1, "diversity": 1, "distribution": 1}, ` + feedback + `}`, "breakdown.relevance"},
		{"feedback missing", `{"ecoscore": 500, ` + breakdown + `}`, "feedback"},
		{"feedback value not a string", `{"ecoscore": 500, ` + breakdown + `, "feedback": {"whatWorked": 1, "whatDidntWork": "b", "optimalSolution": "c"}}`, "feedback.whatWorked"},
		{"top level array", `[1, 2, 3]`, "response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(generative.NewMockTextGenerator(tt.response)).
				Evaluate(context.Background(), floodingAnalysis, sampleSimulation())

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestEvaluatorParseError(t *testing.T) {
	garbage := "I think this plan deserves about 700 points. " + strings.Repeat("It is a good plan. ", 20)

	_, err := NewEvaluator(generative.NewMockTextGenerator(garbage)).
		Evaluate(context.Background(), floodingAnalysis, sampleSimulation())

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, strings.HasPrefix(pe.Preview, "I think this plan"))
	assert.Equal(t, 103, len([]rune(pe.Preview)), "preview is 100 runes plus an ellipsis")
}

func TestEvaluatorCollaboratorUnavailable(t *testing.T) {
	gen := generative.NewFailingTextGenerator(errors.New("connection refused"))

	_, err := NewEvaluator(gen).Evaluate(context.Background(), floodingAnalysis, sampleSimulation())
	assert.ErrorIs(t, err, ports.ErrCollaboratorUnavailable)

	_, err = NewEvaluator(nil).Evaluate(context.Background(), floodingAnalysis, sampleSimulation())
	assert.ErrorIs(t, err, ports.ErrCollaboratorUnavailable)
}

func TestEvaluatorRequiresAnalysis(t *testing.T) {
	gen := generative.NewMockTextGenerator(validEvaluation)

	_, err := NewEvaluator(gen).Evaluate(context.Background(), "   ", sampleSimulation())
	assert.ErrorIs(t, err, ErrMissingAnalysis)
	assert.Equal(t, 0, gen.Calls(), "no request is issued without an analysis")
}

func TestEvaluatorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEvaluator(generative.NewMockTextGenerator(validEvaluation)).
		Evaluate(ctx, floodingAnalysis, sampleSimulation())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ports.ErrCollaboratorUnavailable)
}
