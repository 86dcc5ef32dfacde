package services

import (
	"context"
	"ecomap-score-service/internal/adapters/generative"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/ports"
	"errors"
	"strings"
	"testing"
)

func TestAnalystAnalyze(t *testing.T) {
	gen := generative.NewMockTextGenerator("  Dense asphalt, little shade, frequent runoff.\n")
	a := NewAnalyst(gen)

	text, err := a.Analyze(context.Background(), ChallengeAnalysisPrompt, presidio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Dense asphalt, little shade, frequent runoff." {
		t.Fatalf("text = %q", text)
	}

	prompt := gen.Prompts()[0]
	if !strings.HasPrefix(prompt, "You are an AI assistant specifically designed") {
		t.Fatalf("prompt does not start with the map assistant instructions")
	}
	if !strings.Contains(prompt, "Selected area center: [37.798750, -122.457500]") {
		t.Fatalf("prompt is missing the area centre:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "User query: "+ChallengeAnalysisPrompt) {
		t.Fatalf("prompt does not end with the user query")
	}
}

func TestAnalystWithoutArea(t *testing.T) {
	gen := generative.NewMockTextGenerator("ok")
	if _, err := NewAnalyst(gen).Analyze(context.Background(), "Where is Lagos?", domain.Boundary{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gen.Prompts()[0], "Selected area") {
		t.Fatalf("prompt should not mention an area")
	}
}

func TestAnalystErrors(t *testing.T) {
	if _, err := NewAnalyst(generative.NewMockTextGenerator("x")).Analyze(context.Background(), "", domain.Boundary{}); !errors.Is(err, ErrMissingPrompt) {
		t.Fatalf("err = %v, want ErrMissingPrompt", err)
	}

	_, err := NewAnalyst(generative.NewFailingTextGenerator(errors.New("timeout"))).
		Analyze(context.Background(), "hi", domain.Boundary{})
	if !errors.Is(err, ports.ErrCollaboratorUnavailable) {
		t.Fatalf("err = %v, want ErrCollaboratorUnavailable", err)
	}
}
