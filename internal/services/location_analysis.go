package services

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

var ErrMissingPrompt = errors.New("prompt is required")

const mapAssistantPrompt = `You are an AI assistant specifically designed to help users understand and analyze geographic and map data.

Your primary functions are:
- Answer questions about geographic locations, coordinates, and areas on the map
- Provide summaries and insights about specific locations when given coordinates
- Help users understand spatial data and geographic information
- Analyze map-related queries and provide relevant geographic context

You should ONLY respond to questions related to:
- Maps and geographic locations
- Coordinates and spatial data
- Area analysis and location information
- Geographic features and landmarks
- Environmental or demographic data about locations

If a user asks about topics unrelated to maps, geography, or location data, politely redirect them by saying: "I'm specifically designed to help with map and location-related questions. Please ask me about geographic areas, coordinates, or locations you'd like to know more about."`

// ChallengeAnalysisPrompt is what the challenge flow asks about a freshly
// selected area; the answer becomes the evaluator's location analysis.
const ChallengeAnalysisPrompt = "Analyze the area I just selected on the map. Focus ONLY on environmental issues that can be addressed with trees, solar panels, permeable pavements, and parks. Do NOT provide solutions - just describe the key issues."

// Analyst answers map questions through the text generator, keeping it on
// geographic topics.
type Analyst struct {
	Generator ports.TextGenerator
}

func NewAnalyst(generator ports.TextGenerator) *Analyst {
	return &Analyst{Generator: generator}
}

// Analyze returns the generated answer to prompt. When area has vertices its
// centre and corners are included as context.
func (a *Analyst) Analyze(ctx context.Context, prompt string, area domain.Boundary) (_ string, err error) {
	defer obs.Time(ctx, "analyst.Analyze")(&err)

	if strings.TrimSpace(prompt) == "" {
		return "", ErrMissingPrompt
	}
	if a.Generator == nil {
		return "", fmt.Errorf("analyze: %w: no generator configured", ports.ErrCollaboratorUnavailable)
	}

	text, err := a.Generator.Generate(ctx, buildAnalysisPrompt(prompt, area))
	if err != nil {
		if !errors.Is(err, ports.ErrCollaboratorUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrCollaboratorUnavailable, err)
		}
		return "", fmt.Errorf("analyze: generate: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func buildAnalysisPrompt(prompt string, area domain.Boundary) string {
	var b strings.Builder
	b.WriteString(mapAssistantPrompt)
	b.WriteString("\n\n")

	if len(area.Vertices) > 0 {
		c := area.Centroid()
		fmt.Fprintf(&b, "Selected area center: [%.6f, %.6f]\n", c.Lat, c.Lng)
		b.WriteString("Selected area corners [lat, lng]:")
		for _, v := range area.Vertices {
			fmt.Fprintf(&b, " [%.6f, %.6f]", v.Lat, v.Lng)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("User query: ")
	b.WriteString(prompt)
	return b.String()
}
