package services

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/platform/metrics"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

const challengePrompt = `Generate 4 random coordinate points that form a rectangular area suitable for an environmental challenge game.

REQUIREMENTS:
1. The 4 points should form a rectangle (or roughly rectangular polygon)
2. The area should be between 5 and 30 miles in radius from a central point
3. ALL 4 points MUST be on land (not in the ocean or large bodies of water)
4. The area should be in an urban or suburban location ANYWHERE IN THE WORLD (any continent, any country)
5. The coordinates should be in [latitude, longitude] format
6. IMPORTANT: Choose a completely random city from anywhere on Earth - North America, South America, Europe, Asia, Africa, Oceania, Middle East, etc.

Please respond with ONLY a JSON object in this exact format (no markdown, no code blocks, no additional text):
{
  "coordinates": [
    [lat1, lon1],
    [lat2, lon2],
    [lat3, lon3],
    [lat4, lon4]
  ],
  "location": "City Name, Country"
}

The coordinates should form a rectangle by going in order (top-left, top-right, bottom-right, bottom-left) or similar pattern.`

var ErrNoChallengeAreas = errors.New("no curated challenge areas available")

// ChallengeGenerator picks a random urban rectangle for the challenge game.
// When the generator is out of quota it serves a curated area instead.
type ChallengeGenerator struct {
	Generator ports.TextGenerator
	Fallback  ports.ChallengeRepository
	Pick      func(n int) int
}

func NewChallengeGenerator(generator ports.TextGenerator, fallback ports.ChallengeRepository) *ChallengeGenerator {
	return &ChallengeGenerator{Generator: generator, Fallback: fallback, Pick: rand.IntN}
}

func (g *ChallengeGenerator) Generate(ctx context.Context) (_ domain.ChallengeArea, err error) {
	defer obs.Time(ctx, "challenge.Generate")(&err)

	if g.Generator == nil {
		return domain.ChallengeArea{}, fmt.Errorf("generate challenge: %w: no generator configured", ports.ErrCollaboratorUnavailable)
	}

	text, err := g.Generator.Generate(ctx, challengePrompt)
	if err != nil {
		if errors.Is(err, ports.ErrQuotaExceeded) && g.Fallback != nil {
			zap.L().Warn("challenge generator quota exceeded, using curated area", zap.Error(err))
			metrics.ChallengeFallbacks.Inc()
			return g.fallback(ctx)
		}
		if !errors.Is(err, ports.ErrCollaboratorUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrCollaboratorUnavailable, err)
		}
		return domain.ChallengeArea{}, fmt.Errorf("generate challenge: %w", err)
	}

	area, err := parseChallengeArea(text)
	if err != nil {
		return domain.ChallengeArea{}, fmt.Errorf("generate challenge: %w", err)
	}
	return area, nil
}

func (g *ChallengeGenerator) fallback(ctx context.Context) (domain.ChallengeArea, error) {
	areas, err := g.Fallback.ListChallengeAreas(ctx)
	if err != nil {
		return domain.ChallengeArea{}, fmt.Errorf("generate challenge: fallback: %w", err)
	}
	if len(areas) == 0 {
		return domain.ChallengeArea{}, fmt.Errorf("generate challenge: fallback: %w", ErrNoChallengeAreas)
	}
	return areas[g.Pick(len(areas))], nil
}

// parseChallengeArea validates the generator's {coordinates, location} object.
func parseChallengeArea(text string) (domain.ChallengeArea, error) {
	v, err := decodeModelJSON(text)
	if err != nil {
		return domain.ChallengeArea{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return domain.ChallengeArea{}, &ValidationError{Field: "response", Reason: "expected a JSON object"}
	}

	rawCoords, ok := obj["coordinates"].([]any)
	if !ok || len(rawCoords) != 4 {
		return domain.ChallengeArea{}, &ValidationError{Field: "coordinates", Reason: "expected 4 [lat, lng] points"}
	}

	area := domain.ChallengeArea{Coordinates: make([]domain.LatLng, 0, len(rawCoords))}
	for i, raw := range rawCoords {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return domain.ChallengeArea{}, &ValidationError{Field: fmt.Sprintf("coordinates[%d]", i), Reason: "expected a [lat, lng] pair"}
		}
		lat, latOK := pair[0].(float64)
		lng, lngOK := pair[1].(float64)
		if !latOK || !lngOK {
			return domain.ChallengeArea{}, &ValidationError{Field: fmt.Sprintf("coordinates[%d]", i), Reason: "coordinates must be numbers"}
		}
		area.Coordinates = append(area.Coordinates, domain.LatLng{Lat: lat, Lng: lng})
	}

	area.Location, _ = obj["location"].(string)
	if area.Location == "" {
		return domain.ChallengeArea{}, &ValidationError{Field: "location", Reason: "expected a non-empty string"}
	}
	if err := area.Validate(); err != nil {
		return domain.ChallengeArea{}, &ValidationError{Field: "coordinates", Reason: err.Error()}
	}
	return area, nil
}
