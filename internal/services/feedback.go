package services

import "strings"

type scoreBand struct {
	min    int
	prefix string
}

// Ordered from highest to lowest; the first band whose lower bound is met wins.
var scoreBands = []scoreBand{
	{900, "🌟 Outstanding! Your sustainability plan is exceptional. "},
	{750, "🌿 Excellent work! Your design shows strong environmental awareness. "},
	{600, "✅ Good effort! Your plan has solid sustainability features. "},
	{400, "⚠️ Fair attempt. There's room for improvement. "},
	{0, "❌ Needs work. Consider adding more sustainability features. "},
}

const suggestionsPrefix = "\n\nSuggestions: "

// Shortfall thresholds sit at half of each category ceiling.
const (
	treesShortfall    = 150
	solarShortfall    = 125
	pavementShortfall = 125
	parksShortfall    = 100
)

// generateFeedback builds the templated feedback text. Shortfalls are judged on
// the raw category scores.
func generateFeedback(total int, raw categoryScores) string {
	var b strings.Builder
	b.WriteString(bandPrefix(total))

	var recommendations []string
	if raw.trees < treesShortfall {
		recommendations = append(recommendations, "Add more trees for better air quality and carbon absorption")
	}
	if raw.solar < solarShortfall {
		recommendations = append(recommendations, "Increase solar panel coverage for renewable energy")
	}
	if raw.pavement < pavementShortfall {
		recommendations = append(recommendations, "Use more permeable pavement to reduce water runoff")
	}
	if raw.parks < parksShortfall {
		recommendations = append(recommendations, "Create more green spaces for community wellbeing")
	}

	if len(recommendations) > 0 {
		b.WriteString(suggestionsPrefix)
		b.WriteString(strings.Join(recommendations, "; "))
		b.WriteString(".")
	}

	return b.String()
}

func bandPrefix(total int) string {
	for _, band := range scoreBands {
		if total >= band.min {
			return band.prefix
		}
	}
	return scoreBands[len(scoreBands)-1].prefix
}
