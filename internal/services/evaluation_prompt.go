package services

import (
	"ecomap-score-service/internal/domain"
	"fmt"
	"strings"
)

const evaluationRubric = `SCORING CRITERIA:
1. **Relevance to Issues (50% of score)**: How well do the simulations address the KEY ISSUES mentioned in the location analysis?
   - If flooding is an issue, permeable pavement should score higher
   - If heat is an issue, trees and parks should score higher
   - If energy is an issue, solar panels should score higher
   - If air quality is an issue, trees should score higher

2. **Quantity (25% of score)**: Appropriate number of interventions
   - Too few interventions = lower score
   - Balanced distribution = higher score
   - Excessive focus on one type = moderate score

3. **Diversity (15% of score)**: Variety of solution types
   - Multiple types of interventions = higher score
   - Only one type = lower score

4. **Spatial Distribution (10% of score)**: How well distributed are the placements
   - Cluster data shows if interventions are concentrated or spread out
   - Better distribution = higher score

IMPORTANT SCORING NOTES:
- If the area already has something (e.g., "the area has many parks"), adding more of that should receive a LOWER relevance score
- Solutions that directly address stated problems should score highest
- Creative but relevant combinations should be rewarded
- Completely irrelevant solutions should significantly reduce the score`

const evaluationResponseContract = `Please respond with ONLY a JSON object (no markdown, no code blocks):
{
  "ecoscore": <number 1-1000>,
  "breakdown": {
    "relevance": <number 1-500>,
    "quantity": <number 1-250>,
    "diversity": <number 1-150>,
    "distribution": <number 1-100>
  },
  "feedback": {
    "whatWorked": "<2-3 sentence explanation of what improved the score>",
    "whatDidntWork": "<2-3 sentence explanation of what decreased the score>",
    "optimalSolution": "<2-3 sentence description of what the best simulation would have been>"
  }
}`

// buildEvaluationPrompt assembles the scoring request sent to the text generator.
func buildEvaluationPrompt(locationAnalysis string, data domain.SimulationData) string {
	var b strings.Builder

	b.WriteString("You are an environmental sustainability scoring system. ")
	b.WriteString("Based on the location analysis and user's simulation placements, calculate an EcoScore from 1-1000.\n\n")

	b.WriteString("LOCATION ANALYSIS:\n")
	b.WriteString(locationAnalysis)
	b.WriteString("\n\n")

	b.WriteString("USER'S SIMULATION PLACEMENTS:\n")
	writePlacementSummary(&b, data)
	b.WriteString("\n")

	b.WriteString(evaluationRubric)
	b.WriteString("\n\n")
	b.WriteString(evaluationResponseContract)

	return b.String()
}

func writePlacementSummary(b *strings.Builder, data domain.SimulationData) {
	fmt.Fprintf(b, "- Trees: %d total in %d clusters\n", data.TotalTreesPlaced, len(data.TreeClusters))
	fmt.Fprintf(b, "- Solar Panels: %d total in %d clusters\n", data.TotalSolarPlaced, len(data.SolarClusters))
	fmt.Fprintf(b, "- Permeable Pavement Points: %d\n", len(data.PlacedPavementPoints))
	fmt.Fprintf(b, "- Parks: %d\n", len(data.PlacedParks))

	if data.PlacementCount() == 0 {
		return
	}

	b.WriteString("\nPLACEMENT LOCATIONS [lat, lng]:\n")
	writeClusters(b, "Tree cluster", data.TreeClusters)
	writeClusters(b, "Solar cluster", data.SolarClusters)
	writePlacements(b, "Pavement point", data.PlacedPavementPoints)
	writePlacements(b, "Park", data.PlacedParks)
}

func writeClusters(b *strings.Builder, label string, clusters []domain.PointCluster) {
	for i, c := range clusters {
		fmt.Fprintf(b, "- %s %d: [%.6f, %.6f], %d items\n", label, i+1, c.Center.Lat, c.Center.Lng, c.Count)
	}
}

func writePlacements(b *strings.Builder, label string, placements []domain.PointPlacement) {
	for i, p := range placements {
		fmt.Fprintf(b, "- %s %d: [%.6f, %.6f]\n", label, i+1, p.Center.Lat, p.Center.Lng)
	}
}
