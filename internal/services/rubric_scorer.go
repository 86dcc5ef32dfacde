package services

import (
	"ecomap-score-service/internal/domain"
	"math"
)

// Reference optima of the rubric: the counts at which a category term saturates.
const (
	optimalTrees          = 50
	optimalTreeClusters   = 5
	optimalSolar          = 30
	solarPointsPerCluster = 20
	optimalPavement       = 20
	optimalParks          = 4
	parkPresenceBonus     = 80
)

// Raw, unrounded category scores.
type categoryScores struct {
	trees    float64
	solar    float64
	pavement float64
	parks    float64
}

func (c categoryScores) sum() float64 {
	return c.trees + c.solar + c.pavement + c.parks
}

// ScoreSimulation scores a placement snapshot against the fixed sustainability rubric.
//
// Each category saturates at its ceiling (trees 300, solar 250, pavement 250,
// parks 200). The function is pure: identical input always yields an identical
// result, and any non-negative input, including an empty snapshot, is accepted.
func ScoreSimulation(data domain.SimulationData) domain.EcoScoreResult {
	raw := categoryScores{
		trees:    treesScore(data),
		solar:    solarScore(data),
		pavement: pavementScore(data),
		parks:    parkScore(data),
	}

	// The total is rounded from the raw sum, not from the rounded categories.
	total := int(math.Round(raw.sum()))

	return domain.EcoScoreResult{
		TotalScore: total,
		Breakdown: domain.ScoreBreakdown{
			TreesScore:    int(math.Round(raw.trees)),
			SolarScore:    int(math.Round(raw.solar)),
			PavementScore: int(math.Round(raw.pavement)),
			ParkScore:     int(math.Round(raw.parks)),
		},
		Feedback: generateFeedback(total, raw),
	}
}

// Quantity (150) plus spread across clusters (150).
func treesScore(data domain.SimulationData) float64 {
	quantity := ratioScore(nonNegative(data.TotalTreesPlaced), optimalTrees, 150)
	distribution := ratioScore(len(data.TreeClusters), optimalTreeClusters, 150)
	return quantity + distribution
}

// Quantity (150) plus a linear 20 points per cluster, capped at 100.
func solarScore(data domain.SimulationData) float64 {
	quantity := ratioScore(nonNegative(data.TotalSolarPlaced), optimalSolar, 150)
	distribution := math.Min(float64(len(data.SolarClusters)*solarPointsPerCluster), 100)
	return quantity + distribution
}

func pavementScore(data domain.SimulationData) float64 {
	return ratioScore(len(data.PlacedPavementPoints), optimalPavement, domain.MaxPavementScore)
}

// Quantity (120) plus a flat bonus once at least one park exists.
func parkScore(data domain.SimulationData) float64 {
	n := len(data.PlacedParks)
	score := ratioScore(n, optimalParks, 120)
	if n > 0 {
		score += parkPresenceBonus
	}
	return score
}

// ratioScore scales n against its optimum and saturates at ceiling.
func ratioScore(n, optimum int, ceiling float64) float64 {
	return math.Min(float64(n)/float64(optimum)*ceiling, ceiling)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
