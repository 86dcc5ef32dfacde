package services

import (
	"ecomap-score-service/internal/domain"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusters(n, each int) []domain.PointCluster {
	out := make([]domain.PointCluster, n)
	for i := range out {
		out[i] = domain.PointCluster{ID: fmt.Sprintf("c%d", i), Count: each}
	}
	return out
}

func placements(n int) []domain.PointPlacement {
	out := make([]domain.PointPlacement, n)
	for i := range out {
		out[i] = domain.PointPlacement{ID: fmt.Sprintf("p%d", i)}
	}
	return out
}

func TestScoreSimulationEmpty(t *testing.T) {
	res := ScoreSimulation(domain.SimulationData{})

	assert.Equal(t, 0, res.TotalScore)
	assert.Equal(t, domain.ScoreBreakdown{}, res.Breakdown)
	assert.Equal(t,
		"❌ Needs work. Consider adding more sustainability features. "+
			"\n\nSuggestions: Add more trees for better air quality and carbon absorption; "+
			"Increase solar panel coverage for renewable energy; "+
			"Use more permeable pavement to reduce water runoff; "+
			"Create more green spaces for community wellbeing.",
		res.Feedback)
}

func TestScoreSimulationCategories(t *testing.T) {
	tests := []struct {
		name string
		data domain.SimulationData
		want domain.ScoreBreakdown
	}{
		{
			name: "optimal trees",
			data: domain.SimulationData{TreeClusters: clusters(5, 10), TotalTreesPlaced: 50},
			want: domain.ScoreBreakdown{TreesScore: 300},
		},
		{
			name: "trees saturate",
			data: domain.SimulationData{TreeClusters: clusters(100, 100), TotalTreesPlaced: 10000},
			want: domain.ScoreBreakdown{TreesScore: 300},
		},
		{
			name: "single tree cluster",
			data: domain.SimulationData{TreeClusters: clusters(1, 1), TotalTreesPlaced: 1},
			want: domain.ScoreBreakdown{TreesScore: 33},
		},
		{
			name: "solar cluster bonus is linear",
			data: domain.SimulationData{SolarClusters: clusters(3, 1), TotalSolarPlaced: 3},
			want: domain.ScoreBreakdown{SolarScore: 75},
		},
		{
			name: "optimal solar",
			data: domain.SimulationData{SolarClusters: clusters(5, 6), TotalSolarPlaced: 30},
			want: domain.ScoreBreakdown{SolarScore: 250},
		},
		{
			name: "half point pavement rounds up",
			data: domain.SimulationData{PlacedPavementPoints: placements(1)},
			want: domain.ScoreBreakdown{PavementScore: 13},
		},
		{
			name: "optimal pavement",
			data: domain.SimulationData{PlacedPavementPoints: placements(20)},
			want: domain.ScoreBreakdown{PavementScore: 250},
		},
		{
			name: "one park gets the presence bonus",
			data: domain.SimulationData{PlacedParks: placements(1)},
			want: domain.ScoreBreakdown{ParkScore: 110},
		},
		{
			name: "parks saturate",
			data: domain.SimulationData{PlacedParks: placements(9)},
			want: domain.ScoreBreakdown{ParkScore: 200},
		},
		{
			name: "negative totals are treated as zero",
			data: domain.SimulationData{TotalTreesPlaced: -40, TotalSolarPlaced: -3},
			want: domain.ScoreBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ScoreSimulation(tt.data)
			assert.Equal(t, tt.want, res.Breakdown)

			b := res.Breakdown
			assert.Equal(t, b.TreesScore+b.SolarScore+b.PavementScore+b.ParkScore, res.TotalScore)
		})
	}
}

func TestScoreSimulationMaximum(t *testing.T) {
	data := domain.SimulationData{
		TreeClusters:         clusters(5, 10),
		SolarClusters:        clusters(5, 6),
		PlacedPavementPoints: placements(20),
		PlacedParks:          placements(4),
		TotalTreesPlaced:     50,
		TotalSolarPlaced:     30,
	}

	res := ScoreSimulation(data)

	assert.Equal(t, domain.MaxEcoScore, res.TotalScore)
	assert.Equal(t, domain.ScoreBreakdown{TreesScore: 300, SolarScore: 250, PavementScore: 250, ParkScore: 200}, res.Breakdown)
	assert.True(t, strings.HasPrefix(res.Feedback, "🌟 Outstanding!"))
	assert.NotContains(t, res.Feedback, "Suggestions")
}

func TestScoreSimulationFeedbackBands(t *testing.T) {
	tests := []struct {
		name       string
		data       domain.SimulationData
		wantTotal  int
		wantPrefix string
		wantSuffix string
	}{
		{
			name: "excellent without parks",
			data: domain.SimulationData{
				TreeClusters: clusters(5, 10), TotalTreesPlaced: 50,
				SolarClusters: clusters(5, 6), TotalSolarPlaced: 30,
				PlacedPavementPoints: placements(16),
			},
			wantTotal:  750,
			wantPrefix: "🌿 Excellent work!",
			wantSuffix: "\n\nSuggestions: Create more green spaces for community wellbeing.",
		},
		{
			name: "good",
			data: domain.SimulationData{
				TreeClusters: clusters(5, 10), TotalTreesPlaced: 50,
				SolarClusters: clusters(5, 6), TotalSolarPlaced: 30,
				PlacedPavementPoints: placements(4),
			},
			wantTotal:  600,
			wantPrefix: "✅ Good effort!",
			wantSuffix: "Use more permeable pavement to reduce water runoff; Create more green spaces for community wellbeing.",
		},
		{
			name: "fair",
			data: domain.SimulationData{
				TreeClusters: clusters(5, 10), TotalTreesPlaced: 50,
				PlacedParks: placements(4),
			},
			wantTotal:  500,
			wantPrefix: "⚠️ Fair attempt.",
			wantSuffix: "Increase solar panel coverage for renewable energy; Use more permeable pavement to reduce water runoff.",
		},
		{
			name:       "needs work just below fair",
			data:       domain.SimulationData{TreeClusters: clusters(5, 10), TotalTreesPlaced: 50, PlacedPavementPoints: placements(7)},
			wantTotal:  388,
			wantPrefix: "❌ Needs work.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ScoreSimulation(tt.data)
			require.Equal(t, tt.wantTotal, res.TotalScore)
			assert.True(t, strings.HasPrefix(res.Feedback, tt.wantPrefix), "feedback %q", res.Feedback)
			if tt.wantSuffix != "" {
				assert.True(t, strings.HasSuffix(res.Feedback, tt.wantSuffix), "feedback %q", res.Feedback)
			}
		})
	}
}

func TestScoreSimulationMonotonic(t *testing.T) {
	prev := -1
	for n := 0; n <= 30; n++ {
		data := domain.SimulationData{
			TreeClusters:         clusters(n, 2),
			TotalTreesPlaced:     2 * n,
			PlacedPavementPoints: placements(n),
		}
		got := ScoreSimulation(data).TotalScore
		require.GreaterOrEqual(t, got, prev, "adding placements lowered the score at n=%d", n)
		require.LessOrEqual(t, got, domain.MaxEcoScore)
		prev = got
	}
}

func TestScoreSimulationIsDeterministic(t *testing.T) {
	data := domain.SimulationData{
		TreeClusters:         clusters(3, 7),
		SolarClusters:        clusters(2, 4),
		PlacedPavementPoints: placements(3),
		PlacedParks:          placements(1),
		TotalTreesPlaced:     21,
		TotalSolarPlaced:     8,
	}

	first := ScoreSimulation(data)
	for range 5 {
		assert.Equal(t, first, ScoreSimulation(data))
	}
}
