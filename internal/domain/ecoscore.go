package domain

// Category ceilings of the rubric. They sum to MaxEcoScore.
const (
	MaxTreesScore    = 300
	MaxSolarScore    = 250
	MaxPavementScore = 250
	MaxParkScore     = 200
	MaxEcoScore      = 1000
)

// Per-category sub-scores of the deterministic rubric.
type ScoreBreakdown struct {
	TreesScore    int `json:"treesScore"`
	SolarScore    int `json:"solarScore"`
	PavementScore int `json:"pavementScore"`
	ParkScore     int `json:"parkScore"`
}

// Output of the deterministic rubric scorer.
//
// TotalScore is rounded from the unrounded category sum, while each breakdown
// entry is rounded on its own, so the breakdown may differ from the total by a
// couple of points.
type EcoScoreResult struct {
	TotalScore int            `json:"totalScore"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Feedback   string         `json:"feedback"`
}

// Bounds of the context-aware evaluation.
const (
	MinEvaluationScore = 1
	MaxEvaluationScore = 1000

	MaxRelevanceScore    = 500
	MaxQuantityScore     = 250
	MaxDiversityScore    = 150
	MaxDistributionScore = 100
)

type EvaluationBreakdown struct {
	Relevance    int `json:"relevance"`
	Quantity     int `json:"quantity"`
	Diversity    int `json:"diversity"`
	Distribution int `json:"distribution"`
}

type EvaluationFeedback struct {
	WhatWorked      string `json:"whatWorked"`
	WhatDidntWork   string `json:"whatDidntWork"`
	OptimalSolution string `json:"optimalSolution"`
}

// Output of the context-aware evaluator, judged against a location analysis.
type EcoScoreEvaluation struct {
	EcoScore  int                 `json:"ecoscore"`
	Breakdown EvaluationBreakdown `json:"breakdown"`
	Feedback  EvaluationFeedback  `json:"feedback"`
}
