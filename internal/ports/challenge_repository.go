package ports

import (
	"context"
	"ecomap-score-service/internal/domain"
)

// Port: a boundary for retrieving curated challenge areas from a data source.
type ChallengeRepository interface {
	// Retrieve all curated challenge areas.
	ListChallengeAreas(ctx context.Context) ([]domain.ChallengeArea, error)
}
