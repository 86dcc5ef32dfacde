package repositories

import (
	"context"
	"database/sql"
	"ecomap-score-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the ChallengeRepository port.
type PostgresChallengeRepository struct{ DB *sql.DB }

func NewPostgresChallengeRepository(db *sql.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{DB: db}
}

// Return all curated challenge areas ordered by id.
func (p *PostgresChallengeRepository) ListChallengeAreas(ctx context.Context) ([]domain.ChallengeArea, error) {
	if p.DB == nil {
		return nil, errors.New("postgres challenge repository: DB is nil")
	}

	query := `
	SELECT
		id,
		location,
		coordinates
	FROM challenge_areas
	ORDER BY id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list challenge areas: query challenge_areas table: %w", err)
	}
	defer rows.Close()

	areas := make([]domain.ChallengeArea, 0, 32)
	for rows.Next() {
		var a domain.ChallengeArea
		var coords []byte
		if err := rows.Scan(&a.ID, &a.Location, &coords); err != nil {
			return nil, fmt.Errorf("list challenge areas: scan row: %w", err)
		}
		if err := json.Unmarshal(coords, &a.Coordinates); err != nil {
			return nil, fmt.Errorf("list challenge areas: decode coordinates id=%d: %w", a.ID, err)
		}
		areas = append(areas, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenge areas: row iteration: %w", err)
	}

	return areas, nil
}

// File-backed ChallengeRepository used when no database is configured.
type StaticChallengeRepository struct {
	areas []domain.ChallengeArea
}

func NewStaticChallengeRepository(areas []domain.ChallengeArea) *StaticChallengeRepository {
	return &StaticChallengeRepository{areas: areas}
}

func (s *StaticChallengeRepository) ListChallengeAreas(ctx context.Context) ([]domain.ChallengeArea, error) {
	return append([]domain.ChallengeArea(nil), s.areas...), nil
}
