package repositories

import (
	"database/sql"
	"ecomap-score-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createChallengeAreasQuery := `
	CREATE TABLE IF NOT EXISTS challenge_areas (
		id INTEGER PRIMARY KEY,
		location TEXT NOT NULL,
		coordinates JSONB NOT NULL
	);
	`

	statements := []string{
		createChallengeAreasQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ChallengeAreaSeed struct {
	ID          int             `json:"id"`
	Location    string          `json:"location"`
	Coordinates []domain.LatLng `json:"coordinates"`
}

// LoadChallengeSeeds reads and validates curated challenge areas from a JSON file.
func LoadChallengeSeeds(jsonPath string) ([]domain.ChallengeArea, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load challenge seeds: read %q: %w", jsonPath, err)
	}

	var data []ChallengeAreaSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load challenge seeds: parse json: %w", err)
	}

	areas := make([]domain.ChallengeArea, 0, len(data))
	seen := make(map[int]struct{}, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return nil, fmt.Errorf("load challenge seeds: invalid id at index %d: %d", i+1, item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("load challenge seeds: duplicate id %d", item.ID)
		}
		seen[item.ID] = struct{}{}

		area := domain.ChallengeArea{
			ID:          item.ID,
			Location:    strings.TrimSpace(item.Location),
			Coordinates: item.Coordinates,
		}
		if err := area.Validate(); err != nil {
			return nil, fmt.Errorf("load challenge seeds: id %d: %w", item.ID, err)
		}
		areas = append(areas, area)
	}

	return areas, nil
}

// Populate the database with curated challenge areas from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	areas, err := LoadChallengeSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed challenge areas: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed challenge areas: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO challenge_areas (
		id,
		location,
		coordinates
	)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE
	SET location = EXCLUDED.location,
		coordinates = EXCLUDED.coordinates;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed challenge areas: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range areas {
		coords, err := json.Marshal(a.Coordinates)
		if err != nil {
			return fmt.Errorf("seed challenge areas: encode id=%d: %w", a.ID, err)
		}
		if _, err := stmt.Exec(a.ID, a.Location, string(coords)); err != nil {
			return fmt.Errorf("seed challenge areas: insert id=%d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed challenge areas: commit tx: %w", err)
	}

	return nil
}
