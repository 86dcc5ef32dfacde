package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Represents a rectangular area offered to the user as an environmental challenge.
// Coordinates are the four corners in drawing order.
type ChallengeArea struct {
	ID          int
	Location    string
	Coordinates []LatLng
}

// Validate enforces the four-corner, in-range contract of a challenge area.
func (a ChallengeArea) Validate() error {
	if strings.TrimSpace(a.Location) == "" {
		return errors.New("challenge area: location must be non-empty")
	}
	if len(a.Coordinates) != 4 {
		return fmt.Errorf("challenge area: expected 4 coordinates, got %d", len(a.Coordinates))
	}
	for i, c := range a.Coordinates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("challenge area: point %d: %w", i, err)
		}
	}
	return nil
}

// Boundary returns the area as a drawable boundary.
func (a ChallengeArea) Boundary() Boundary {
	return NewBoundary(a.Coordinates...)
}
