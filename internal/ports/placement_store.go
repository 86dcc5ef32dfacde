package ports

import (
	"context"
	"ecomap-score-service/internal/domain"
	"errors"
)

var ErrSessionNotFound = errors.New("simulation session not found")

// Persisted state of one simulation session: the drawn boundary and the
// placements recorded so far.
type SimulationSession struct {
	ID       string
	Boundary domain.Boundary
	Data     domain.SimulationData
}

// Port: storage for in-progress simulation sessions.
type PlacementStore interface {
	Create(ctx context.Context, session SimulationSession) error
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (SimulationSession, error)
	// Update atomically applies fn to the stored session. If fn returns an
	// error nothing is written and the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*SimulationSession) error) (SimulationSession, error)
	Delete(ctx context.Context, id string) error
}
