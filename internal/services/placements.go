package services

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/platform/metrics"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	// MaxPlacements is the combined number of clicks a session may record.
	MaxPlacements = 20

	DefaultBrushSize = 10
	MaxBrushSize     = 100
)

var (
	ErrOutsideBoundary     = errors.New("placement is outside the drawn boundary")
	ErrPlacementCapReached = fmt.Errorf("placement limit of %d reached", MaxPlacements)
	ErrInvalidPlacement    = errors.New("invalid placement")
	ErrInvalidBoundary     = errors.New("invalid boundary")
)

// PlacementBoard records a user's clicks inside a drawn boundary and hands
// out snapshots for scoring.
type PlacementBoard struct {
	Store ports.PlacementStore
	NewID func() string
}

func NewPlacementBoard(store ports.PlacementStore) *PlacementBoard {
	return &PlacementBoard{Store: store, NewID: uuid.NewString}
}

// Start opens a session for boundary and returns its id.
func (b *PlacementBoard) Start(ctx context.Context, boundary domain.Boundary) (_ string, err error) {
	defer obs.Time(ctx, "placements.Start")(&err)

	if err := boundary.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBoundary, err)
	}

	session := ports.SimulationSession{
		ID:       b.NewID(),
		Boundary: boundary,
		Data:     emptySimulation(),
	}
	if err := b.Store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return session.ID, nil
}

// Place records one click of kind at the given point. count is the brush size
// for trees and solar (0 means DefaultBrushSize) and is ignored otherwise.
// Rejected clicks leave the session unchanged. The updated session is returned.
func (b *PlacementBoard) Place(
	ctx context.Context,
	sessionID string,
	kind domain.InterventionKind,
	at domain.LatLng,
	count int,
) (_ ports.SimulationSession, err error) {
	defer obs.Time(ctx, "placements.Place")(&err)

	if !kind.Valid() {
		return ports.SimulationSession{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidPlacement, kind)
	}
	if err := at.Validate(); err != nil {
		return ports.SimulationSession{}, fmt.Errorf("%w: %w", ErrInvalidPlacement, err)
	}
	if kind.Scattered() {
		if count == 0 {
			count = DefaultBrushSize
		}
		if count < 1 || count > MaxBrushSize {
			return ports.SimulationSession{}, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidPlacement, MaxBrushSize, count)
		}
	}

	id := b.NewID()
	session, err := b.Store.Update(ctx, sessionID, func(s *ports.SimulationSession) error {
		if !s.Boundary.Contains(at) {
			return ErrOutsideBoundary
		}
		if s.Data.PlacementCount() >= MaxPlacements {
			return ErrPlacementCapReached
		}
		record(&s.Data, kind, id, at, count)
		return nil
	})
	if err != nil {
		metrics.PlacementsRecorded.WithLabelValues(string(kind), placementOutcome(err)).Inc()
		return ports.SimulationSession{}, fmt.Errorf("place %s: %w", kind, err)
	}

	metrics.PlacementsRecorded.WithLabelValues(string(kind), "accepted").Inc()
	return cloneSession(session), nil
}

// Session returns a detached copy of the session, boundary included.
func (b *PlacementBoard) Session(ctx context.Context, sessionID string) (ports.SimulationSession, error) {
	session, err := b.Store.Get(ctx, sessionID)
	if err != nil {
		return ports.SimulationSession{}, fmt.Errorf("snapshot: %w", err)
	}
	return cloneSession(session), nil
}

// Snapshot returns a copy of the session's placements. Later clicks do not
// affect a snapshot already taken.
func (b *PlacementBoard) Snapshot(ctx context.Context, sessionID string) (domain.SimulationData, error) {
	session, err := b.Store.Get(ctx, sessionID)
	if err != nil {
		return domain.SimulationData{}, fmt.Errorf("snapshot: %w", err)
	}
	return cloneSimulation(session.Data), nil
}

// Reset clears all placements and keeps the boundary.
func (b *PlacementBoard) Reset(ctx context.Context, sessionID string) (ports.SimulationSession, error) {
	session, err := b.Store.Update(ctx, sessionID, func(s *ports.SimulationSession) error {
		s.Data = emptySimulation()
		return nil
	})
	if err != nil {
		return ports.SimulationSession{}, fmt.Errorf("reset: %w", err)
	}
	return cloneSession(session), nil
}

func (b *PlacementBoard) Discard(ctx context.Context, sessionID string) error {
	if err := b.Store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("discard: %w", err)
	}
	return nil
}

func record(d *domain.SimulationData, kind domain.InterventionKind, id string, at domain.LatLng, count int) {
	switch kind {
	case domain.KindTrees:
		d.TreeClusters = append(d.TreeClusters, domain.PointCluster{ID: id, Center: at, Count: count})
		d.TotalTreesPlaced += count
	case domain.KindSolar:
		d.SolarClusters = append(d.SolarClusters, domain.PointCluster{ID: id, Center: at, Count: count})
		d.TotalSolarPlaced += count
	case domain.KindPavement:
		d.PlacedPavementPoints = append(d.PlacedPavementPoints, domain.PointPlacement{ID: id, Center: at})
	case domain.KindPark:
		d.PlacedParks = append(d.PlacedParks, domain.PointPlacement{ID: id, Center: at})
	}
}

func placementOutcome(err error) string {
	switch {
	case errors.Is(err, ErrOutsideBoundary):
		return "outside_boundary"
	case errors.Is(err, ErrPlacementCapReached):
		return "cap_reached"
	case errors.Is(err, ports.ErrSessionNotFound):
		return "unknown_session"
	default:
		return "error"
	}
}

// Empty collections encode as [] rather than null.
func emptySimulation() domain.SimulationData {
	return domain.SimulationData{
		TreeClusters:         []domain.PointCluster{},
		SolarClusters:        []domain.PointCluster{},
		PlacedPavementPoints: []domain.PointPlacement{},
		PlacedParks:          []domain.PointPlacement{},
	}
}

func cloneSession(s ports.SimulationSession) ports.SimulationSession {
	out := s
	out.Boundary.Vertices = append([]domain.LatLng(nil), s.Boundary.Vertices...)
	out.Data = cloneSimulation(s.Data)
	return out
}

func cloneSimulation(d domain.SimulationData) domain.SimulationData {
	out := emptySimulation()
	out.TreeClusters = append(out.TreeClusters, d.TreeClusters...)
	out.SolarClusters = append(out.SolarClusters, d.SolarClusters...)
	out.PlacedPavementPoints = append(out.PlacedPavementPoints, d.PlacedPavementPoints...)
	out.PlacedParks = append(out.PlacedParks, d.PlacedParks...)
	out.TotalTreesPlaced = d.TotalTreesPlaced
	out.TotalSolarPlaced = d.TotalSolarPlaced
	return out
}
