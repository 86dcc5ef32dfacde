package sessions

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/ports"
	"fmt"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

// In-process PlacementStore used when no Redis is configured.
// Expired sessions are dropped on access, and Create sweeps the whole map at
// most once per memorySweepInterval.
type MemoryPlacementStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	sessions  map[string]memoryEntry
	nextSweep time.Time
}

type memoryEntry struct {
	session   ports.SimulationSession
	expiresAt time.Time
}

func NewMemoryPlacementStore(ttl time.Duration) *MemoryPlacementStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryPlacementStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryPlacementStore) Create(ctx context.Context, session ports.SimulationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	if _, ok := s.lookup(session.ID); ok {
		return fmt.Errorf("create session %s: %w", session.ID, errSessionExists)
	}
	s.put(session)
	return nil
}

func (s *MemoryPlacementStore) Get(ctx context.Context, id string) (ports.SimulationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return ports.SimulationSession{}, ports.ErrSessionNotFound
	}
	return copySession(e.session), nil
}

func (s *MemoryPlacementStore) Update(
	ctx context.Context,
	id string,
	fn func(*ports.SimulationSession) error,
) (ports.SimulationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return ports.SimulationSession{}, ports.ErrSessionNotFound
	}

	working := copySession(e.session)
	if err := fn(&working); err != nil {
		return ports.SimulationSession{}, err
	}
	s.put(working)
	return copySession(working), nil
}

func (s *MemoryPlacementStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); !ok {
		return ports.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// lookup must be called with mu held.
func (s *MemoryPlacementStore) lookup(id string) (memoryEntry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return memoryEntry{}, false
	}
	return e, true
}

// sweep must be called with mu held.
func (s *MemoryPlacementStore) sweep() {
	now := s.now()
	if now.Before(s.nextSweep) {
		return
	}
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.nextSweep = now.Add(memorySweepInterval)
}

func (s *MemoryPlacementStore) put(session ports.SimulationSession) {
	s.sessions[session.ID] = memoryEntry{session: copySession(session), expiresAt: s.now().Add(s.ttl)}
}

// copySession detaches the slices so callers cannot mutate stored state.
func copySession(in ports.SimulationSession) ports.SimulationSession {
	out := in
	out.Boundary.Vertices = append([]domain.LatLng(nil), in.Boundary.Vertices...)
	out.Data.TreeClusters = append([]domain.PointCluster{}, in.Data.TreeClusters...)
	out.Data.SolarClusters = append([]domain.PointCluster{}, in.Data.SolarClusters...)
	out.Data.PlacedPavementPoints = append([]domain.PointPlacement{}, in.Data.PlacedPavementPoints...)
	out.Data.PlacedParks = append([]domain.PointPlacement{}, in.Data.PlacedParks...)
	return out
}
