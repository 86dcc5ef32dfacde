package sessions

import (
	"context"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 2 * time.Hour

	keyPrefix = "ecomap:session:"

	// Optimistic transactions are retried this many times when another
	// writer touches the session between WATCH and EXEC.
	maxUpdateAttempts = 5
)

var errSessionExists = errors.New("simulation session already exists")

// Adapter: implements ports.PlacementStore with JSON documents in Redis.
// Every write refreshes the session's TTL.
type RedisPlacementStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlacementStore(client *redis.Client, ttl time.Duration) *RedisPlacementStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPlacementStore{client: client, ttl: ttl}
}

// Wire format of a stored session.
type sessionDoc struct {
	ID       string                `json:"id"`
	Boundary domain.Boundary       `json:"boundary"`
	Data     domain.SimulationData `json:"data"`
}

func (s *RedisPlacementStore) Create(ctx context.Context, session ports.SimulationSession) error {
	b, err := encodeSession(session)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), b, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	if !ok {
		return fmt.Errorf("create session %s: %w", session.ID, errSessionExists)
	}
	return nil
}

func (s *RedisPlacementStore) Get(ctx context.Context, id string) (ports.SimulationSession, error) {
	return s.load(ctx, s.client, id)
}

func (s *RedisPlacementStore) Update(
	ctx context.Context,
	id string,
	fn func(*ports.SimulationSession) error,
) (ports.SimulationSession, error) {
	key := sessionKey(id)
	var updated ports.SimulationSession

	txf := func(tx *redis.Tx) error {
		session, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}
		b, err := encodeSession(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = session
		return nil
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return ports.SimulationSession{}, err
		}
		return updated, nil
	}
	return ports.SimulationSession{}, fmt.Errorf("update session %s: too much contention", id)
}

func (s *RedisPlacementStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ports.ErrSessionNotFound
	}
	return nil
}

func (s *RedisPlacementStore) load(ctx context.Context, c redis.Cmdable, id string) (ports.SimulationSession, error) {
	b, err := c.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.SimulationSession{}, ports.ErrSessionNotFound
	}
	if err != nil {
		return ports.SimulationSession{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var doc sessionDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return ports.SimulationSession{}, fmt.Errorf("load session %s: decode: %w", id, err)
	}
	return ports.SimulationSession{ID: doc.ID, Boundary: doc.Boundary, Data: doc.Data}, nil
}

func encodeSession(session ports.SimulationSession) ([]byte, error) {
	b, err := json.Marshal(sessionDoc{ID: session.ID, Boundary: session.Boundary, Data: session.Data})
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return b, nil
}

func sessionKey(id string) string { return keyPrefix + id }
