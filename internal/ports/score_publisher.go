package ports

import (
	"context"
	"time"
)

// Score event emitted after a successful scoring call, for downstream
// consumers such as leaderboards.
type ScoreEvent struct {
	SessionID  string    `json:"session_id,omitempty"`
	Strategy   string    `json:"strategy"`
	Score      int       `json:"score"`
	Placements int       `json:"placements"`
	ScoredAt   time.Time `json:"scored_at"`
}

type ScorePublisher interface {
	Publish(ctx context.Context, ev ScoreEvent) error
}
