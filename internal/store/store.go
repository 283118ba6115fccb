package store

import (
	"context"
	"time"
)

// RoundRecord is the snapshot of the most recently completed round for one
// session. The JSON field names match the on-disk last_game.json document.
type RoundRecord struct {
	TargetChar      string         `json:"target_char"`
	DurationMinutes int            `json:"duration"`
	StartedAt       time.Time      `json:"start_time"`
	EndedAt         time.Time      `json:"end_time"`
	Participants    map[string]int `json:"participants"`
	PoemCount       int            `json:"poems_count"`
}

// Store persists cumulative scores and last-round snapshots across rounds.
// Implementations must be safe for concurrent use; a failed write is logged
// by the caller and never surfaced to players.
type Store interface {
	// RecordCompletedRound adds each user's delta to the session ledger,
	// creating entries as needed, and overwrites the session's last-round
	// record. The two writes need not be transactional across each other.
	RecordCompletedRound(ctx context.Context, sessionID string, deltas map[string]int, rec RoundRecord) error

	// Ledger returns the cumulative userID -> score mapping for the
	// session. A session without history yields an empty map.
	Ledger(ctx context.Context, sessionID string) (map[string]int, error)

	// LastRound returns the most recently completed round, or nil when the
	// session has none.
	LastRound(ctx context.Context, sessionID string) (*RoundRecord, error)
}
