package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/auberginewly/feihualing/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) store.Store {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) RecordCompletedRound(ctx context.Context, sessionID string, deltas map[string]int, rec store.RoundRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for userID, delta := range deltas {
		if _, err := tx.Exec(ctx,
			`INSERT INTO feihualing_scores (session_id, user_id, score)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (session_id, user_id) DO UPDATE SET score = feihualing_scores.score + EXCLUDED.score`,
			sessionID, userID, delta); err != nil {
			return fmt.Errorf("upsert score: %w", err)
		}
	}

	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO feihualing_rounds (session_id, target_char, duration_minutes, started_at, ended_at, participants, poem_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (session_id) DO UPDATE SET
		   target_char = EXCLUDED.target_char,
		   duration_minutes = EXCLUDED.duration_minutes,
		   started_at = EXCLUDED.started_at,
		   ended_at = EXCLUDED.ended_at,
		   participants = EXCLUDED.participants,
		   poem_count = EXCLUDED.poem_count`,
		sessionID, rec.TargetChar, rec.DurationMinutes, rec.StartedAt, rec.EndedAt, participants, rec.PoemCount); err != nil {
		return fmt.Errorf("upsert round: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Ledger(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, score FROM feihualing_scores WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ledger := make(map[string]int)
	for rows.Next() {
		var userID string
		var score int
		if err := rows.Scan(&userID, &score); err != nil {
			return nil, err
		}
		ledger[userID] = score
	}
	return ledger, rows.Err()
}

func (s *PostgresStore) LastRound(ctx context.Context, sessionID string) (*store.RoundRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT target_char, duration_minutes, started_at, ended_at, participants, poem_count
		 FROM feihualing_rounds WHERE session_id = $1`,
		sessionID)
	var rec store.RoundRecord
	var participants []byte
	err := row.Scan(&rec.TargetChar, &rec.DurationMinutes, &rec.StartedAt, &rec.EndedAt, &participants, &rec.PoemCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(participants, &rec.Participants); err != nil {
		return nil, fmt.Errorf("unmarshal participants: %w", err)
	}
	return &rec, nil
}
