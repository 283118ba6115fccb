package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/auberginewly/feihualing/internal/store"
)

const (
	scoresFilename   = "scores.json"
	lastGameFilename = "last_game.json"
)

// JSONFileStore keeps the full ledger and last-round mappings in memory and
// rewrites the two JSON documents on every completed round. The in-memory
// state stays authoritative for the process even when a write fails.
type JSONFileStore struct {
	mu         sync.Mutex
	dataDir    string
	scores     map[string]map[string]int
	lastRounds map[string]store.RoundRecord
}

func NewJSONFileStore(dataDir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &JSONFileStore{
		dataDir:    dataDir,
		scores:     make(map[string]map[string]int),
		lastRounds: make(map[string]store.RoundRecord),
	}
	if err := loadJSONFile(filepath.Join(dataDir, scoresFilename), &s.scores); err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	if err := loadJSONFile(filepath.Join(dataDir, lastGameFilename), &s.lastRounds); err != nil {
		return nil, fmt.Errorf("load last games: %w", err)
	}
	return s, nil
}

func (s *JSONFileStore) RecordCompletedRound(_ context.Context, sessionID string, deltas map[string]int, rec store.RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.scores[sessionID]
	if !ok {
		ledger = make(map[string]int)
		s.scores[sessionID] = ledger
	}
	for userID, delta := range deltas {
		ledger[userID] += delta
	}
	s.lastRounds[sessionID] = rec

	if err := writeJSONFile(filepath.Join(s.dataDir, scoresFilename), s.scores); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	if err := writeJSONFile(filepath.Join(s.dataDir, lastGameFilename), s.lastRounds); err != nil {
		return fmt.Errorf("write last games: %w", err)
	}
	return nil
}

func (s *JSONFileStore) Ledger(_ context.Context, sessionID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.scores[sessionID]))
	for userID, score := range s.scores[sessionID] {
		out[userID] = score
	}
	return out, nil
}

func (s *JSONFileStore) LastRound(_ context.Context, sessionID string) (*store.RoundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lastRounds[sessionID]
	if !ok {
		return nil, nil
	}
	copied := rec
	copied.Participants = make(map[string]int, len(rec.Participants))
	for userID, score := range rec.Participants {
		copied.Participants[userID] = score
	}
	return &copied, nil
}

// loadJSONFile treats a missing file as an empty mapping, not an error.
func loadJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(b, v)
}

// writeJSONFile rewrites the document via a temp file and rename so a crash
// mid-write never leaves a truncated document behind.
func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
