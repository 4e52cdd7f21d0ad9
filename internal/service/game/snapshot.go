package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
)

// Snapshot is the client view of a game, live or finished.
type Snapshot struct {
	GameID      string            `json:"gameId"`
	PlayerID    string            `json:"-"`
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	Board       [][]int           `json:"board"`
	Status      domain.GameStatus `json:"status"`
	CurrentTurn int               `json:"currentTurn"`
	Winner      string            `json:"winner,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	MoveCount   int               `json:"moveCount"`
	Moves       []int             `json:"moves"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Cache is the key/value store snapshots are written through to.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Del(ctx context.Context, keys ...string) error
}

// snapshotEnvelope keeps PlayerID in the cache while the API hides it.
type snapshotEnvelope struct {
	Snapshot
	Owner string `json:"playerId"`
}

func snapshotKey(gameID string) string {
	return "game:" + gameID
}

func encodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{Snapshot: s, Owner: s.PlayerID})
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s := env.Snapshot
	s.PlayerID = env.Owner
	return &s, nil
}
