package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
)

type fakeRepo struct {
	mu      sync.Mutex
	records []domain.GameRecord
	err     error
}

func (r *fakeRepo) SaveGame(_ context.Context, rec domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepo) saved() []domain.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.GameRecord{}, r.records...)
}

func (r *fakeRepo) GetGameByID(_ context.Context, gameID string) (*domain.GameRecord, error) {
	for _, rec := range r.saved() {
		if rec.GameID == gameID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetPlayerHistory(_ context.Context, playerID string, limit int) ([]domain.GameRecord, error) {
	out := []domain.GameRecord{}
	for _, rec := range r.saved() {
		if rec.PlayerID == playerID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]domain.ServerMessage
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: map[string][]domain.ServerMessage{}}
}

func (n *recordingNotifier) SendMessage(playerID string, msg domain.ServerMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[playerID] = append(n.messages[playerID], msg)
	return nil
}

func (n *recordingNotifier) types(playerID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.messages[playerID] {
		out = append(out, m.Type)
	}
	return out
}

// lastColumnMover always plays the rightmost legal column.
type lastColumnMover struct{}

func (lastColumnMover) FindBestMove(b *domain.Board) int {
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return bot.NoMove
	}
	return moves[len(moves)-1]
}

var smallGeometry = domain.Geometry{Rows: 4, Columns: 4, ToWin: 3}

// blockingMover parks every search until release is closed.
type blockingMover struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingMover() *blockingMover {
	return &blockingMover{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (m *blockingMover) FindBestMove(b *domain.Board) int {
	m.started <- struct{}{}
	<-m.release
	return lastColumnMover{}.FindBestMove(b)
}

type failingNotifier struct{}

func (failingNotifier) SendMessage(string, domain.ServerMessage) error {
	return errors.New("socket closed")
}
