package game

import (
	"context"
	"testing"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(mover Mover) (*SessionManager, *fakeRepo, *memCache, *recordingNotifier) {
	repo := &fakeRepo{}
	cache := newMemCache()
	notifier := newRecordingNotifier()
	sm := NewSessionManager(repo, cache, mover, Options{Geometry: smallGeometry})
	sm.SetNotifier(notifier)
	return sm, repo, cache, notifier
}

func TestCreateSession(t *testing.T) {
	sm, _, cache, notifier := newTestManager(lastColumnMover{})

	gs := sm.CreateSession("p1", "browser")
	sm.Wait()

	got, ok := sm.GetSessionByPlayerID("p1")
	require.True(t, ok)
	assert.Same(t, gs, got)
	assert.Equal(t, []string{"game_start"}, notifier.types("p1"))

	_, ok, err := cache.Get(context.Background(), snapshotKey(gs.GameID))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPlayTurnAppliesHumanAndEngineMoves(t *testing.T) {
	sm, _, _, notifier := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "browser")

	turn, err := gs.PlayTurn("p1", 0)
	require.NoError(t, err)

	assert.Equal(t, 0, turn.Column)
	assert.Equal(t, 3, turn.Row)
	assert.Equal(t, 3, turn.BotColumn)
	assert.Equal(t, 3, turn.BotRow)
	assert.Equal(t, domain.StatusActive, turn.Game.Status)
	assert.Equal(t, []int{0, 3}, turn.Game.Moves)
	assert.Equal(t, int(domain.Human), turn.Game.CurrentTurn)
	assert.Equal(t, []string{"game_start", "move_made", "move_made"}, notifier.types("p1"))
}

func TestHumanWinIsPersisted(t *testing.T) {
	sm, repo, _, notifier := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "script")

	for _, col := range []int{0, 1} {
		_, err := gs.PlayTurn("p1", col)
		require.NoError(t, err)
	}
	turn, err := gs.PlayTurn("p1", 2)
	require.NoError(t, err)
	sm.Wait()

	assert.Equal(t, bot.NoMove, turn.BotColumn)
	assert.Equal(t, domain.StatusWon, turn.Game.Status)
	assert.Equal(t, domain.WinnerHuman, turn.Game.Winner)
	assert.Equal(t, ReasonConnectFour, turn.Game.Reason)

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, gs.GameID, records[0].GameID)
	assert.Equal(t, domain.WinnerHuman, records[0].Winner)
	assert.Equal(t, "script", records[0].Client)
	assert.Equal(t, []int{0, 3, 1, 3, 2}, records[0].Moves)
	assert.Equal(t, 5, records[0].TotalMoves)

	types := notifier.types("p1")
	assert.Equal(t, "game_over", types[len(types)-1])

	_, err = gs.PlayTurn("p1", 0)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestMoveErrors(t *testing.T) {
	sm, _, _, _ := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "browser")

	_, err := gs.PlayTurn("intruder", 0)
	assert.ErrorIs(t, err, ErrNotYourGame)

	_, err = gs.PlayTurn("p1", 9)
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	// column 3 fills with alternating human and engine pieces
	for i := 0; i < 2; i++ {
		_, err = gs.PlayTurn("p1", 3)
		require.NoError(t, err)
	}
	_, err = gs.PlayTurn("p1", 3)
	assert.ErrorIs(t, err, domain.ErrColumnFull)
	assert.Equal(t, 4, gs.Snapshot().MoveCount)
}

func TestHandleMoveRepliesInBackground(t *testing.T) {
	sm, _, _, notifier := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "browser")

	require.NoError(t, gs.HandleMove("p1", 1))
	sm.Wait()

	snap := gs.Snapshot()
	assert.Equal(t, []int{1, 3}, snap.Moves)
	assert.Equal(t, int(domain.Human), snap.CurrentTurn)
	assert.Equal(t, []string{"game_start", "move_made", "move_made"}, notifier.types("p1"))

	// HandleBotMove does nothing on the human's turn
	require.NoError(t, gs.HandleMove("p1", 1))
	sm.Wait()
	require.NoError(t, gs.HandleBotMove())
	assert.Len(t, gs.Snapshot().Moves, 4)
}

func TestResign(t *testing.T) {
	sm, repo, _, _ := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "browser")

	assert.ErrorIs(t, gs.Resign("p2"), ErrNotYourGame)
	require.NoError(t, gs.Resign("p1"))
	sm.Wait()

	snap := gs.Snapshot()
	assert.Equal(t, domain.StatusResign, snap.Status)
	assert.Equal(t, domain.WinnerBot, snap.Winner)

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, ReasonResign, records[0].Reason)

	assert.ErrorIs(t, gs.Resign("p1"), domain.ErrGameOver)
	assert.NoError(t, gs.HandleBotMove())
}

func TestCreateSessionAbandonsPreviousGame(t *testing.T) {
	sm, repo, _, _ := newTestManager(lastColumnMover{})
	first := sm.CreateSession("p1", "browser")
	second := sm.CreateSession("p1", "browser")
	sm.Wait()

	assert.NotEqual(t, first.GameID, second.GameID)
	_, ok := sm.GetSessionByGameID(first.GameID)
	assert.False(t, ok)
	assert.Equal(t, 1, sm.Count())

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, first.GameID, records[0].GameID)
	assert.Equal(t, ReasonAbandoned, records[0].Reason)
}

func TestRestart(t *testing.T) {
	sm, _, _, _ := newTestManager(lastColumnMover{})

	_, err := sm.Restart("p1")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	first := sm.CreateSession("p1", "mobile")
	second, err := sm.Restart("p1")
	require.NoError(t, err)
	assert.NotEqual(t, first.GameID, second.GameID)
	assert.Equal(t, "mobile", second.Client)
}

func TestCleanupStale(t *testing.T) {
	sm, repo, _, _ := newTestManager(lastColumnMover{})
	idle := sm.CreateSession("idle", "browser")
	done := sm.CreateSession("done", "browser")
	fresh := sm.CreateSession("fresh", "browser")
	require.NoError(t, done.Resign("done"))

	idle.mu.Lock()
	idle.LastActivity = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	removed := sm.CleanupStale(time.Now(), time.Hour)
	sm.Wait()

	assert.Equal(t, 2, removed)
	_, ok := sm.GetSessionByGameID(fresh.GameID)
	assert.True(t, ok)
	assert.Equal(t, 1, sm.Count())
	assert.Len(t, repo.saved(), 2)
}

func TestSnapshotFallsBackToCache(t *testing.T) {
	sm, _, _, _ := newTestManager(lastColumnMover{})
	gs := sm.CreateSession("p1", "browser")
	_, err := gs.PlayTurn("p1", 2)
	require.NoError(t, err)
	sm.Wait()

	require.NoError(t, sm.RemoveSession(gs.GameID))
	assert.ErrorIs(t, sm.RemoveSession(gs.GameID), domain.ErrGameNotFound)

	snap, err := sm.Snapshot(context.Background(), gs.GameID)
	require.NoError(t, err)
	assert.Equal(t, "p1", snap.PlayerID)
	assert.Equal(t, []int{2, 3}, snap.Moves)

	_, err = sm.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestSnapshotWithoutCache(t *testing.T) {
	sm := NewSessionManager(nil, nil, lastColumnMover{}, Options{Geometry: smallGeometry})
	_, err := sm.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestFullGameAgainstEngine(t *testing.T) {
	repo := &fakeRepo{}
	geo := domain.Geometry{Rows: 3, Columns: 4, ToWin: 3}
	sm := NewSessionManager(repo, nil, bot.NewEngine(bot.WithOrder(bot.OrderCenterOut)), Options{Geometry: geo})
	gs := sm.CreateSession("p1", "script")

	for i := 0; i < geo.Cells(); i++ {
		snap := gs.Snapshot()
		if snap.Status != domain.StatusActive {
			break
		}
		board, err := domain.BoardFromGrid(geo, snap.Board)
		require.NoError(t, err)
		_, err = gs.PlayTurn("p1", board.ValidMoves()[0])
		require.NoError(t, err)
	}
	sm.Wait()

	snap := gs.Snapshot()
	require.NotEqual(t, domain.StatusActive, snap.Status)
	require.Len(t, repo.saved(), 1)
	assert.Equal(t, snap.Winner, repo.saved()[0].Winner)
}
