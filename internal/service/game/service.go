package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
	"github.com/iamasit07/connect4-minimax/pkg/uid"
	"github.com/rs/zerolog/log"
)

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
	ReasonResign      = "resign"
	ReasonAbandoned   = "abandoned"
)

// Notifier pushes messages to a connected player. Sends to players without
// a connection are dropped.
type Notifier interface {
	SendMessage(playerID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
}

// Mover picks the engine's column.
type Mover interface {
	FindBestMove(board *domain.Board) int
}

type Options struct {
	Geometry     domain.Geometry
	BotMoveDelay time.Duration
	SnapshotTTL  time.Duration
}

// SessionManager manages active game sessions, at most one per player.
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	byPlayer map[string]string       // playerID → gameID
	mu       sync.RWMutex

	repo     GameRepository
	cache    Cache // nil when redis is disabled
	engine   Mover
	notifier Notifier
	opts     Options

	pending sync.WaitGroup // async saves and bot moves
}

func NewSessionManager(repo GameRepository, cache Cache, engine Mover, opts Options) *SessionManager {
	if opts.SnapshotTTL == 0 {
		opts.SnapshotTTL = 24 * time.Hour
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		byPlayer: make(map[string]string),
		repo:     repo,
		cache:    cache,
		engine:   engine,
		notifier: noopNotifier{},
		opts:     opts,
	}
}

// SetNotifier wires the socket layer in after construction.
func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if n == nil {
		n = noopNotifier{}
	}
	sm.notifier = n
}

func (sm *SessionManager) notify() Notifier {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.notifier
}

// Wait blocks until background work started so far has finished.
func (sm *SessionManager) Wait() {
	sm.pending.Wait()
}

// WaitContext is Wait bounded by ctx. An engine search still running when
// ctx ends is left behind.
func (sm *SessionManager) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		sm.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// send logs failed pushes; players without a socket never fail.
func (sm *SessionManager) send(playerID string, msg domain.ServerMessage) {
	if err := sm.notify().SendMessage(playerID, msg); err != nil {
		log.Debug().Err(err).Str("component", "ws").Str("player_id", playerID).
			Str("type", msg.Type).Msg("failed to push message")
	}
}

// CreateSession starts a new game for playerID. A live game the player
// already has is abandoned first.
func (sm *SessionManager) CreateSession(playerID, client string) *GameSession {
	now := time.Now()
	gs := &GameSession{
		GameID:       uid.GenerateGameID(),
		PlayerID:     playerID,
		Client:       client,
		Game:         domain.NewGame(sm.opts.Geometry),
		CreatedAt:    now,
		LastActivity: now,
		manager:      sm,
	}

	sm.mu.Lock()
	var old *GameSession
	if oldID, ok := sm.byPlayer[playerID]; ok {
		old = sm.sessions[oldID]
		delete(sm.sessions, oldID)
	}
	sm.sessions[gs.GameID] = gs
	sm.byPlayer[playerID] = gs.GameID
	sm.mu.Unlock()

	if old != nil {
		old.abandon()
	}

	log.Info().Str("component", "session").Str("game_id", gs.GameID).Str("player_id", playerID).Msg("created session")

	gs.mu.Lock()
	sm.send(playerID, domain.ServerMessage{
		Type:        "game_start",
		GameID:      gs.GameID,
		YourPlayer:  int(domain.Human),
		CurrentTurn: int(gs.Game.CurrentPlayer),
		Board:       gs.Game.Board.Grid(),
	})
	sm.storeSnapshot(gs.snapshotLocked())
	gs.mu.Unlock()

	return gs
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByPlayerID(playerID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.byPlayer[playerID]
	if !exists {
		return nil, false
	}
	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[gameID]
	if !exists {
		return domain.ErrGameNotFound
	}

	if sm.byPlayer[session.PlayerID] == gameID {
		delete(sm.byPlayer, session.PlayerID)
	}
	delete(sm.sessions, gameID)
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Snapshot returns the game from memory, or from the cache once the session
// has been evicted.
func (sm *SessionManager) Snapshot(ctx context.Context, gameID string) (*Snapshot, error) {
	if gs, ok := sm.GetSessionByGameID(gameID); ok {
		s := gs.Snapshot()
		return &s, nil
	}
	if sm.cache == nil {
		return nil, domain.ErrGameNotFound
	}

	data, ok, err := sm.cache.Get(ctx, snapshotKey(gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return decodeSnapshot(data)
}

// CleanupStale drops finished sessions and sessions idle for longer than idleTTL.
func (sm *SessionManager) CleanupStale(now time.Time, idleTTL time.Duration) int {
	sm.mu.RLock()
	candidates := make([]*GameSession, 0, len(sm.sessions))
	for _, gs := range sm.sessions {
		candidates = append(candidates, gs)
	}
	sm.mu.RUnlock()

	count := 0
	for _, gs := range candidates {
		// a session whose lock is taken is in use right now
		if !gs.mu.TryLock() {
			continue
		}
		finished := gs.Game.IsFinished()
		idle := now.Sub(gs.LastActivity) > idleTTL
		gs.mu.Unlock()

		if !finished && !idle {
			continue
		}
		if !finished {
			gs.abandon()
		}
		if sm.RemoveSession(gs.GameID) == nil {
			count++
		}
	}

	if count > 0 {
		log.Info().Str("component", "session").Int("removed", count).Msg("memory cleanup removed stale sessions")
	}
	return count
}

// storeSnapshot writes through to the cache. It runs under the session lock
// so writes for one game land in order.
func (sm *SessionManager) storeSnapshot(s Snapshot) {
	if sm.cache == nil {
		return
	}
	data, err := encodeSnapshot(s)
	if err != nil {
		log.Error().Err(err).Str("component", "session").Str("game_id", s.GameID).Msg("encode snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.cache.Set(ctx, snapshotKey(s.GameID), data, sm.opts.SnapshotTTL); err != nil {
		log.Warn().Err(err).Str("component", "session").Str("game_id", s.GameID).Msg("store snapshot")
	}
}

// saveGameAsync persists a finished game without blocking game_over messages.
func (sm *SessionManager) saveGameAsync(rec domain.GameRecord) {
	if sm.repo == nil {
		return
	}

	sm.pending.Add(1)
	go func() {
		defer sm.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Error().Err(err).Str("component", "session").Str("game_id", rec.GameID).Msg("error saving game")
			return
		}
		log.Info().Str("component", "session").Str("game_id", rec.GameID).Msg("game saved")
	}()
}

// GameSession is one human against the engine.
type GameSession struct {
	GameID       string
	PlayerID     string
	Client       string
	Game         *domain.Game
	Reason       string
	CreatedAt    time.Time
	FinishedAt   time.Time
	LastActivity time.Time
	mu           sync.Mutex
	manager      *SessionManager
}

// Turn is the outcome of PlayTurn. BotColumn is NoMove when the human move
// ended the game.
type Turn struct {
	Column    int      `json:"column"`
	Row       int      `json:"row"`
	BotColumn int      `json:"botColumn"`
	BotRow    int      `json:"botRow"`
	Game      Snapshot `json:"game"`
}

var ErrNotYourGame = errors.New("player is not part of this game")

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() Snapshot {
	g := gs.Game
	s := Snapshot{
		GameID:      gs.GameID,
		PlayerID:    gs.PlayerID,
		Rows:        g.Board.Rows(),
		Columns:     g.Board.Columns(),
		Board:       g.Board.Grid(),
		Status:      g.Status,
		CurrentTurn: int(g.CurrentPlayer),
		Reason:      gs.Reason,
		MoveCount:   g.MoveCount,
		Moves:       append([]int{}, g.Moves...),
		UpdatedAt:   gs.LastActivity,
	}
	if g.IsFinished() {
		s.Winner = domain.WinnerLabel(g.Winner)
	}
	return s
}

// HandleMove applies the human move and schedules the engine reply in the
// background. Used by the socket transport.
func (gs *GameSession) HandleMove(playerID string, column int) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, err := gs.applyHumanMoveLocked(playerID, column); err != nil {
		return err
	}
	if !gs.Game.IsFinished() {
		gs.scheduleBotMove()
	}
	return nil
}

// PlayTurn applies the human move and the engine reply before returning.
// Used by the HTTP transport. BotColumn stays NoMove when the game ended
// or moved on while the engine was searching.
func (gs *GameSession) PlayTurn(playerID string, column int) (Turn, error) {
	gs.mu.Lock()
	row, err := gs.applyHumanMoveLocked(playerID, column)
	finished := gs.Game.IsFinished()
	gs.mu.Unlock()
	if err != nil {
		return Turn{}, err
	}

	turn := Turn{Column: column, Row: row, BotColumn: bot.NoMove, BotRow: -1}
	if !finished {
		botColumn, botRow, err := gs.playBotMove()
		switch {
		case err == nil:
			turn.BotColumn, turn.BotRow = botColumn, botRow
		case !errors.Is(err, errGameMovedOn):
			return Turn{}, err
		}
	}
	turn.Game = gs.Snapshot()
	return turn, nil
}

// HandleBotMove plays the engine's move if it is the engine's turn.
func (gs *GameSession) HandleBotMove() error {
	_, _, err := gs.playBotMove()
	if errors.Is(err, errGameMovedOn) {
		// the human may have resigned while the timer or the search was pending
		return nil
	}
	return err
}

func (gs *GameSession) scheduleBotMove() {
	sm := gs.manager
	sm.pending.Add(1)
	time.AfterFunc(sm.opts.BotMoveDelay, func() {
		defer sm.pending.Done()
		if err := gs.HandleBotMove(); err != nil {
			log.Error().Err(err).Str("component", "bot").Str("game_id", gs.GameID).Msg("error handling bot move")
		}
	})
}

func (gs *GameSession) applyHumanMoveLocked(playerID string, column int) (int, error) {
	if playerID != gs.PlayerID {
		return -1, ErrNotYourGame
	}
	if gs.Game.IsFinished() {
		return -1, domain.ErrGameOver
	}
	if gs.Game.CurrentPlayer != domain.Human {
		return -1, domain.ErrNotYourTurn
	}

	row, err := gs.Game.MakeMove(domain.Human, column)
	if err != nil {
		return -1, err
	}
	gs.afterMoveLocked(domain.Human, column, row)
	return row, nil
}

// errGameMovedOn reports that the position changed between taking the
// board for a search and applying its result.
var errGameMovedOn = errors.New("game moved on during engine search")

// playBotMove searches a copy of the board without holding the session lock,
// then applies the result only if no move, resignation or cleanup happened
// in between.
func (gs *GameSession) playBotMove() (int, int, error) {
	gs.mu.Lock()
	if gs.Game.IsFinished() || gs.Game.CurrentPlayer != domain.Bot {
		gs.mu.Unlock()
		return bot.NoMove, -1, errGameMovedOn
	}
	if gs.Game.Board.IsFull() {
		gs.mu.Unlock()
		return bot.NoMove, -1, fmt.Errorf("game %s: engine asked to move on a full board", gs.GameID)
	}
	board := gs.Game.Board.Clone()
	seen := gs.Game.MoveCount
	gs.mu.Unlock()

	start := time.Now()
	column := gs.manager.engine.FindBestMove(board)

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() || gs.Game.MoveCount != seen {
		return bot.NoMove, -1, errGameMovedOn
	}
	if column == bot.NoMove {
		return bot.NoMove, -1, fmt.Errorf("game %s: engine found no legal move", gs.GameID)
	}

	row, err := gs.Game.MakeMove(domain.Bot, column)
	if err != nil {
		return bot.NoMove, -1, fmt.Errorf("game %s: engine move rejected: %w", gs.GameID, err)
	}

	log.Debug().Str("component", "bot").Str("game_id", gs.GameID).Int("column", column).
		Dur("took", time.Since(start)).Msg("engine moved")

	gs.afterMoveLocked(domain.Bot, column, row)
	return column, row, nil
}

func (gs *GameSession) afterMoveLocked(player domain.PlayerID, column, row int) {
	gs.LastActivity = time.Now()
	sm := gs.manager

	sm.send(gs.PlayerID, domain.ServerMessage{
		Type:     "move_made",
		GameID:   gs.GameID,
		Column:   &column,
		Row:      &row,
		Player:   int(player),
		Board:    gs.Game.Board.Grid(),
		NextTurn: int(gs.Game.CurrentPlayer),
	})

	switch gs.Game.Status {
	case domain.StatusWon:
		gs.finishLocked(ReasonConnectFour)
	case domain.StatusDraw:
		gs.finishLocked(ReasonDraw)
	default:
		sm.storeSnapshot(gs.snapshotLocked())
	}
}

// Resign ends the game in favour of the engine.
func (gs *GameSession) Resign(playerID string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if playerID != gs.PlayerID {
		return ErrNotYourGame
	}
	if err := gs.Game.Resign(domain.Human); err != nil {
		return err
	}
	gs.finishLocked(ReasonResign)
	return nil
}

func (gs *GameSession) abandon() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.Game.Resign(domain.Human); err != nil {
		// already finished
		return
	}
	gs.finishLocked(ReasonAbandoned)
}

func (gs *GameSession) finishLocked(reason string) {
	gs.Reason = reason
	gs.FinishedAt = time.Now()
	gs.LastActivity = gs.FinishedAt
	sm := gs.manager

	winner := domain.WinnerLabel(gs.Game.Winner)
	log.Info().Str("component", "session").Str("game_id", gs.GameID).Str("winner", winner).
		Str("reason", reason).Int("moves", gs.Game.MoveCount).Msg("game over")

	sm.send(gs.PlayerID, domain.ServerMessage{
		Type:   "game_over",
		GameID: gs.GameID,
		Winner: winner,
		Reason: reason,
		Board:  gs.Game.Board.Grid(),
	})

	sm.saveGameAsync(domain.GameRecord{
		GameID:          gs.GameID,
		PlayerID:        gs.PlayerID,
		Client:          gs.Client,
		Winner:          winner,
		Reason:          reason,
		Rows:            gs.Game.Board.Rows(),
		Columns:         gs.Game.Board.Columns(),
		TotalMoves:      gs.Game.MoveCount,
		Moves:           append([]int{}, gs.Game.Moves...),
		Board:           gs.Game.Board.Grid(),
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
	})
	sm.storeSnapshot(gs.snapshotLocked())
}

// Restart replaces the player's game with a fresh one.
func (sm *SessionManager) Restart(playerID string) (*GameSession, error) {
	old, ok := sm.GetSessionByPlayerID(playerID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return sm.CreateSession(playerID, old.Client), nil
}

type noopNotifier struct{}

func (noopNotifier) SendMessage(string, domain.ServerMessage) error { return nil }
