package domain

// Game is the turn state machine around a Board. It refuses moves once a
// player has won, so a position can never show two winners.
type Game struct {
	Board         *Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	Moves         []int
}

func NewGame(geo Geometry) *Game {
	return &Game{
		Board:         NewBoard(geo),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameOver
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	if !g.Board.IsValidMove(column) {
		if column >= 0 && column < g.Board.Columns() {
			return -1, ErrColumnFull
		}
		return -1, ErrInvalidMove
	}

	row, err := g.Board.DropDisk(column, player)
	if err != nil {
		return -1, err
	}

	g.MoveCount++
	g.Moves = append(g.Moves, column)

	if CheckWin(g.Board, row, column, player) {
		g.Status = StatusWon
		g.Winner = player
		return row, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = player.Opponent()
	return row, nil
}

// Resign ends the game in favour of the opponent of player.
func (g *Game) Resign(player PlayerID) error {
	if g.Status != StatusActive {
		return ErrGameOver
	}
	g.Status = StatusResign
	g.Winner = player.Opponent()
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status != StatusActive
}
