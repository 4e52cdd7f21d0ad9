package domain

// PlayerID is the content of a single board cell.
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// The human always plays first; the engine holds the second marker.
const (
	Human = Player1
	Bot   = Player2
)

func (p PlayerID) IsMarker() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other marker. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

// Symbol is the single character used by text renderers.
func (p PlayerID) Symbol() string {
	switch p {
	case Player1:
		return "X"
	case Player2:
		return "O"
	}
	return " "
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Geometry describes the board dimensions and the run length that wins.
type Geometry struct {
	Rows    int
	Columns int
	ToWin   int
}

var StandardGeometry = Geometry{Rows: Rows, Columns: Columns, ToWin: ToWin}

// MaxDimension bounds rows and columns.
const MaxDimension = 16

// Validate rejects empty or oversized boards and run lengths that cannot fit.
func (g Geometry) Validate() error {
	if g.Rows < 1 || g.Columns < 1 || g.Rows > MaxDimension || g.Columns > MaxDimension {
		return ErrInvalidGeometry
	}
	if g.ToWin < 2 || g.ToWin > max(g.Rows, g.Columns) {
		return ErrInvalidGeometry
	}
	return nil
}

func (g Geometry) Cells() int {
	return g.Rows * g.Columns
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
	StatusResign GameStatus = "resigned"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove     Error = "invalid move"
	ErrColumnFull      Error = "column is full"
	ErrGameOver        Error = "game is already over"
	ErrNotYourTurn     Error = "not your turn"
	ErrGameNotFound    Error = "game not found"
	ErrInvalidGeometry Error = "invalid board geometry"
	ErrInvalidBoard    Error = "invalid board"
)
