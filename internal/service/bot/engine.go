package bot

import (
	"fmt"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	WinScore = 100
	NegInf   = -1000 // below any reachable score
	PosInf   = 1000
	NoMove   = -1
)

// Order is the sequence in which columns are tried inside the tree.
type Order int

const (
	OrderAscending Order = iota
	OrderCenterOut
)

func (o Order) String() string {
	if o == OrderCenterOut {
		return "center"
	}
	return "ascending"
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "ascending":
		return OrderAscending, nil
	case "center":
		return OrderCenterOut, nil
	}
	return OrderAscending, fmt.Errorf("unknown search order %q", s)
}

type Option func(*Engine)

// WithOrder changes the column order below the root. Root columns are always
// scanned in ascending order so ties keep going to the lowest column.
func WithOrder(o Order) Option {
	return func(e *Engine) { e.order = o }
}

// WithoutPruning turns the search into plain minimax.
func WithoutPruning() Option {
	return func(e *Engine) { e.prune = false }
}

func WithMarkers(ai, human domain.PlayerID) Option {
	return func(e *Engine) {
		e.ai = ai
		e.human = human
	}
}

// Engine is immutable after construction and safe for concurrent use; every
// search keeps its own counters.
type Engine struct {
	ai    domain.PlayerID
	human domain.PlayerID
	order Order
	prune bool
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		ai:    domain.Bot,
		human: domain.Human,
		order: OrderAscending,
		prune: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) AI() domain.PlayerID {
	return e.ai
}

func (e *Engine) Human() domain.PlayerID {
	return e.human
}

// ColumnScore is the value of dropping the AI marker into Column.
type ColumnScore struct {
	Column int `json:"column"`
	Score  int `json:"score"`
}

type Analysis struct {
	Column  int           `json:"column"`
	Score   int           `json:"score"`
	Scores  []ColumnScore `json:"scores"`
	Nodes   int64         `json:"nodes"`
	Elapsed time.Duration `json:"elapsedNs"`
}

// FindBestMove returns the column with the strictly greatest score, first
// column on ties, or NoMove when the board has no legal column. Check
// IsFull before calling rather than relying on NoMove.
func (e *Engine) FindBestMove(board *domain.Board) int {
	return e.Analyze(board).Column
}

func (e *Engine) Analyze(board *domain.Board) Analysis {
	start := time.Now()
	s := e.newSearch(board.Geometry())

	result := Analysis{Column: NoMove, Score: NegInf}
	for c := 0; c < board.Columns(); c++ {
		child := board.Clone()
		if !child.Drop(c, e.ai) {
			continue
		}
		score := s.minimax(child, 0, false, NegInf, PosInf)
		result.Scores = append(result.Scores, ColumnScore{Column: c, Score: score})
		if score > result.Score {
			result.Score = score
			result.Column = c
		}
	}

	result.Nodes = s.nodes
	result.Elapsed = time.Since(start)

	log.Debug().
		Str("component", "bot").
		Int("column", result.Column).
		Int("score", result.Score).
		Int64("nodes", result.Nodes).
		Dur("elapsed", result.Elapsed).
		Msg("search finished")

	return result
}

// Minimax scores board with the given side to move. alpha and beta are the
// window; pass NegInf and PosInf for an exact value.
func (e *Engine) Minimax(board *domain.Board, depth int, maximizing bool, alpha, beta int) int {
	return e.newSearch(board.Geometry()).minimax(board, depth, maximizing, alpha, beta)
}

func (e *Engine) newSearch(geo domain.Geometry) *search {
	return &search{
		engine:  e,
		columns: columnOrder(geo.Columns, e.order),
	}
}

// columnOrder returns the columns to try below the root.
func columnOrder(columns int, order Order) []int {
	cols := make([]int, 0, columns)
	if order != OrderCenterOut {
		for c := 0; c < columns; c++ {
			cols = append(cols, c)
		}
		return cols
	}

	// distance from the center counted in half columns, left side first
	for dist := 0; dist <= columns; dist++ {
		for c := 0; c < columns; c++ {
			d := 2*c - (columns - 1)
			if d < 0 {
				d = -d
			}
			if d == dist {
				cols = append(cols, c)
			}
		}
	}
	return cols
}
