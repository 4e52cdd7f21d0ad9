package bot

import (
	"github.com/iamasit07/connect4-minimax/internal/domain"
)

// search carries the per-call state of one tree walk.
type search struct {
	engine  *Engine
	columns []int
	nodes   int64
}

// minimax implements the minimax algorithm with alpha-beta pruning. depth
// only biases terminal scores; the walk always reaches a terminal position.
func (s *search) minimax(board *domain.Board, depth int, isMaximizing bool, alpha, beta int) int {
	s.nodes++

	if score, ok := s.terminalScore(board, depth); ok {
		return score
	}

	e := s.engine
	if isMaximizing {
		maxEval := NegInf
		for _, col := range s.columns {
			child := board.Clone()
			if !child.Drop(col, e.ai) {
				continue
			}

			eval := s.minimax(child, depth+1, false, alpha, beta)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, maxEval)

			if e.prune && beta <= alpha {
				break // beta cutoff
			}
		}
		return maxEval
	}

	minEval := PosInf
	for _, col := range s.columns {
		child := board.Clone()
		if !child.Drop(col, e.human) {
			continue
		}

		eval := s.minimax(child, depth+1, true, alpha, beta)
		minEval = min(minEval, eval)
		beta = min(beta, minEval)

		if e.prune && beta <= alpha {
			break // alpha cutoff
		}
	}
	return minEval
}
