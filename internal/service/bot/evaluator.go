package bot

import (
	"github.com/iamasit07/connect4-minimax/internal/domain"
)

// terminalScore checks, in this order, an AI win, a human win and a full
// board. A full board that also holds a win scores as the win.
func (s *search) terminalScore(board *domain.Board, depth int) (int, bool) {
	if domain.HasFour(board, s.engine.ai) {
		return WinScore - depth, true // prefer quicker wins
	}
	if domain.HasFour(board, s.engine.human) {
		return -WinScore + depth, true // prefer delaying losses
	}
	if board.IsFull() {
		return 0, true
	}
	return 0, false
}
