package domain

// directions scanned for a winning run: row, column, down-right, down-left
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// HasFour reports whether player owns ToWin consecutive cells in any direction.
// It returns on the first run found.
func HasFour(board *Board, player PlayerID) bool {
	if !player.IsMarker() {
		return false
	}

	need := board.geo.ToWin
	for r := 0; r < board.geo.Rows; r++ {
		for c := 0; c < board.geo.Columns; c++ {
			if board.At(r, c) != player {
				continue
			}
			for _, d := range directions {
				if hasRun(board, r, c, d[0], d[1], need, player) {
					return true
				}
			}
		}
	}
	return false
}

func hasRun(board *Board, row, column, deltaRow, deltaCol, need int, player PlayerID) bool {
	endRow := row + deltaRow*(need-1)
	endCol := column + deltaCol*(need-1)
	if !board.InBounds(endRow, endCol) {
		return false
	}
	for k := 1; k < need; k++ {
		if board.At(row+deltaRow*k, column+deltaCol*k) != player {
			return false
		}
	}
	return true
}

// Winner returns the marker holding a winning run, or Empty. Turn order
// guarantees at most one of them does.
func Winner(board *Board) PlayerID {
	if HasFour(board, Player1) {
		return Player1
	}
	if HasFour(board, Player2) {
		return Player2
	}
	return Empty
}

// CountDiskInDirection counts consecutive player cells starting next to (row, column).
func CountDiskInDirection(board *Board, row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for board.InBounds(r, c) && board.At(r, c) == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// CheckWin only looks at lines through (row, column), the cell just played.
func CheckWin(board *Board, row, column int, player PlayerID) bool {
	for _, d := range directions {
		total := 1 +
			CountDiskInDirection(board, row, column, d[0], d[1], player) +
			CountDiskInDirection(board, row, column, -d[0], -d[1], player)
		if total >= board.geo.ToWin {
			return true
		}
	}
	return false
}
