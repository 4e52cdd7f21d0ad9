package domain

// Board is a gravity grid. Row 0 is the top row, row Rows-1 the bottom row.
// Cells are stored row-major in a single slice so Clone is one copy.
type Board struct {
	geo   Geometry
	cells []PlayerID
}

func NewBoard(geo Geometry) *Board {
	return &Board{
		geo:   geo,
		cells: make([]PlayerID, geo.Rows*geo.Columns),
	}
}

// BoardFromGrid builds a board from a top-to-bottom grid of cell values.
// It rejects unknown values and pieces that float above an empty cell.
func BoardFromGrid(geo Geometry, grid [][]int) (*Board, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	if len(grid) != geo.Rows {
		return nil, ErrInvalidBoard
	}

	b := NewBoard(geo)
	for r, row := range grid {
		if len(row) != geo.Columns {
			return nil, ErrInvalidBoard
		}
		for c, v := range row {
			p := PlayerID(v)
			if p != Empty && !p.IsMarker() {
				return nil, ErrInvalidBoard
			}
			b.set(r, c, p)
		}
	}

	// gravity: once a column has a piece, every cell below it is occupied
	for c := 0; c < geo.Columns; c++ {
		seen := false
		for r := 0; r < geo.Rows; r++ {
			if b.At(r, c) != Empty {
				seen = true
			} else if seen {
				return nil, ErrInvalidBoard
			}
		}
	}
	return b, nil
}

func (b *Board) Geometry() Geometry {
	return b.geo
}

func (b *Board) Rows() int {
	return b.geo.Rows
}

func (b *Board) Columns() int {
	return b.geo.Columns
}

// At returns the cell at (row, column). Callers must stay in bounds.
func (b *Board) At(row, column int) PlayerID {
	return b.cells[row*b.geo.Columns+column]
}

func (b *Board) set(row, column int, p PlayerID) {
	b.cells[row*b.geo.Columns+column] = p
}

func (b *Board) InBounds(row, column int) bool {
	return row >= 0 && row < b.geo.Rows && column >= 0 && column < b.geo.Columns
}

func (b *Board) IsValidMove(column int) bool {
	if column < 0 || column >= b.geo.Columns {
		return false
	}

	// here row 0 represents the top row
	return b.At(0, column) == Empty
}

// DropDisk places player in the lowest empty cell of column and returns its row.
func (b *Board) DropDisk(column int, player PlayerID) (int, error) {
	if !player.IsMarker() || column < 0 || column >= b.geo.Columns {
		return -1, ErrInvalidMove
	}
	if b.At(0, column) != Empty {
		return -1, ErrColumnFull
	}

	for row := b.geo.Rows - 1; row >= 0; row-- {
		if b.At(row, column) == Empty {
			b.set(row, column, player)
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

// Drop reports whether the move was legal. The board is unchanged when it was not.
func (b *Board) Drop(column int, player PlayerID) bool {
	_, err := b.DropDisk(column, player)
	return err == nil
}

// IsFull only looks at the top row; gravity guarantees the rest.
func (b *Board) IsFull() bool {
	for c := 0; c < b.geo.Columns; c++ {
		if b.At(0, c) == Empty {
			return false
		}
	}
	return true
}

func (b *Board) Clone() *Board {
	cells := make([]PlayerID, len(b.cells))
	copy(cells, b.cells)
	return &Board{geo: b.geo, cells: cells}
}

func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, b.geo.Columns)
	for c := 0; c < b.geo.Columns; c++ {
		if b.At(0, c) == Empty {
			moves = append(moves, c)
		}
	}
	return moves
}

// Count returns how many cells hold player.
func (b *Board) Count(player PlayerID) int {
	n := 0
	for _, p := range b.cells {
		if p == player {
			n++
		}
	}
	return n
}

// Grid returns a top-to-bottom copy of the cells as ints, the wire and storage format.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.geo.Rows)
	for r := range grid {
		grid[r] = make([]int, b.geo.Columns)
		for c := range grid[r] {
			grid[r][c] = int(b.At(r, c))
		}
	}
	return grid
}

// Mirror returns a copy with the column order reversed.
func (b *Board) Mirror() *Board {
	m := NewBoard(b.geo)
	for r := 0; r < b.geo.Rows; r++ {
		for c := 0; c < b.geo.Columns; c++ {
			m.set(r, b.geo.Columns-1-c, b.At(r, c))
		}
	}
	return m
}
