package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameAlternatesTurns(t *testing.T) {
	g := NewGame(StandardGeometry)
	require.Equal(t, Player1, g.CurrentPlayer)

	row, err := g.MakeMove(Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, Rows-1, row)
	assert.Equal(t, Player2, g.CurrentPlayer)

	_, err = g.MakeMove(Player1, 3)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	row, err = g.MakeMove(Player2, 3)
	require.NoError(t, err)
	assert.Equal(t, Rows-2, row)
	assert.Equal(t, []int{3, 3}, g.Moves)
	assert.Equal(t, 2, g.MoveCount)
}

func TestGameRejectsIllegalColumns(t *testing.T) {
	g := NewGame(Geometry{Rows: 1, Columns: 3, ToWin: 3})
	_, err := g.MakeMove(Player1, 0)
	require.NoError(t, err)

	_, err = g.MakeMove(Player2, 0)
	assert.ErrorIs(t, err, ErrColumnFull)

	_, err = g.MakeMove(Player2, 7)
	assert.ErrorIs(t, err, ErrInvalidMove)

	assert.Equal(t, Player2, g.CurrentPlayer)
	assert.Equal(t, 1, g.MoveCount)
}

func TestGameDetectsWin(t *testing.T) {
	g := NewGame(StandardGeometry)
	for _, col := range []int{0, 0, 1, 1, 2, 2} {
		_, err := g.MakeMove(g.CurrentPlayer, col)
		require.NoError(t, err)
	}

	_, err := g.MakeMove(Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, Player1, g.Winner)
	assert.True(t, g.IsFinished())

	_, err = g.MakeMove(Player2, 3)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestGameDetectsDraw(t *testing.T) {
	g := NewGame(Geometry{Rows: 1, Columns: 4, ToWin: 4})
	for _, col := range []int{0, 1, 2, 3} {
		_, err := g.MakeMove(g.CurrentPlayer, col)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusDraw, g.Status)
	assert.Equal(t, Empty, g.Winner)
}

func TestGameResign(t *testing.T) {
	g := NewGame(StandardGeometry)
	require.NoError(t, g.Resign(Player1))
	assert.Equal(t, StatusResign, g.Status)
	assert.Equal(t, Player2, g.Winner)
	assert.ErrorIs(t, g.Resign(Player2), ErrGameOver)
}
