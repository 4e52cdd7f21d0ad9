package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/rs/zerolog/log"
)

// Mover picks the engine's column, or -1 when none is legal.
type Mover interface {
	FindBestMove(board *domain.Board) int
}

// Play runs one game on the terminal. The human plays X and moves first.
// It returns the winner, or domain.Empty on a draw.
func Play(ctx context.Context, in io.Reader, out io.Writer, engine Mover, geo domain.Geometry) (domain.PlayerID, error) {
	if err := geo.Validate(); err != nil {
		return domain.Empty, err
	}

	g := domain.NewGame(geo)
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "Welcome to Connect Four!\nYou are playing as %s against the AI (%s).\n",
		domain.Human.Symbol(), domain.Bot.Symbol())
	fmt.Fprint(out, Render(g.Board))

	for !g.IsFinished() {
		if err := ctx.Err(); err != nil {
			return domain.Empty, err
		}

		if g.CurrentPlayer == domain.Human {
			fmt.Fprintf(out, "Enter the column (0-%d) to drop your piece: ", geo.Columns-1)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return domain.Empty, err
				}
				return domain.Empty, io.ErrUnexpectedEOF
			}

			col, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				fmt.Fprintln(out, "Invalid move! Try again.")
				continue
			}
			if _, err := g.MakeMove(domain.Human, col); err != nil {
				fmt.Fprintln(out, "Invalid move! Try again.")
				continue
			}
		} else {
			// the engine is never asked to move on a full board
			if g.Board.IsFull() {
				break
			}
			fmt.Fprintln(out, "AI's turn...")
			col := engine.FindBestMove(g.Board)
			if _, err := g.MakeMove(domain.Bot, col); err != nil {
				return domain.Empty, fmt.Errorf("engine played column %d: %w", col, err)
			}
			log.Debug().Str("component", "console").Int("column", col).Msg("engine moved")
			fmt.Fprintf(out, "AI placed its piece in column %d\n", col)
		}

		fmt.Fprint(out, Render(g.Board))
	}

	switch g.Winner {
	case domain.Human:
		fmt.Fprintln(out, "You won!")
	case domain.Bot:
		fmt.Fprintln(out, "AI won!")
	default:
		fmt.Fprintln(out, "It's a draw!")
	}
	return g.Winner, nil
}
