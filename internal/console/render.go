package console

import (
	"fmt"
	"strings"

	"github.com/iamasit07/connect4-minimax/internal/domain"
)

// Render draws the board top row first, followed by a separator and the
// column numbers.
func Render(b *domain.Board) string {
	var sb strings.Builder
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Columns(); c++ {
			fmt.Fprintf(&sb, "| %s ", b.At(r, c).Symbol())
		}
		sb.WriteString("|\n")
	}

	sb.WriteString(strings.Repeat("-", 4*b.Columns()+1))
	sb.WriteByte('\n')

	labels := make([]string, b.Columns())
	for c := range labels {
		labels[c] = fmt.Sprintf("%3d", c)
	}
	sb.WriteString(strings.Join(labels, " "))
	sb.WriteByte('\n')
	return sb.String()
}
