package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// parseBoard - reads rows like "XO_/_X_/__O", '_' is an empty cell and '/' is ignored.
func parseBoard(t *testing.T, layout string) entity.Board {
	t.Helper()

	var board entity.Board
	i := 0
	for _, ch := range layout {
		switch ch {
		case '/':
			continue
		case '_':
			board[i] = entity.Empty
		case 'X':
			board[i] = entity.X
		case 'O':
			board[i] = entity.O
		default:
			t.Fatalf("unexpected cell %q in layout %q", ch, layout)
		}
		i++
	}

	if i != entity.BoardSize {
		t.Fatalf("layout %q has %d cells", layout, i)
	}

	return board
}

// fixedSource - every draw returns the same value, Float64 reads it as value/2^63.
type fixedSource int64

func (that fixedSource) Int63() int64 { return int64(that) }

func (that fixedSource) Seed(int64) {}
