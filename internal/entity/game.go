package entity

import (
	"errors"
	"fmt"
)

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDrawn   = "drawn"
)

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const (
	BoardSize  = 9
	CenterCell = 4
)

// WinLines - rows top-to-bottom, columns left-to-right, then both diagonals.
// The order is also the priority order when evaluating a board.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

var (
	ErrInvalidCell = errors.New("invalid cell index")

	Corners = [4]int{0, 2, 6, 8}
)

// Board - 3x3 grid stored row-major.
type Board [BoardSize]Mark

type Line [3]int

// WinnerResult - Winner and Line are both set or both empty.
type WinnerResult struct {
	Winner Mark  `json:"winner"`
	Line   *Line `json:"line"`
}

type Status struct {
	State string `json:"state"`
	Label string `json:"label"`
}

type Difficulty string

func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) IsEmpty() bool {
	return that == Empty
}

// EmptyCells - indexes of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell.IsEmpty() {
			cells = append(cells, i)
		}
	}

	return cells
}

// With - returns a copy of the board with mark placed at cell.
func (that Board) With(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

func (that Board) String() string {
	out := make([]byte, 0, BoardSize+2)
	for i, cell := range that {
		if i > 0 && i%3 == 0 {
			out = append(out, '/')
		}
		if cell.IsEmpty() {
			out = append(out, '_')
			continue
		}
		out = append(out, cell[0])
	}

	return string(out)
}

func (that WinnerResult) HasWinner() bool {
	return !that.Winner.IsEmpty()
}

func (that Status) IsOngoing() bool {
	return that.State == StatusOngoing
}

func (that Status) IsFinished() bool {
	return that.State == StatusWon || that.State == StatusDrawn
}

func (that Difficulty) Valid() bool {
	switch that {
	case Easy, Medium, Hard:
		return true
	default:
		return false
	}
}

// ParseDifficulty - unknown values fall back to Medium.
func ParseDifficulty(value string) Difficulty {
	if difficulty := Difficulty(value); difficulty.Valid() {
		return difficulty
	}

	return Medium
}

func ValidateCell(cell int) error {
	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	return nil
}
