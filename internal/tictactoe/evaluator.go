package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const labelDrawn = "Match Drawn"

// Evaluation - everything a caller needs to render a board after a move.
type Evaluation struct {
	Result entity.WinnerResult `json:"result"`
	Turns  int                 `json:"turns"`
	Next   entity.Mark         `json:"next"`
	Status entity.Status       `json:"status"`
}

// EvaluateWinner - returns the first complete line in WinLines order and its mark.
func EvaluateWinner(board entity.Board) entity.WinnerResult {
	for _, line := range entity.WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if !a.IsEmpty() && a == b && b == c {
			winLine := line
			return entity.WinnerResult{Winner: a, Line: &winLine}
		}
	}

	return entity.WinnerResult{}
}

func CountFilled(board entity.Board) int {
	filled := 0
	for _, cell := range board {
		if !cell.IsEmpty() {
			filled++
		}
	}

	return filled
}

// NextMark - X moves on an even count of filled cells, O on an odd one.
func NextMark(board entity.Board) entity.Mark {
	if CountFilled(board)%2 == 0 {
		return entity.X
	}

	return entity.O
}

func DeriveStatus(result entity.WinnerResult, filled int, next entity.Mark) entity.Status {
	switch {
	case result.HasWinner():
		return entity.Status{State: entity.StatusWon, Label: fmt.Sprintf("Winner %s", result.Winner)}
	case filled == entity.BoardSize:
		return entity.Status{State: entity.StatusDrawn, Label: labelDrawn}
	default:
		return entity.Status{State: entity.StatusOngoing, Label: fmt.Sprintf("Next player: %s", next)}
	}
}

func Evaluate(board entity.Board) Evaluation {
	result := EvaluateWinner(board)
	turns := CountFilled(board)
	next := NextMark(board)

	return Evaluation{
		Result: result,
		Turns:  turns,
		Next:   next,
		Status: DeriveStatus(result, turns, next),
	}
}
