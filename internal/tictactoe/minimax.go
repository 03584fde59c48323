package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const winScore = 10

// hardMove - full-depth minimax, ties go to the lowest cell index.
func hardMove(board entity.Board, computer entity.Mark) int {
	// every opening scores 0 under full search; open in the center
	if CountFilled(board) == 0 {
		return entity.CenterCell
	}

	bestScore := math.MinInt
	bestMove := -1

	for _, cell := range board.EmptyCells() {
		score := minimax(board.With(cell, computer), computer, 0, false)
		if score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	return bestMove
}

// minimax - a computer win scores 10-depth, a loss depth-10 and a draw 0.
func minimax(board entity.Board, computer entity.Mark, depth int, maximizing bool) int {
	switch EvaluateWinner(board).Winner {
	case computer:
		return winScore - depth
	case computer.Opponent():
		return depth - winScore
	}

	if CountFilled(board) == entity.BoardSize {
		return 0
	}

	if maximizing {
		bestScore := math.MinInt
		for _, cell := range board.EmptyCells() {
			bestScore = max(bestScore, minimax(board.With(cell, computer), computer, depth+1, false))
		}

		return bestScore
	}

	bestScore := math.MaxInt
	for _, cell := range board.EmptyCells() {
		bestScore = min(bestScore, minimax(board.With(cell, computer.Opponent()), computer, depth+1, true))
	}

	return bestScore
}
