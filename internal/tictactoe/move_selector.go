package tictactoe

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// randomMoveChance - share of easy moves picked at random, the rest play like medium.
const randomMoveChance = 0.7

var ErrNoAvailableMoves = errors.New("no available moves")

// MoveSelector picks the computer's move. The computer always plays the board's next mark.
type MoveSelector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMoveSelector(src rand.Source) *MoveSelector {
	return &MoveSelector{
		rnd: rand.New(src), //nolint: gosec // game randomness
	}
}

// SelectMove - the board must have an empty cell and no winner, callers that cannot
// guarantee it check with Evaluate first. Unknown difficulties play like medium.
func (that *MoveSelector) SelectMove(board entity.Board, difficulty entity.Difficulty) int {
	if EvaluateWinner(board).HasWinner() || CountFilled(board) == entity.BoardSize {
		panic(fmt.Errorf("%w: board %s", ErrNoAvailableMoves, board))
	}

	computer := NextMark(board)

	switch difficulty {
	case entity.Easy:
		return that.easyMove(board, computer)
	case entity.Hard:
		return hardMove(board, computer)
	default:
		return that.mediumMove(board, computer)
	}
}

func (that *MoveSelector) easyMove(board entity.Board, computer entity.Mark) int {
	if that.float64() < randomMoveChance {
		return that.randomCell(board.EmptyCells())
	}

	return that.mediumMove(board, computer)
}

func (that *MoveSelector) mediumMove(board entity.Board, computer entity.Mark) int {
	// take the win
	if cell, ok := completingCell(board, computer); ok {
		return cell
	}

	// block the loss
	if cell, ok := completingCell(board, computer.Opponent()); ok {
		return cell
	}

	if board[entity.CenterCell].IsEmpty() {
		return entity.CenterCell
	}

	corners := make([]int, 0, len(entity.Corners))
	for _, corner := range entity.Corners {
		if board[corner].IsEmpty() {
			corners = append(corners, corner)
		}
	}

	if len(corners) > 0 {
		return that.randomCell(corners)
	}

	return that.randomCell(board.EmptyCells())
}

// completingCell - lowest empty cell where mark completes a line.
func completingCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, cell := range board.EmptyCells() {
		if EvaluateWinner(board.With(cell, mark)).Winner == mark {
			return cell, true
		}
	}

	return 0, false
}

func (that *MoveSelector) randomCell(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rnd.Intn(len(cells))]
}

func (that *MoveSelector) float64() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64()
}
