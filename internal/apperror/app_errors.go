package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrNoActiveGame      = errors.New("no active game")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNotComputerTurn   = errors.New("it's not the computer's turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidPlayerName = errors.New("player name is required")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrInvalidBoard      = errors.New("invalid board")
)
