package service

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type BotService interface {
	MakeTurn(session *entity.Session) (int, error)
}

type moveSelector interface {
	SelectMove(board entity.Board, difficulty entity.Difficulty) int
}

type botService struct {
	logger   *slog.Logger
	selector moveSelector
}

func NewBotService(logger *slog.Logger, selector moveSelector) BotService {
	return &botService{
		logger:   logger,
		selector: selector,
	}
}

// MakeTurn - picks the computer's cell on the current board of the session.
// The board is not modified.
func (that *botService) MakeTurn(session *entity.Session) (int, error) {
	log := that.logger.With("method", "MakeTurn")

	board := session.CurrentBoard()

	if tictactoe.EvaluateWinner(board).HasWinner() || tictactoe.CountFilled(board) == entity.BoardSize {
		return 0, fmt.Errorf("%w: board %s", tictactoe.ErrNoAvailableMoves, board)
	}

	cell := that.selector.SelectMove(board, session.Difficulty)

	log.Debug("computer chose a cell", "board", board.String(), "difficulty", session.Difficulty, "cell", cell)

	return cell, nil
}
