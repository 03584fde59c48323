package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

var (
	errCellRequired     = errors.New("cell is required")
	errMalformedPayload = errors.New("malformed payload")
)

func (that *Server) handleState(ctx context.Context, conn *connection, msg *Message) error {
	return that.respond(ctx, conn, msg.Action, that.manager.Snapshot)
}

func (that *Server) handleStart(ctx context.Context, conn *connection, msg *Message) error {
	var opts usecase.StartOptions
	if err := json.Unmarshal(msg.Payload, &opts); err != nil {
		that.sendError(conn, msg.Action, errMalformedPayload)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.respond(ctx, conn, msg.Action, func(ctx context.Context) (*usecase.GameView, error) {
		return that.manager.StartGame(ctx, opts)
	})
}

func (that *Server) handleTurn(ctx context.Context, conn *connection, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Cell == nil {
		that.sendError(conn, msg.Action, errCellRequired)
		return errCellRequired
	}

	return that.respond(ctx, conn, msg.Action, func(ctx context.Context) (*usecase.GameView, error) {
		return that.manager.Play(ctx, *payload.Cell)
	})
}

func (that *Server) handleUndo(ctx context.Context, conn *connection, msg *Message) error {
	return that.respond(ctx, conn, msg.Action, that.manager.Undo)
}

func (that *Server) handleRestart(ctx context.Context, conn *connection, msg *Message) error {
	return that.respond(ctx, conn, msg.Action, that.manager.Restart)
}

func (that *Server) handleNew(ctx context.Context, conn *connection, msg *Message) error {
	return that.respond(ctx, conn, msg.Action, that.manager.NewGame)
}

// respond - runs action, answers with the resulting game and hands the move to the
// computer when it is its turn.
func (that *Server) respond(
	ctx context.Context,
	conn *connection,
	action string,
	run func(ctx context.Context) (*usecase.GameView, error),
) error {
	view, err := run(ctx)
	if err != nil {
		that.sendError(conn, action, err)
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	if err = that.send(conn, action, ResponsePayload{Game: view}); err != nil {
		return err
	}

	if view.ComputerTurn {
		that.scheduleComputerTurn(ctx, conn)
	}

	return nil
}

// scheduleComputerTurn - plays the computer's move after the thinking delay and pushes it as
// game:computer. Nothing is sent when the game moved on in the meantime.
func (that *Server) scheduleComputerTurn(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "scheduleComputerTurn")

	conn.pending.Add(1)

	go func() {
		defer conn.pending.Done()

		timer := time.NewTimer(that.thinkingDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		view, err := that.manager.ComputerTurn(ctx)
		switch {
		case errors.Is(err, apperror.ErrNotComputerTurn),
			errors.Is(err, apperror.ErrGameFinished),
			errors.Is(err, apperror.ErrNoActiveGame):
			log.Debug("computer turn skipped", "reason", err)
			return
		case err != nil:
			log.Error("computer turn failed", "error", err)
			that.sendError(conn, actionComputer, err)
			return
		}

		if err = that.send(conn, actionComputer, ResponsePayload{Game: view}); err != nil {
			log.Error("failed to push computer turn", "error", err)
		}
	}()
}
