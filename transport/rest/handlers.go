package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const maxBodyBytes = 1 << 16

var errInvalidBody = errors.New("invalid request body")

type Handlers interface {
	Ping(w http.ResponseWriter, r *http.Request)

	Evaluate(w http.ResponseWriter, r *http.Request)
	Move(w http.ResponseWriter, r *http.Request)

	GetGame(w http.ResponseWriter, r *http.Request)
	StartGame(w http.ResponseWriter, r *http.Request)
	Turn(w http.ResponseWriter, r *http.Request)
	ComputerTurn(w http.ResponseWriter, r *http.Request)
	Undo(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	NewGame(w http.ResponseWriter, r *http.Request)
	ResetAll(w http.ResponseWriter, r *http.Request)

	GetStats(w http.ResponseWriter, r *http.Request)
	ResetStats(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	StartGame(ctx context.Context, opts usecase.StartOptions) (*usecase.GameView, error)
	Play(ctx context.Context, cell int) (*usecase.GameView, error)
	ComputerTurn(ctx context.Context) (*usecase.GameView, error)
	Undo(ctx context.Context) (*usecase.GameView, error)
	Restart(ctx context.Context) (*usecase.GameView, error)
	NewGame(ctx context.Context) (*usecase.GameView, error)
	Snapshot(ctx context.Context) (*usecase.GameView, error)
	ResetAll(ctx context.Context) error

	Stats(ctx context.Context, limit int) (*usecase.StatsView, error)
	ResetStats(ctx context.Context) error
}

type moveSelector interface {
	SelectMove(board entity.Board, difficulty entity.Difficulty) int
}

type boardRequest struct {
	Board      []entity.Mark `json:"board"`
	Difficulty string        `json:"difficulty"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type evaluateResponse struct {
	Winner entity.Mark   `json:"winner"`
	Line   *entity.Line  `json:"line"`
	Turns  int           `json:"turns"`
	Next   entity.Mark   `json:"next"`
	Status entity.Status `json:"status"`
}

type moveResponse struct {
	Cell int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger   *slog.Logger
	manager  gameManager
	selector moveSelector
}

func NewHandlers(logger *slog.Logger, manager gameManager, selector moveSelector) Handlers {
	return &handlers{
		logger:   logger,
		manager:  manager,
		selector: selector,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

// Evaluate - winner, line, turns and status of an arbitrary board.
func (that *handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	board, err := parseBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	evaluation := tictactoe.Evaluate(board)

	that.writeJSON(w, http.StatusOK, evaluateResponse{
		Winner: evaluation.Result.Winner,
		Line:   evaluation.Result.Line,
		Turns:  evaluation.Turns,
		Next:   evaluation.Next,
		Status: evaluation.Status,
	})
}

// Move - the computer's cell for the player to move on board.
func (that *handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	board, err := parseBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	if tictactoe.Evaluate(board).Status.IsFinished() {
		that.writeError(w, fmt.Errorf("%w: board %s", tictactoe.ErrNoAvailableMoves, board))
		return
	}

	cell := that.selector.SelectMove(board, entity.ParseDifficulty(req.Difficulty))

	that.writeJSON(w, http.StatusOK, moveResponse{Cell: cell})
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	that.respondView(w, r, that.manager.Snapshot)
}

func (that *handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	var opts usecase.StartOptions
	if err := decodeBody(w, r, &opts); err != nil {
		that.writeError(w, err)
		return
	}

	that.respondView(w, r, func(ctx context.Context) (*usecase.GameView, error) {
		return that.manager.StartGame(ctx, opts)
	})
}

func (that *handlers) Turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, fmt.Errorf("%w: cell is required", errInvalidBody))
		return
	}

	that.respondView(w, r, func(ctx context.Context) (*usecase.GameView, error) {
		return that.manager.Play(ctx, *req.Cell)
	})
}

func (that *handlers) ComputerTurn(w http.ResponseWriter, r *http.Request) {
	that.respondView(w, r, that.manager.ComputerTurn)
}

func (that *handlers) Undo(w http.ResponseWriter, r *http.Request) {
	that.respondView(w, r, that.manager.Undo)
}

func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	that.respondView(w, r, that.manager.Restart)
}

func (that *handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	that.respondView(w, r, that.manager.NewGame)
}

func (that *handlers) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.ResetAll(r.Context()); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			that.writeError(w, fmt.Errorf("%w: limit %q", errInvalidBody, value))
			return
		}

		limit = parsed
	}

	stats, err := that.manager.Stats(r.Context(), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) ResetStats(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.ResetStats(r.Context()); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) respondView(w http.ResponseWriter, r *http.Request, action func(ctx context.Context) (*usecase.GameView, error)) {
	view, err := action(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusCode(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, apperror.ErrInvalidBoard),
		errors.Is(err, apperror.ErrInvalidPlayerName),
		errors.Is(err, entity.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrNotComputerTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNothingToUndo),
		errors.Is(err, tictactoe.ErrNoAvailableMoves):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	return nil
}

// parseBoard - accepts nine cells of "X", "O", "" or null.
func parseBoard(cells []entity.Mark) (entity.Board, error) {
	var board entity.Board

	if len(cells) != entity.BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, entity.BoardSize, len(cells))
	}

	for i, cell := range cells {
		switch cell {
		case entity.Empty, entity.X, entity.O:
			board[i] = cell
		default:
			return board, fmt.Errorf("%w: cell %d has mark %q", apperror.ErrInvalidBoard, i, cell)
		}
	}

	return board, nil
}
