package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type sessionRepo interface {
	Get(ctx context.Context) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context) error
}

type statsRepo interface {
	Get(ctx context.Context) (*entity.Stats, error)
	Save(ctx context.Context, stats *entity.Stats) error
	Reset(ctx context.Context) error
}

type botService interface {
	MakeTurn(session *entity.Session) (int, error)
}

type statsService interface {
	Record(stats *entity.Stats, result entity.Result)
	TopPlayers(stats *entity.Stats, limit int) []*entity.PlayerStats
}

type StartOptions struct {
	PlayerOne           string            `json:"player_one"`
	PlayerTwo           string            `json:"player_two"`
	VsComputer          bool              `json:"vs_computer"`
	Difficulty          entity.Difficulty `json:"difficulty"`
	ComputerStartsFirst bool              `json:"computer_starts_first"`
}

// GameView - everything a client needs to render the current game.
type GameView struct {
	Board               entity.Board        `json:"board"`
	Winner              entity.Mark         `json:"winner"`
	Line                *entity.Line        `json:"line"`
	Turns               int                 `json:"turns"`
	Status              entity.Status       `json:"status"`
	Next                entity.Mark         `json:"next"`
	PlayerX             *entity.Player      `json:"player_x"`
	PlayerO             *entity.Player      `json:"player_o"`
	PlayerXStats        *entity.PlayerStats `json:"player_x_stats"`
	PlayerOStats        *entity.PlayerStats `json:"player_o_stats"`
	IsComputerMode      bool                `json:"is_computer_mode"`
	Difficulty          entity.Difficulty   `json:"difficulty"`
	ComputerStartsFirst bool                `json:"computer_starts_first"`
	ComputerTurn        bool                `json:"computer_turn"`
	CanUndo             bool                `json:"can_undo"`
	Players             []*entity.Player    `json:"players"`
}

type StatsView struct {
	TotalGames int                   `json:"total_games"`
	TotalDraws int                   `json:"total_draws"`
	TopPlayers []*entity.PlayerStats `json:"top_players"`
}

// GameManager owns the single local session. Every operation is a read-modify-write of the
// stored session and runs under one mutex.
type GameManager struct {
	logger *slog.Logger

	mu sync.Mutex

	sessionRepo  sessionRepo
	statsRepo    statsRepo
	bot          botService
	statsService statsService

	newID func() string
}

func NewGameManager(
	logger *slog.Logger,
	sessionRepo sessionRepo,
	statsRepo statsRepo,
	bot botService,
	statsService statsService,
) *GameManager {
	return &GameManager{
		logger: logger,

		sessionRepo:  sessionRepo,
		statsRepo:    statsRepo,
		bot:          bot,
		statsService: statsService,

		newID: uuid.NewString,
	}
}

// StartGame - seats two players and starts from an empty board. Players are looked up in the
// roster by name and created when missing. In computer mode the second player is the computer.
func (that *GameManager) StartGame(ctx context.Context, opts StartOptions) (*GameView, error) {
	log := that.logger.With("method", "StartGame")

	playerOne := strings.TrimSpace(opts.PlayerOne)
	playerTwo := strings.TrimSpace(opts.PlayerTwo)
	if opts.VsComputer {
		playerTwo = entity.ComputerName
	}

	if playerOne == "" || playerTwo == "" || playerOne == playerTwo {
		return nil, apperror.ErrInvalidPlayerName
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	human := that.rosterPlayer(session, playerOne)
	other := that.rosterPlayer(session, playerTwo)

	session.ActivePlayers = []string{human.ID, other.ID}
	session.IsComputerMode = opts.VsComputer
	session.Difficulty = entity.Medium
	session.ComputerStartsFirst = false

	if opts.VsComputer {
		session.Difficulty = entity.ParseDifficulty(string(opts.Difficulty))
		session.ComputerStartsFirst = opts.ComputerStartsFirst

		if opts.ComputerStartsFirst {
			session.ActivePlayers = []string{other.ID, human.ID}
		}
	}

	session.ResetBoard()

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("game started",
		"player_x", session.ActivePlayers[0],
		"player_o", session.ActivePlayers[1],
		"computer", session.IsComputerMode,
		"difficulty", session.Difficulty,
	)

	return that.view(ctx, session)
}

// Play - places the mark of the player to move on cell.
func (that *GameManager) Play(ctx context.Context, cell int) (*GameView, error) {
	log := that.logger.With("method", "Play")

	if err := entity.ValidateCell(cell); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	if !session.HasActiveGame() {
		return nil, apperror.ErrNoActiveGame
	}

	board := session.CurrentBoard()
	evaluation := tictactoe.Evaluate(board)

	if evaluation.Status.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if session.IsComputerTurn(evaluation.Next) {
		return nil, apperror.ErrNotYourTurn
	}

	if !board[cell].IsEmpty() {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	if err = that.applyMove(ctx, session, board.With(cell, evaluation.Next)); err != nil {
		return nil, err
	}

	log.Debug("move played", "cell", cell, "mark", evaluation.Next)

	return that.view(ctx, session)
}

// ComputerTurn - lets the computer move when it is its turn in a computer game.
func (that *GameManager) ComputerTurn(ctx context.Context) (*GameView, error) {
	log := that.logger.With("method", "ComputerTurn")

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	if !session.HasActiveGame() {
		return nil, apperror.ErrNoActiveGame
	}

	board := session.CurrentBoard()
	evaluation := tictactoe.Evaluate(board)

	if evaluation.Status.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if !session.IsComputerTurn(evaluation.Next) {
		return nil, apperror.ErrNotComputerTurn
	}

	cell, err := that.bot.MakeTurn(session)
	if err != nil {
		return nil, fmt.Errorf("failed to make computer turn: %w", err)
	}

	if err = that.applyMove(ctx, session, board.With(cell, evaluation.Next)); err != nil {
		return nil, err
	}

	log.Debug("computer moved", "cell", cell, "mark", evaluation.Next)

	return that.view(ctx, session)
}

// Undo - steps back to the previous position where a human is to move.
// Finished games and the computer's turn cannot be undone.
func (that *GameManager) Undo(ctx context.Context) (*GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	evaluation := tictactoe.Evaluate(session.CurrentBoard())

	if evaluation.Status.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if session.IsComputerTurn(evaluation.Next) {
		return nil, apperror.ErrNotYourTurn
	}

	if !session.Undo() {
		return nil, apperror.ErrNothingToUndo
	}

	for len(session.History) > 1 && session.IsComputerTurn(tictactoe.NextMark(session.CurrentBoard())) {
		session.Undo()
	}

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return that.view(ctx, session)
}

// Restart - empty board, same players and options.
func (that *GameManager) Restart(ctx context.Context) (*GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	session.ResetBoard()

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return that.view(ctx, session)
}

// NewGame - unseats the players and resets the options. The roster is kept.
func (that *GameManager) NewGame(ctx context.Context) (*GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	session.ResetBoard()
	session.ActivePlayers = []string{}
	session.IsComputerMode = false
	session.Difficulty = entity.Medium
	session.ComputerStartsFirst = false

	if err = that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return that.view(ctx, session)
}

// ResetAll - forgets the session, the roster and the stats.
func (that *GameManager) ResetAll(ctx context.Context) error {
	log := that.logger.With("method", "ResetAll")

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := that.statsRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	log.Info("session and stats reset")

	return nil
}

func (that *GameManager) Snapshot(ctx context.Context) (*GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx)
	if err != nil {
		return nil, err
	}

	return that.view(ctx, session)
}

func (that *GameManager) Stats(ctx context.Context, limit int) (*StatsView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats, err := that.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &StatsView{
		TotalGames: stats.TotalGames,
		TotalDraws: stats.TotalDraws,
		TopPlayers: that.statsService.TopPlayers(stats, limit),
	}, nil
}

func (that *GameManager) ResetStats(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.statsRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return nil
}

// applyMove - pushes the board, records a result the first time the game ends and saves.
func (that *GameManager) applyMove(ctx context.Context, session *entity.Session, board entity.Board) error {
	session.Push(board)

	evaluation := tictactoe.Evaluate(board)
	if evaluation.Status.IsFinished() && !session.ResultRecorded {
		if err := that.recordResult(ctx, session, evaluation.Result.Winner); err != nil {
			return err
		}
	}

	return that.saveSession(ctx, session)
}

func (that *GameManager) recordResult(ctx context.Context, session *entity.Session, winner entity.Mark) error {
	log := that.logger.With("method", "recordResult")

	playerX := session.SeatedPlayer(entity.X)
	playerO := session.SeatedPlayer(entity.O)
	if playerX == nil || playerO == nil {
		return apperror.ErrNoActiveGame
	}

	if winnerPlayer := session.SeatedPlayer(winner); winnerPlayer != nil {
		winnerPlayer.Wins++
	}

	stats, err := that.statsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	that.statsService.Record(stats, entity.Result{
		Winner:  winner,
		PlayerX: entity.Participant{ID: playerX.ID, Name: playerX.Name},
		PlayerO: entity.Participant{ID: playerO.ID, Name: playerO.Name},
	})

	if err = that.statsRepo.Save(ctx, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	session.ResultRecorded = true

	log.Info("game finished", "winner", winner, "player_x", playerX.ID, "player_o", playerO.ID)

	return nil
}

func (that *GameManager) rosterPlayer(session *entity.Session, name string) *entity.Player {
	for _, player := range session.Players {
		if player.Name == name {
			return player
		}
	}

	player := &entity.Player{ID: that.newID(), Name: name}
	session.Players = append(session.Players, player)

	return player
}

func (that *GameManager) view(ctx context.Context, session *entity.Session) (*GameView, error) {
	board := session.CurrentBoard()
	evaluation := tictactoe.Evaluate(board)

	stats, err := that.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	gameView := &GameView{
		Board:               board,
		Winner:              evaluation.Result.Winner,
		Line:                evaluation.Result.Line,
		Turns:               evaluation.Turns,
		Status:              evaluation.Status,
		Next:                evaluation.Next,
		PlayerX:             session.SeatedPlayer(entity.X),
		PlayerO:             session.SeatedPlayer(entity.O),
		IsComputerMode:      session.IsComputerMode,
		Difficulty:          session.Difficulty,
		ComputerStartsFirst: session.ComputerStartsFirst,
		ComputerTurn:        evaluation.Status.IsOngoing() && session.IsComputerTurn(evaluation.Next),
		Players:             session.Players,
	}

	gameView.CanUndo = len(session.History) > 1 && evaluation.Status.IsOngoing() && !gameView.ComputerTurn

	if gameView.PlayerX != nil {
		gameView.PlayerXStats = stats.PlayerStats[gameView.PlayerX.ID]
	}

	if gameView.PlayerO != nil {
		gameView.PlayerOStats = stats.PlayerStats[gameView.PlayerO.ID]
	}

	return gameView, nil
}

func (that *GameManager) getSession(ctx context.Context) (*entity.Session, error) {
	session, err := that.sessionRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *GameManager) saveSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
