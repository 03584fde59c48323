package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const testThinkingDelay = 10 * time.Millisecond

func dial(t *testing.T) *gorilla.Conn {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStorage()

	manager := usecase.NewGameManager(
		logger,
		repository.NewSessionRepository(store),
		repository.NewStatsRepository(store),
		service.NewBotService(logger, tictactoe.NewMoveSelector(rand.NewSource(1))),
		service.NewStatsService(),
	)

	httpServer := httptest.NewServer(New(logger, manager, testThinkingDelay))
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func sendMessage(t *testing.T, conn *gorilla.Conn, action string, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func readMessage(t *testing.T, conn *gorilla.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func TestServer_State(t *testing.T) {
	conn := dial(t)

	// When: asking for the state before any game
	sendMessage(t, conn, actionState, nil)

	// Then: an empty board is returned
	action, payload := readMessage(t, conn)
	assert.Equal(t, actionState, action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, entity.Board{}, payload.Game.Board)
	assert.Empty(t, payload.Error)
}

func TestServer_ComputerOpens(t *testing.T) {
	conn := dial(t)

	// When: starting a hard game where the computer moves first
	sendMessage(t, conn, actionStart, usecase.StartOptions{
		PlayerOne:           "Ann",
		VsComputer:          true,
		Difficulty:          entity.Hard,
		ComputerStartsFirst: true,
	})

	// Then: the start is acknowledged with the computer to move
	action, payload := readMessage(t, conn)
	assert.Equal(t, actionStart, action)
	require.NotNil(t, payload.Game)
	assert.True(t, payload.Game.ComputerTurn)

	// And: the computer's opening in the center is pushed after the delay
	action, payload = readMessage(t, conn)
	assert.Equal(t, actionComputer, action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, entity.X, payload.Game.Board[4])
	assert.Equal(t, 1, payload.Game.Turns)
	assert.False(t, payload.Game.ComputerTurn)
}

func TestServer_TurnThenComputerAnswers(t *testing.T) {
	conn := dial(t)

	sendMessage(t, conn, actionStart, usecase.StartOptions{PlayerOne: "Ann", VsComputer: true, Difficulty: entity.Medium})
	action, _ := readMessage(t, conn)
	require.Equal(t, actionStart, action)

	// When: Ann takes a corner
	sendMessage(t, conn, actionTurn, map[string]int{"cell": 0})

	// Then: the turn is acknowledged and medium answers in the center
	action, payload := readMessage(t, conn)
	assert.Equal(t, actionTurn, action)
	require.NotNil(t, payload.Game)
	assert.True(t, payload.Game.ComputerTurn)

	action, payload = readMessage(t, conn)
	assert.Equal(t, actionComputer, action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, entity.O, payload.Game.Board[4])
	assert.Equal(t, entity.X, payload.Game.Next)
}

func TestServer_Errors(t *testing.T) {
	conn := dial(t)

	t.Run("Turn without a game", func(t *testing.T) {
		sendMessage(t, conn, actionTurn, map[string]int{"cell": 0})

		action, payload := readMessage(t, conn)
		assert.Equal(t, actionTurn, action)
		assert.Nil(t, payload.Game)
		assert.Equal(t, "no active game", payload.Error)
	})

	t.Run("Turn without a cell", func(t *testing.T) {
		sendMessage(t, conn, actionTurn, map[string]string{})

		action, payload := readMessage(t, conn)
		assert.Equal(t, actionTurn, action)
		assert.Equal(t, errCellRequired.Error(), payload.Error)
	})

	t.Run("Unknown action", func(t *testing.T) {
		sendMessage(t, conn, "game:leave", nil)

		action, payload := readMessage(t, conn)
		assert.Equal(t, actionError, action)
		assert.Contains(t, payload.Error, "game:leave")
	})

	t.Run("Malformed message", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("{")))

		action, payload := readMessage(t, conn)
		assert.Equal(t, actionError, action)
		assert.Equal(t, "malformed message", payload.Error)
	})

	t.Run("Undo with nothing to undo", func(t *testing.T) {
		sendMessage(t, conn, actionUndo, nil)

		action, payload := readMessage(t, conn)
		assert.Equal(t, actionUndo, action)
		assert.Equal(t, "nothing to undo", payload.Error)
	})
}

func TestServer_RestartAndNew(t *testing.T) {
	conn := dial(t)

	sendMessage(t, conn, actionStart, usecase.StartOptions{PlayerOne: "Ann", PlayerTwo: "Bob"})
	_, _ = readMessage(t, conn)

	sendMessage(t, conn, actionTurn, map[string]int{"cell": 4})
	_, payload := readMessage(t, conn)
	require.NotNil(t, payload.Game)
	require.Equal(t, 1, payload.Game.Turns)

	sendMessage(t, conn, actionRestart, nil)
	action, payload := readMessage(t, conn)
	assert.Equal(t, actionRestart, action)
	assert.Zero(t, payload.Game.Turns)
	assert.Equal(t, "Ann", payload.Game.PlayerX.Name)

	sendMessage(t, conn, actionNew, nil)
	action, payload = readMessage(t, conn)
	assert.Equal(t, actionNew, action)
	assert.Nil(t, payload.Game.PlayerX)
}
