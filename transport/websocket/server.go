package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const (
	maxMessageSize = 4096
	writeTimeout   = 5 * time.Second
)

type gameManager interface {
	StartGame(ctx context.Context, opts usecase.StartOptions) (*usecase.GameView, error)
	Play(ctx context.Context, cell int) (*usecase.GameView, error)
	ComputerTurn(ctx context.Context) (*usecase.GameView, error)
	Undo(ctx context.Context) (*usecase.GameView, error)
	Restart(ctx context.Context) (*usecase.GameView, error)
	NewGame(ctx context.Context) (*usecase.GameView, error)
	Snapshot(ctx context.Context) (*usecase.GameView, error)
}

type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

type Server struct {
	logger  *slog.Logger
	manager gameManager

	thinkingDelay time.Duration
	upgrader      gorilla.Upgrader

	handlers map[string]handlerFunc
}

// connection - one client socket. Writes come from the read loop and from delayed
// computer turns, so they are serialized.
type connection struct {
	conn *gorilla.Conn

	writeMu sync.Mutex
	pending sync.WaitGroup
}

func New(logger *slog.Logger, manager gameManager, thinkingDelay time.Duration) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,

		thinkingDelay: thinkingDelay,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionStart] = server.handleStart
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionUndo] = server.handleUndo
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionNew] = server.handleNew

	return server
}

// ServeHTTP - upgrades the request and serves messages until the client goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	wsConn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{conn: wsConn}
	ctx, cancel := context.WithCancel(req.Context())

	defer wsConn.Close()
	defer conn.pending.Wait()
	defer cancel()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	conn.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := conn.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(conn, actionError, errors.New("malformed message"))
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, actionError, fmt.Errorf("unknown action %q", message.Action))
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) send(conn *connection, action string, payload ResponsePayload) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	conn.writeMu.Lock()
	defer conn.writeMu.Unlock()

	if err = conn.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.conn.WriteJSON(Message{Action: action, Payload: rawPayload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *connection, action string, cause error) {
	if err := that.send(conn, action, ResponsePayload{Error: cause.Error()}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}
