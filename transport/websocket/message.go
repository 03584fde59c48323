package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const (
	actionState    = "game:state"
	actionStart    = "game:start"
	actionTurn     = "game:turn"
	actionUndo     = "game:undo"
	actionRestart  = "game:restart"
	actionNew      = "game:new"
	actionComputer = "game:computer"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type ResponsePayload struct {
	Game  *usecase.GameView `json:"game,omitempty"`
	Error string            `json:"error,omitempty"`
}
