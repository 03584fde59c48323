package entity

// Session is the persisted state of the local game: board history, the player roster and
// the options of the game being played. The engine never sees it, only its boards.
type Session struct {
	History             []Board    `json:"history"`
	Players             []*Player  `json:"players"`
	ActivePlayers       []string   `json:"active_players"`
	IsComputerMode      bool       `json:"is_computer_mode"`
	Difficulty          Difficulty `json:"difficulty"`
	ComputerStartsFirst bool       `json:"computer_starts_first"`
	ResultRecorded      bool       `json:"result_recorded"`
}

func NewSession() *Session {
	return &Session{
		History:    []Board{{}},
		Players:    []*Player{},
		Difficulty: Medium,
	}
}

// Normalize - repairs a session read from storage so History is never empty.
func (that *Session) Normalize() {
	if len(that.History) == 0 {
		that.History = []Board{{}}
	}

	if that.Players == nil {
		that.Players = []*Player{}
	}

	if !that.Difficulty.Valid() {
		that.Difficulty = Medium
	}
}

func (that *Session) CurrentBoard() Board {
	return that.History[len(that.History)-1]
}

func (that *Session) Push(board Board) {
	that.History = append(that.History, board)
}

// Undo - drops the latest snapshot, the initial board is never removed.
func (that *Session) Undo() bool {
	if len(that.History) <= 1 {
		return false
	}

	that.History = that.History[:len(that.History)-1]

	return true
}

func (that *Session) ResetBoard() {
	that.History = []Board{{}}
	that.ResultRecorded = false
}

func (that *Session) HasActiveGame() bool {
	return len(that.ActivePlayers) == 2
}

func (that *Session) ComputerMark() Mark {
	if that.ComputerStartsFirst {
		return X
	}

	return O
}

func (that *Session) IsComputerTurn(next Mark) bool {
	return that.IsComputerMode && next == that.ComputerMark()
}

func (that *Session) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// SeatedPlayer - ActivePlayers holds the X seat first and the O seat second.
func (that *Session) SeatedPlayer(mark Mark) *Player {
	if !that.HasActiveGame() {
		return nil
	}

	switch mark {
	case X:
		return that.PlayerByID(that.ActivePlayers[0])
	case O:
		return that.PlayerByID(that.ActivePlayers[1])
	default:
		return nil
	}
}
