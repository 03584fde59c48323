package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}

func TestBoard(t *testing.T) {
	t.Run("EmptyCells ascending", func(t *testing.T) {
		board := Board{X, Empty, O, Empty, X}

		assert.Equal(t, []int{1, 3, 5, 6, 7, 8}, board.EmptyCells())
	})

	t.Run("With leaves the original untouched", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: placing X in the center
		next := board.With(CenterCell, X)

		// Then: only the copy changes
		assert.Equal(t, X, next[CenterCell])
		assert.Equal(t, Empty, board[CenterCell])
	})

	t.Run("String", func(t *testing.T) {
		board := Board{X, O, Empty, Empty, X, Empty, Empty, Empty, O}

		assert.Equal(t, "XO_/_X_/__O", board.String())
	})
}

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"easy":   Easy,
		"medium": Medium,
		"hard":   Hard,
		"":       Medium,
		"HARD":   Medium,
		"insane": Medium,
	}

	for value, expected := range cases {
		assert.Equal(t, expected, ParseDifficulty(value), value)
	}
}

func TestValidateCell(t *testing.T) {
	for cell := 0; cell < BoardSize; cell++ {
		require.NoError(t, ValidateCell(cell))
	}

	require.ErrorIs(t, ValidateCell(-1), ErrInvalidCell)
	require.ErrorIs(t, ValidateCell(BoardSize), ErrInvalidCell)
}

func TestSession(t *testing.T) {
	t.Run("Undo keeps the initial board", func(t *testing.T) {
		session := NewSession()
		session.Push(Board{}.With(0, X))

		assert.True(t, session.Undo())
		assert.False(t, session.Undo())
		assert.Len(t, session.History, 1)
		assert.Equal(t, Board{}, session.CurrentBoard())
	})

	t.Run("ResetBoard clears the recorded result", func(t *testing.T) {
		session := NewSession()
		session.Push(Board{}.With(0, X))
		session.ResultRecorded = true

		session.ResetBoard()

		assert.Equal(t, []Board{{}}, session.History)
		assert.False(t, session.ResultRecorded)
	})

	t.Run("Normalize repairs a decoded session", func(t *testing.T) {
		session := &Session{Difficulty: "nightmare"}

		session.Normalize()

		assert.Equal(t, []Board{{}}, session.History)
		assert.NotNil(t, session.Players)
		assert.Equal(t, Medium, session.Difficulty)
	})

	t.Run("Seats and computer mark", func(t *testing.T) {
		// Given: the computer holds the X seat
		session := NewSession()
		session.Players = []*Player{{ID: "cpu", Name: ComputerName}, {ID: "ann", Name: "Ann"}}
		session.ActivePlayers = []string{"cpu", "ann"}
		session.IsComputerMode = true
		session.ComputerStartsFirst = true

		// Then: seats resolve by mark and X is the computer's turn
		assert.Equal(t, "cpu", session.SeatedPlayer(X).ID)
		assert.Equal(t, "ann", session.SeatedPlayer(O).ID)
		assert.Nil(t, session.SeatedPlayer(Empty))
		assert.Equal(t, X, session.ComputerMark())
		assert.True(t, session.IsComputerTurn(X))
		assert.False(t, session.IsComputerTurn(O))
	})

	t.Run("No seats without an active game", func(t *testing.T) {
		session := NewSession()

		assert.False(t, session.HasActiveGame())
		assert.Nil(t, session.SeatedPlayer(X))
		assert.False(t, session.IsComputerTurn(O))
	})
}
