package game

import "fmt"

// Side identifies one of the fixed participants of a game. Exactly one side moves per ply.
type Side int

// Next returns the side that moves after s in a game with n sides.
func (s Side) Next(n int) Side {
	return Side((int(s) + 1) % n)
}

func (s Side) String() string {
	switch s {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	}
	return fmt.Sprintf("side%d", int(s))
}

const (
	Blue Side = iota
	Green
	Red
)

// Position indexes the fixed position space reported by State.Board.
type Position int

// Move is a pair of positions. Moves compare structurally.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("%d->%d", m.From, m.To)
}

// State is a clonable snapshot of a game owned by an external rules engine.
// ApplyMove is the only state transition; it advances Turn on success.
type State interface {
	Turn() Side
	// Sides lists every participant in turn order
	Sides() []Side
	// Board lists the whole position space in a fixed iteration order
	Board() []Position
	PiecePositions(side Side) []Position
	IsLegalMove(from, to Position) bool
	ApplyMove(from, to Position) error
	// Clone returns an independent deep copy
	Clone() (State, error)
	IsGameOver() bool
	Winner() (Side, bool)
	Loser() (Side, bool)
	// Score is a heuristic evaluation of the position for side
	Score(side Side) int
}
