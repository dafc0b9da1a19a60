package game

import (
	"fmt"

	"github.com/pkg/errors"
)

type PieceKind int

const (
	Empty PieceKind = iota
	Pawn
	King
)

// Value is the material value of a piece kind
func (k PieceKind) Value() int {
	switch k {
	case Pawn:
		return 1
	case King:
		return 10
	}
	return 0
}

const (
	DefaultRingSize = 24
	DefaultPawns    = 3
	NumSides        = 3
	MaxStep         = 2
)

// RingState is a small three-sided game played on a ring of positions. Pieces move
// clockwise by one or two steps and capture enemy pieces by landing on them.
// Taking a king ends the game: the capturer wins and the king's owner loses.
type RingState struct {
	Size      int         `json:"size"`
	Ownership []int       `json:"ownership"` // Owner side per position, -1 indicates empty
	Kinds     []PieceKind `json:"kinds"`     // Piece kind per position
	Current   Side        `json:"current"`
	Captured  []int       `json:"captured"` // Material taken per side
	Lost      []int       `json:"lost"`     // Material lost per side
	Ply       int         `json:"ply"`
	Over      bool        `json:"over"`
	Won       int         `json:"won"`   // Winner side, -1 if none yet
	Loses     int         `json:"loses"` // Loser side, -1 if none yet
}

// NewRingState sets up a ring of size positions split into three equal segments.
// Each side starts with a king followed by pawns at the start of its segment.
func NewRingState(size, pawns int) (*RingState, error) {
	if size%NumSides != 0 {
		return nil, errors.Errorf("ring size %d must be a multiple of %d", size, NumSides)
	}
	segment := size / NumSides
	if pawns < 0 || pawns+1 > segment {
		return nil, errors.Errorf("cannot fit %d pawns and a king in a segment of %d", pawns, segment)
	}

	rs := &RingState{
		Size:      size,
		Ownership: make([]int, size),
		Kinds:     make([]PieceKind, size),
		Current:   Blue,
		Captured:  make([]int, NumSides),
		Lost:      make([]int, NumSides),
		Won:       -1,
		Loses:     -1,
	}
	for i := range rs.Ownership {
		rs.Ownership[i] = -1
	}
	for s := 0; s < NumSides; s++ {
		start := s * segment
		rs.place(start, Side(s), King)
		for p := 1; p <= pawns; p++ {
			rs.place(start+p, Side(s), Pawn)
		}
	}
	return rs, nil
}

// NewDefaultRingState panics on error since the defaults are always valid
func NewDefaultRingState() *RingState {
	rs, err := NewRingState(DefaultRingSize, DefaultPawns)
	if err != nil {
		panic(err)
	}
	return rs
}

func (rs *RingState) place(pos int, side Side, kind PieceKind) {
	rs.Ownership[pos] = int(side)
	rs.Kinds[pos] = kind
}

func (rs *RingState) Turn() Side {
	return rs.Current
}

func (rs *RingState) Sides() []Side {
	return []Side{Blue, Green, Red}
}

func (rs *RingState) Board() []Position {
	board := make([]Position, rs.Size)
	for i := range board {
		board[i] = Position(i)
	}
	return board
}

func (rs *RingState) PiecePositions(side Side) []Position {
	positions := []Position{}
	for pos, owner := range rs.Ownership {
		if owner == int(side) {
			positions = append(positions, Position(pos))
		}
	}
	return positions
}

func (rs *RingState) IsLegalMove(from, to Position) bool {
	return rs.checkMove(from, to) == ""
}

// checkMove returns the reason a move is illegal, or "" if it is legal
func (rs *RingState) checkMove(from, to Position) string {
	if rs.Over {
		return "game is over"
	}
	if !rs.onBoard(from) || !rs.onBoard(to) {
		return "position off the board"
	}
	if rs.Ownership[from] != int(rs.Current) {
		return "no piece of the side to move at origin"
	}
	step := (int(to) - int(from) + rs.Size) % rs.Size
	if step < 1 || step > MaxStep {
		return fmt.Sprintf("step of %d is not between 1 and %d", step, MaxStep)
	}
	if rs.Ownership[to] == int(rs.Current) {
		return "destination holds an own piece"
	}
	return ""
}

func (rs *RingState) onBoard(p Position) bool {
	return p >= 0 && int(p) < rs.Size
}

func (rs *RingState) ApplyMove(from, to Position) error {
	if reason := rs.checkMove(from, to); reason != "" {
		return NewIllegalMoveError(rs.Current, from, to, reason)
	}

	mover := rs.Current
	if victim := rs.Ownership[to]; victim >= 0 {
		value := rs.Kinds[to].Value()
		rs.Captured[mover] += value
		rs.Lost[victim] += value
		if rs.Kinds[to] == King {
			rs.Over = true
			rs.Won = int(mover)
			rs.Loses = victim
		}
	}
	rs.place(int(to), mover, rs.Kinds[from])
	rs.Ownership[from] = -1
	rs.Kinds[from] = Empty

	rs.Ply++
	rs.Current = mover.Next(NumSides)
	return nil
}

func (rs *RingState) Clone() (State, error) {
	if rs == nil {
		return nil, CloneError(errors.New("nil ring state"))
	}
	return rs.Copy(), nil
}

// Copy returns a deep copy of the ring state.
func (rs *RingState) Copy() *RingState {
	c := *rs
	c.Ownership = append([]int(nil), rs.Ownership...)
	c.Kinds = append([]PieceKind(nil), rs.Kinds...)
	c.Captured = append([]int(nil), rs.Captured...)
	c.Lost = append([]int(nil), rs.Lost...)
	return &c
}

func (rs *RingState) IsGameOver() bool {
	return rs.Over
}

func (rs *RingState) Winner() (Side, bool) {
	if rs.Won < 0 {
		return 0, false
	}
	return Side(rs.Won), true
}

func (rs *RingState) Loser() (Side, bool) {
	if rs.Loses < 0 {
		return 0, false
	}
	return Side(rs.Loses), true
}

// Score is material captured minus material lost
func (rs *RingState) Score(side Side) int {
	if int(side) < 0 || int(side) >= len(rs.Captured) {
		return 0
	}
	return rs.Captured[side] - rs.Lost[side]
}

// Validate checks a decoded state for structural consistency.
func (rs *RingState) Validate() error {
	switch {
	case rs.Size <= 0 || rs.Size%NumSides != 0:
		return errors.Errorf("invalid ring size %d", rs.Size)
	case len(rs.Ownership) != rs.Size || len(rs.Kinds) != rs.Size:
		return errors.Errorf("expected %d squares, got %d owners and %d kinds", rs.Size, len(rs.Ownership), len(rs.Kinds))
	case len(rs.Captured) != NumSides || len(rs.Lost) != NumSides:
		return errors.Errorf("expected material tallies for %d sides", NumSides)
	case rs.Current < 0 || int(rs.Current) >= NumSides:
		return errors.Errorf("invalid side to move %d", rs.Current)
	case rs.Won < -1 || rs.Won >= NumSides || rs.Loses < -1 || rs.Loses >= NumSides:
		return errors.Errorf("invalid winner %d or loser %d", rs.Won, rs.Loses)
	}
	for pos, owner := range rs.Ownership {
		if owner < -1 || owner >= NumSides {
			return errors.Errorf("invalid owner %d at position %d", owner, pos)
		}
		if (owner == -1) != (rs.Kinds[pos] == Empty) {
			return errors.Errorf("owner and piece kind disagree at position %d", pos)
		}
	}
	return nil
}
