package game

import (
	"github.com/pkg/errors"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrClone       = errors.New("state could not be cloned")
)

// IllegalMoveError reports a move that failed legality at mutation time.
type IllegalMoveError struct {
	Side   Side
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return "illegal move " + e.Move.String() + " by " + e.Side.String() + ": " + e.Reason
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// NewIllegalMoveError is a helper for rules engines implementing State.
func NewIllegalMoveError(side Side, from, to Position, reason string) error {
	return &IllegalMoveError{Side: side, Move: Move{From: from, To: to}, Reason: reason}
}

// CloneError wraps cause so that errors.Is(err, ErrClone) holds.
func CloneError(cause error) error {
	if cause == nil {
		return ErrClone
	}
	return errors.Wrap(ErrClone, cause.Error())
}
