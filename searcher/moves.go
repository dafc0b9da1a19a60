package searcher

import (
	"trisearch/experiments/metrics"
	"trisearch/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LegalMoves lists the de-duplicated legal moves of the side to move, piece order
// outer and board order inner. It returns an empty slice when there are none.
func LegalMoves(state game.State) []game.Move {
	pieces := state.PiecePositions(state.Turn())
	board := state.Board()

	moves := []game.Move{}
	seen := make(map[game.Move]struct{}, len(pieces))
	for _, from := range pieces {
		for _, to := range board {
			move := game.Move{From: from, To: to}
			if _, ok := seen[move]; ok {
				continue
			}
			if state.IsLegalMove(from, to) {
				seen[move] = struct{}{}
				moves = append(moves, move)
			}
		}
	}
	return moves
}

// successor returns a private copy of state with move applied. The original is never mutated.
func successor(state game.State, move game.Move) (game.State, error) {
	next, err := state.Clone()
	if err != nil {
		return nil, errors.WithMessagef(err, "cloning before move %s", move)
	}
	if err := next.ApplyMove(move.From, move.To); err != nil {
		return nil, errors.WithMessagef(err, "applying pre-validated move %s", move)
	}
	return next, nil
}

// expand applies move to a copy of state. A failure drops the branch: it is logged and
// counted, and the caller must skip the move.
func expand(state game.State, move game.Move, strategy string, collector metrics.Collector) (game.State, bool) {
	next, err := successor(state, move)
	if err != nil {
		log.Warn().Err(err).Str("strategy", strategy).Stringer("move", move).Msg("skipping branch")
		collector.AddSkipped()
		return nil, false
	}
	collector.AddNode()
	return next, true
}
