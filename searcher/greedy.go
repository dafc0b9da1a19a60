package searcher

import (
	"trisearch/game"

	"github.com/rs/zerolog/log"
)

const greedyStrategy = "greedy"

// Greedy looks one ply ahead and keeps the move with the highest resulting score for the
// side to move. The running best starts at zero and ties go to the later candidate, so
// Greedy finds no move when every candidate scores below zero.
type Greedy struct {
	opts options
}

func NewGreedy(opts ...Option) *Greedy {
	return &Greedy{opts: buildOptions(opts)}
}

func (g *Greedy) ChooseMove(state game.State) (game.Move, bool) {
	d := g.Search(state)
	return d.Move, d.Found
}

func (g *Greedy) Search(state game.State) Decision {
	collector := g.opts.collector()
	collector.Start(greedyStrategy)

	self := state.Turn()
	moves := LegalMoves(state)

	var decision Decision
	best := 0
	for _, move := range moves {
		next, ok := expand(state, move, greedyStrategy, collector)
		if !ok {
			continue
		}
		if score := next.Score(self); best <= score {
			best = score
			decision.Move = move
			decision.Found = true
		}
	}

	decision.Metric = collector.Complete()
	log.Debug().
		Str("strategy", greedyStrategy).
		Stringer("side", self).
		Int("candidates", len(moves)).
		Bool("found", decision.Found).
		Int("score", best).
		Msg("greedy-search")
	return decision
}
