package searcher

import (
	"math"

	"trisearch/experiments/metrics"
	"trisearch/game"

	"github.com/rs/zerolog/log"
)

const paranoidStrategy = "paranoid"

// Paranoid is a depth-bounded minimax with alpha-beta pruning in which every other side
// is merged into a single minimizing adversary.
type Paranoid struct {
	opts options
}

func NewParanoid(opts ...Option) *Paranoid {
	return &Paranoid{opts: buildOptions(opts)}
}

func (p *Paranoid) ChooseMove(state game.State) (game.Move, bool) {
	d := p.Search(state)
	return d.Move, d.Found
}

func (p *Paranoid) Search(state game.State) Decision {
	collector := p.opts.collector()
	collector.Start(paranoidStrategy)

	search := &paranoidSearch{
		self:      state.Turn(),
		sides:     state.Sides(),
		pruning:   p.opts.pruning,
		collector: collector,
	}

	var decision Decision
	moves := LegalMoves(state)
	best := math.MinInt
	for _, move := range moves {
		next, ok := expand(state, move, paranoidStrategy, collector)
		if !ok {
			continue
		}
		// First move wins ties
		if value := search.minimax(next, p.opts.depth, math.MinInt, math.MaxInt); value > best {
			best = value
			decision.Move = move
			decision.Found = true
		}
	}

	decision.Metric = collector.Complete()
	log.Debug().
		Str("strategy", paranoidStrategy).
		Stringer("side", search.self).
		Int("depth", p.opts.depth).
		Int("candidates", len(moves)).
		Bool("found", decision.Found).
		Int("value", best).
		Msg("paranoid-search")
	return decision
}

// paranoidSearch holds the identity of the searching side for one call.
type paranoidSearch struct {
	self      game.Side
	sides     []game.Side
	pruning   bool
	collector metrics.Collector
}

func (s *paranoidSearch) minimax(state game.State, depth, alpha, beta int) int {
	if depth == 0 || state.IsGameOver() {
		return s.evaluate(state)
	}

	moves := LegalMoves(state)
	if len(moves) == 0 { // Stalemate for the side to move
		return s.evaluate(state)
	}

	// A failed branch contributes no value; a node with no surviving branch is a leaf
	searched := false
	if state.Turn() == s.self {
		maxEval := math.MinInt
		for i, move := range moves {
			next, ok := expand(state, move, paranoidStrategy, s.collector)
			if !ok {
				continue
			}
			searched = true
			eval := s.minimax(next, depth-1, alpha, beta)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if s.cutoff(alpha, beta, i, len(moves)) {
				break
			}
		}
		if !searched {
			return s.evaluate(state)
		}
		return maxEval
	}

	minEval := math.MaxInt
	for i, move := range moves {
		next, ok := expand(state, move, paranoidStrategy, s.collector)
		if !ok {
			continue
		}
		searched = true
		eval := s.minimax(next, depth-1, alpha, beta)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if s.cutoff(alpha, beta, i, len(moves)) {
			break
		}
	}
	if !searched {
		return s.evaluate(state)
	}
	return minEval
}

func (s *paranoidSearch) cutoff(alpha, beta, i, n int) bool {
	if !s.pruning || beta > alpha {
		return false
	}
	if i < n-1 {
		s.collector.AddPruned()
	}
	return true
}

// evaluate weighs the searching side's score by the number of opponents and subtracts
// every opponent's score: 2*me - opp1 - opp2 with three sides.
func (s *paranoidSearch) evaluate(state game.State) int {
	return ParanoidScore(state, s.self, s.sides)
}

func ParanoidScore(state game.State, self game.Side, sides []game.Side) int {
	score := 0
	for _, side := range sides {
		if side == self {
			continue
		}
		score += state.Score(self) - state.Score(side)
	}
	return score
}
