package searcher

import (
	"time"

	"trisearch/experiments/metrics"
	"trisearch/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const mctsStrategy = "mcts"

// MCTS is a time-bounded UCT search with random playouts. Rewards are always taken from
// the perspective of the side to move at the root.
type MCTS struct {
	opts options
}

func NewMCTS(opts ...Option) *MCTS {
	return &MCTS{opts: buildOptions(opts)}
}

// ChooseMove returns the most visited root move. It finds no move when the root
// state is terminal or has no legal moves.
func (m *MCTS) ChooseMove(state game.State) (game.Move, bool) {
	d := m.Search(state)
	return d.Move, d.Found
}

func (m *MCTS) Search(state game.State) Decision {
	s := m.run(state)

	var decision Decision
	if best, ok := s.tree.mostVisited(); ok {
		decision.Move = s.tree.nodes[best].move
		decision.Found = true
	}
	decision.Metric = s.collector.Complete()

	log.Debug().
		Str("strategy", mctsStrategy).
		Stringer("side", s.self).
		Int("iterations", decision.Metric.Iterations).
		Uint64("rootVisits", s.tree.root().visits).
		Int("rootChildren", len(s.tree.root().children)).
		Bool("found", decision.Found).
		Msg("mcts-search")
	return decision
}

// run builds a fresh tree for state, iterating until the episode count or the time
// budget measured from entry is used up.
func (m *MCTS) run(state game.State) *mctsSearch {
	deadline := time.Now().Add(m.opts.duration)
	collector := m.opts.collector()
	collector.Start(mctsStrategy)

	s := &mctsSearch{
		self:        state.Turn(),
		cutoff:      m.opts.cutoff,
		exploration: m.opts.exploration,
		rng:         m.newRand(),
		collector:   collector,
	}

	root, err := state.Clone()
	if err != nil {
		log.Warn().Err(err).Str("strategy", mctsStrategy).Msg("cannot clone root state")
		collector.AddSkipped()
		s.tree = newTree(nil)
		return s
	}
	s.tree = newTree(root)

	if m.opts.episodes > 0 {
		for i := 0; i < m.opts.episodes; i++ {
			s.iterate()
		}
		return s
	}
	// A started iteration always completes
	for time.Now().Before(deadline) {
		s.iterate()
	}
	return s
}

func (m *MCTS) newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	if m.opts.seeded {
		seed = m.opts.seed
	}
	return rand.New(rand.NewSource(seed))
}

// mctsSearch is the private state of one search call.
type mctsSearch struct {
	self        game.Side
	tree        *tree
	cutoff      int
	exploration float64
	rng         *rand.Rand
	collector   metrics.Collector
}

func (s *mctsSearch) iterate() {
	leaf := s.selectThenExpand()
	reward := s.rollout(leaf)
	s.tree.backup(leaf, reward)
	s.collector.AddIteration()
}

// selectThenExpand descends by UCB1 to a node without children. A non-terminal leaf is
// expanded with one child per legal move and a random new child is returned.
func (s *mctsSearch) selectThenExpand() int {
	i := 0
	for len(s.tree.nodes[i].children) > 0 {
		i = s.tree.pickChild(i, s.exploration)
	}

	if s.tree.nodes[i].state.IsGameOver() {
		return i
	}

	s.expand(i)
	children := s.tree.nodes[i].children
	if len(children) == 0 { // No legal moves, or every branch failed
		return i
	}
	return children[s.rng.Intn(len(children))]
}

func (s *mctsSearch) expand(i int) {
	state := s.tree.nodes[i].state
	for _, move := range LegalMoves(state) {
		next, ok := expand(state, move, mctsStrategy, s.collector)
		if !ok {
			continue
		}
		s.tree.addChild(i, move, next)
	}
}

// rollout plays random moves on a private copy of the node's state until the game
// ends or the cutoff is reached, then scores the outcome for the searching side.
func (s *mctsSearch) rollout(i int) float64 {
	origin := s.tree.nodes[i].state
	state, err := origin.Clone()
	if err != nil {
		log.Warn().Err(err).Str("strategy", mctsStrategy).Msg("cannot clone state for rollout")
		s.collector.AddSkipped()
		return s.reward(origin)
	}

	for depth := 0; depth < s.cutoff && !state.IsGameOver(); depth++ {
		moves := LegalMoves(state)
		if len(moves) == 0 {
			break
		}
		move := moves[s.rng.Intn(len(moves))] // Random rollout policy
		if err := state.ApplyMove(move.From, move.To); err != nil {
			log.Warn().Err(err).Str("strategy", mctsStrategy).Stringer("move", move).Msg("stopping rollout")
			s.collector.AddSkipped()
			break
		}
	}

	if state.IsGameOver() {
		s.collector.AddFullPlayout()
	}
	return s.reward(state)
}

func (s *mctsSearch) reward(state game.State) float64 {
	if winner, ok := state.Winner(); ok && winner == s.self {
		return WIN
	}
	if loser, ok := state.Loser(); ok && loser == s.self {
		return LOSS
	}
	return float64(state.Score(s.self))
}
