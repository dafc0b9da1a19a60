package searcher

import (
	"time"

	"trisearch/experiments/metrics"
	"trisearch/game"
)

// Strategy chooses a move for the side to move. Implementations never mutate state and
// keep no search state between calls.
type Strategy interface {
	ChooseMove(state game.State) (game.Move, bool)
	Search(state game.State) Decision
}

// Decision is the outcome of one search. Found is false when no move was chosen, which
// callers must treat as a normal outcome.
type Decision struct {
	Move   game.Move
	Found  bool
	Metric metrics.SearchMetric
}

type Option func(o *options)

type options struct {
	depth       int
	pruning     bool
	duration    time.Duration
	episodes    int
	cutoff      int
	exploration float64
	seed        uint64
	seeded      bool
	collector   func() metrics.Collector
}

func defaultOptions() options {
	return options{
		depth:       DefaultDepth,
		pruning:     true,
		duration:    DefaultDuration,
		cutoff:      DefaultCutoff,
		exploration: CSquared,
		collector:   metrics.NewDummyCollector,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, option := range opts {
		option(&o)
	}
	return o
}

// WithDepth sets the paranoid search depth below each root move.
func WithDepth(depth int) Option {
	return func(o *options) {
		if depth < 0 {
			panic("search depth cannot be negative")
		}
		o.depth = depth
	}
}

// WithoutPruning runs the full minimax tree.
func WithoutPruning() Option {
	return func(o *options) {
		o.pruning = false
	}
}

func WithDuration(duration time.Duration) Option {
	return func(o *options) {
		if duration > 0 {
			o.duration = duration
		}
	}
}

// WithEpisodes runs a fixed number of MCTS iterations instead of a time budget.
func WithEpisodes(episodes int) Option {
	return func(o *options) {
		if episodes > 0 {
			o.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.cutoff = depth
		}
	}
}

func WithExploration(cSquared float64) Option {
	return func(o *options) {
		if cSquared >= 0 {
			o.exploration = cSquared
		}
	}
}

// WithSeed makes every search draw from a fresh generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

func WithMetrics() Option {
	return func(o *options) {
		o.collector = metrics.NewCollector
	}
}
