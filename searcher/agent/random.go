package agent

import (
	"sync"
	"time"

	"trisearch/experiments/metrics"
	"trisearch/game"
	"trisearch/searcher"

	"golang.org/x/exp/rand"
)

const randomStrategy = "random"

type randomAgent struct {
	base
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent plays a uniformly random legal move. A zero seed draws one from the clock.
func NewRandomAgent(name string, seed uint64) Agent {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &randomAgent{
		base: base{name: name},
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent) ChooseMove(state game.State) (game.Move, bool) {
	d := a.FindMove(state)
	return d.Move, d.Found
}

func (a *randomAgent) FindMove(state game.State) searcher.Decision {
	start := time.Now()
	moves := searcher.LegalMoves(state)

	d := searcher.Decision{
		Metric: metrics.SearchMetric{Strategy: randomStrategy},
	}
	if len(moves) > 0 {
		a.mu.Lock()
		d.Move = moves[a.rng.Intn(len(moves))]
		a.mu.Unlock()
		d.Found = true
	}
	d.Metric.Duration = time.Since(start)
	return d
}
