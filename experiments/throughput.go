package experiments

import (
	"time"

	"trisearch/config"
	"trisearch/game"
	"trisearch/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

type ThroughputResult struct {
	Budget       time.Duration
	Samples      int
	MeanIters    float64
	StdIters     float64
	ItersPerSec  float64
	MeanPlayouts float64 // Rollouts that reached game over
}

// RunThroughput measures MCTS iterations for each time budget on the opening position
func RunThroughput(cfg config.AgentConfig, match config.MatchConfig, budgets []time.Duration, samples int) ([]ThroughputResult, error) {
	if cfg.Kind != config.KindMCTS {
		return nil, errors.Errorf("throughput is measured for %s agents, got %q", config.KindMCTS, cfg.Kind)
	}
	if samples <= 0 {
		return nil, errors.New("need at least one sample")
	}

	results := make([]ThroughputResult, 0, len(budgets))
	for _, budget := range budgets {
		c := cfg
		c.Duration = budget
		c.Episodes = 0
		a, err := agent.New(c)
		if err != nil {
			return nil, err
		}

		iters := make([]float64, samples)
		playouts := make([]float64, samples)
		for i := 0; i < samples; i++ {
			state, err := game.NewRingState(match.BoardSize, match.Pieces)
			if err != nil {
				return nil, errors.Wrap(err, "setting up board")
			}
			d := a.FindMove(state)
			iters[i] = float64(d.Metric.Iterations)
			playouts[i] = float64(d.Metric.FullPlayouts)
		}

		r := ThroughputResult{Budget: budget, Samples: samples}
		r.MeanIters, r.StdIters = stat.MeanStdDev(iters, nil)
		r.MeanPlayouts = stat.Mean(playouts, nil)
		r.ItersPerSec = r.MeanIters / budget.Seconds()
		results = append(results, r)

		log.Info().
			Dur("budget", budget).
			Float64("meanIterations", r.MeanIters).
			Float64("stdIterations", r.StdIters).
			Float64("iterationsPerSecond", r.ItersPerSec).
			Msg("throughput")
	}
	return results, nil
}
