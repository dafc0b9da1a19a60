package agent

import (
	"trisearch/config"
	"trisearch/game"
	"trisearch/searcher"

	"github.com/pkg/errors"
)

type Agent interface {
	Name() string
	// ChooseMove returns false when the agent has no move to offer
	ChooseMove(state game.State) (game.Move, bool)
	// FindMove returns the decision and its search metrics (if collected)
	FindMove(state game.State) searcher.Decision
	// OnGameEnd is called once with the final state of every game the agent played
	OnGameEnd(final game.State)
}

// base provides the display name and a no-op game end hook
type base struct {
	name string
}

func (b base) Name() string {
	return b.name
}

func (b base) OnGameEnd(game.State) {}

// New builds an agent from its configuration. Zero-valued budgets keep the searcher defaults.
func New(cfg config.AgentConfig) (Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := searchOptions(cfg)
	switch cfg.Kind {
	case config.KindGreedy:
		return NewSearchAgent(nameOr(cfg.Name, "GreedyAgent"), searcher.NewGreedy(opts...)), nil
	case config.KindParanoid:
		return NewSearchAgent(nameOr(cfg.Name, "ParanoidAgent"), searcher.NewParanoid(opts...)), nil
	case config.KindMCTS:
		return NewSearchAgent(nameOr(cfg.Name, "MctsAgent"), searcher.NewMCTS(opts...)), nil
	case config.KindRandom:
		return NewRandomAgent(nameOr(cfg.Name, "RandomAgent"), cfg.Seed), nil
	}
	return nil, errors.Errorf("unknown agent kind %q", cfg.Kind)
}

// NewAll builds one agent per configuration
func NewAll(cfgs []config.AgentConfig) ([]Agent, error) {
	agents := make([]Agent, 0, len(cfgs))
	for i, cfg := range cfgs {
		a, err := New(cfg)
		if err != nil {
			return nil, errors.WithMessagef(err, "agent %d", i)
		}
		agents = append(agents, a)
	}
	return agents, nil
}

func searchOptions(cfg config.AgentConfig) []searcher.Option {
	opts := []searcher.Option{searcher.WithMetrics()}
	if cfg.Depth > 0 {
		opts = append(opts, searcher.WithDepth(cfg.Depth))
	}
	if cfg.Duration > 0 {
		opts = append(opts, searcher.WithDuration(cfg.Duration))
	}
	if cfg.Episodes > 0 {
		opts = append(opts, searcher.WithEpisodes(cfg.Episodes))
	}
	if cfg.Cutoff > 0 {
		opts = append(opts, searcher.WithCutoff(cfg.Cutoff))
	}
	if cfg.Exploration > 0 {
		opts = append(opts, searcher.WithExploration(cfg.Exploration))
	}
	if cfg.Seed != 0 {
		opts = append(opts, searcher.WithSeed(cfg.Seed))
	}
	return opts
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
