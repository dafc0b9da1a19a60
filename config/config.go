package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	MaxTurns       = 300
	DefaultGames   = 10
	DefaultAddr    = ":8080"
	DefaultOutDir  = "results"
	NumMatchAgents = 3
)

// Agent kinds understood by agent.New
const (
	KindGreedy   = "greedy"
	KindParanoid = "paranoid"
	KindMCTS     = "mcts"
	KindRandom   = "random"
)

type Config struct {
	Match      MatchConfig      `yaml:"match"`
	Agents     []AgentConfig    `yaml:"agents"`
	Server     ServerConfig     `yaml:"server"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type MatchConfig struct {
	MaxTurns  int    `yaml:"maxTurns"`
	Pieces    int    `yaml:"pieces"` // Pawns per side, each side also has a king
	BoardSize int    `yaml:"boardSize"`
	Seed      uint64 `yaml:"seed"`
}

// AgentConfig describes one agent. Zero values fall back to the searcher defaults.
type AgentConfig struct {
	Kind        string        `yaml:"kind"`
	Name        string        `yaml:"name"`
	Depth       int           `yaml:"depth"`
	Duration    time.Duration `yaml:"duration"`
	Episodes    int           `yaml:"episodes"`
	Cutoff      int           `yaml:"cutoff"`
	Exploration float64       `yaml:"exploration"`
	Seed        uint64        `yaml:"seed"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExperimentConfig struct {
	Games     int    `yaml:"games"`
	OutputDir string `yaml:"outputDir"`
}

// Default is a greedy, paranoid and MCTS agent on the default ring
func Default() Config {
	return Config{
		Match: MatchConfig{
			MaxTurns:  MaxTurns,
			Pieces:    3,
			BoardSize: 24,
		},
		Agents: []AgentConfig{
			{Kind: KindGreedy},
			{Kind: KindParanoid, Depth: 3},
			{Kind: KindMCTS, Duration: time.Second, Cutoff: 10},
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Experiment: ExperimentConfig{
			Games:     DefaultGames,
			OutputDir: DefaultOutDir,
		},
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %q", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.WithMessagef(err, "config %q", path)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document leaves out, then validates it
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "decoding yaml")
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	if c.Match.MaxTurns <= 0 {
		return errors.Errorf("maxTurns must be positive, got %d", c.Match.MaxTurns)
	}
	if c.Match.BoardSize <= 0 || c.Match.BoardSize%NumMatchAgents != 0 {
		return errors.Errorf("boardSize must be a positive multiple of %d, got %d", NumMatchAgents, c.Match.BoardSize)
	}
	if c.Match.Pieces < 0 {
		return errors.Errorf("pieces cannot be negative, got %d", c.Match.Pieces)
	}
	if len(c.Agents) != NumMatchAgents {
		return errors.Errorf("expected %d agents, got %d", NumMatchAgents, len(c.Agents))
	}
	for i, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return errors.WithMessagef(err, "agent %d", i)
		}
	}
	if c.Experiment.Games < 0 {
		return errors.Errorf("games cannot be negative, got %d", c.Experiment.Games)
	}
	return nil
}

func (a AgentConfig) Validate() error {
	switch a.Kind {
	case KindGreedy, KindParanoid, KindMCTS, KindRandom:
	default:
		return errors.Errorf("unknown agent kind %q", a.Kind)
	}
	if a.Depth < 0 {
		return errors.Errorf("depth cannot be negative, got %d", a.Depth)
	}
	if a.Duration < 0 || a.Episodes < 0 || a.Cutoff < 0 || a.Exploration < 0 {
		return errors.New("search budgets cannot be negative")
	}
	return nil
}
