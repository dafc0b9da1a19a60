package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trisearch/config"
	"trisearch/engine"
	"trisearch/experiments"
	"trisearch/game"
	"trisearch/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	mode := flag.String("mode", "play", "One of play, serve, experiment or throughput")
	configPath := flag.String("config", "", "YAML config file, defaults are used when empty")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	seed := flag.Uint64("seed", 0, "Match seed, agents without a seed derive theirs from it")
	games := flag.Int("games", 0, "Games per matchup in experiment mode")
	addr := flag.String("addr", "", "Listen address in serve mode")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *seed != 0 {
		cfg.Match.Seed = *seed
	}
	if *games > 0 {
		cfg.Experiment.Games = *games
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	seedAgents(&cfg)

	switch *mode {
	case "play":
		err = play(cfg)
	case "serve":
		err = serve(cfg)
	case "experiment":
		_, err = experiments.Run(experiments.FromConfig(cfg))
	case "throughput":
		err = throughput(cfg)
	default:
		err = errors.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("failed")
	}
}

// seedAgents gives every unseeded agent a seed derived from the match seed
func seedAgents(cfg *config.Config) {
	if cfg.Match.Seed == 0 {
		return
	}
	for i := range cfg.Agents {
		if cfg.Agents[i].Seed == 0 {
			cfg.Agents[i].Seed = cfg.Match.Seed + uint64(i)
		}
	}
}

func play(cfg config.Config) error {
	agents, err := agent.NewAll(cfg.Agents)
	if err != nil {
		return err
	}
	state, err := game.NewRingState(cfg.Match.BoardSize, cfg.Match.Pieces)
	if err != nil {
		return errors.Wrap(err, "setting up board")
	}

	winner, gameMetric, _ := engine.NewLocalEngine(state, agents, cfg.Match.MaxTurns).Run()
	log.Info().
		Str("winner", winner).
		Str("loser", gameMetric.Loser).
		Int("moves", gameMetric.TotalMoves).
		Int("fallbacks", gameMetric.Fallbacks).
		Dur("duration", gameMetric.Duration).
		Msg("match finished")
	return nil
}

func serve(cfg config.Config) error {
	agents, err := agent.NewAll(cfg.Agents)
	if err != nil {
		return err
	}
	server, err := agent.NewServer(agents)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.ListenAndServe(ctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			log.Info().Stringer("signal", sig).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})
	return g.Wait()
}

func throughput(cfg config.Config) error {
	for _, a := range cfg.Agents {
		if a.Kind != config.KindMCTS {
			continue
		}
		budgets := []time.Duration{10 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond, 500 * time.Millisecond}
		if _, err := experiments.RunThroughput(a, cfg.Match, budgets, 5); err != nil {
			return err
		}
	}
	return nil
}
