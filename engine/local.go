package engine

import (
	"time"

	"trisearch/experiments/metrics"
	"trisearch/game"
	"trisearch/searcher"
	"trisearch/searcher/agent"

	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	State    game.State
	Agents   []agent.Agent // Indexed by position in State.Sides()
	MaxTurns int
}

func NewLocalEngine(state game.State, agents []agent.Agent, maxTurns int) *LocalEngine {
	if len(agents) != len(state.Sides()) {
		panic("number of sides does not match number of agents")
	}
	if maxTurns <= 0 {
		panic("max turns must be positive")
	}
	return &LocalEngine{
		State:    state,
		Agents:   agents,
		MaxTurns: maxTurns,
	}
}

// Run executes the entire game loop on the engine's state
func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.State.Turn()),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Stringer("side", e.State.Turn()).Str("agent", e.agentFor(e.State.Turn()).Name()).Msg("game started")

	turn := 1
	for ; !e.State.IsGameOver() && turn <= e.MaxTurns; turn++ {
		side := e.State.Turn()
		a := e.agentFor(side)

		decision := a.FindMove(e.State)
		move, ok := e.validate(side, a, decision)
		if !ok {
			log.Info().Stringer("side", side).Msg("no legal moves, stopping")
			break
		}
		if move != decision.Move || !decision.Found {
			gameMetric.Fallbacks++
		}

		if err := e.State.ApplyMove(move.From, move.To); err != nil {
			log.Error().Err(err).Stringer("side", side).Msg("engine rejected a legal move")
			break
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       int(side),
			Agent:        a.Name(),
			SearchMetric: decision.Metric,
		})
		log.Debug().Int("turn", turn).Stringer("side", side).Stringer("move", move).Msg("move played")
	}

	for _, a := range e.Agents {
		a.OnGameEnd(e.State)
	}

	if w, ok := e.State.Winner(); ok {
		gameMetric.Winner = w.String()
	}
	if l, ok := e.State.Loser(); ok {
		gameMetric.Loser = l.String()
	}
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if gameMetric.Winner != "" {
		log.Info().Str("winner", gameMetric.Winner).Int("moves", gameMetric.TotalMoves).Msg("game over")
	} else {
		log.Info().Int("moves", gameMetric.TotalMoves).Msgf("stopped after %d turns without a winner", turn-1)
	}
	return gameMetric.Winner, gameMetric, moveMetrics
}

func (e *LocalEngine) agentFor(side game.Side) agent.Agent {
	for i, s := range e.State.Sides() {
		if s == side {
			return e.Agents[i]
		}
	}
	panic("side to move is not in play")
}

// validate falls back to the first legal move when the agent offers none or an illegal one
func (e *LocalEngine) validate(side game.Side, a agent.Agent, d searcher.Decision) (game.Move, bool) {
	if d.Found && e.State.IsLegalMove(d.Move.From, d.Move.To) {
		return d.Move, true
	}

	fallback := searcher.LegalMoves(e.State)
	if len(fallback) == 0 {
		return game.Move{}, false
	}
	log.Warn().Stringer("side", side).Str("agent", a.Name()).Bool("found", d.Found).Stringer("fallback", fallback[0]).
		Msg("agent returned no legal move, forcing first legal move")
	return fallback[0], true
}
