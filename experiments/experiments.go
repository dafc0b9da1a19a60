package experiments

import (
	"trisearch/config"
	"trisearch/engine"
	"trisearch/experiments/metrics"
	"trisearch/game"
	"trisearch/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Experiment plays every matchup a number of times. A matchup lists one agent index per seat.
type Experiment struct {
	Name      string
	Agents    []config.AgentConfig
	Matchups  [][]int
	Games     int // Per matchup
	Match     config.MatchConfig
	OutputDir string // Results are only written when set
}

// AgentSummary aggregates the games one agent configuration took part in
type AgentSummary struct {
	ID           int
	Name         string
	Games        int
	Wins         int
	Losses       int
	WinRate      float64
	MeanMoveTime float64 // Milliseconds
	MeanNodes    float64
}

type Summary struct {
	Games     int
	Decisive  int // Games with a winner
	MeanMoves float64
	StdMoves  float64
	Agents    []AgentSummary
}

// FromConfig builds a single matchup between the configured agents
func FromConfig(cfg config.Config) Experiment {
	matchup := make([]int, len(cfg.Agents))
	for i := range matchup {
		matchup[i] = i
	}
	return Experiment{
		Name:      "matchup",
		Agents:    cfg.Agents,
		Matchups:  [][]int{matchup},
		Games:     cfg.Experiment.Games,
		Match:     cfg.Match,
		OutputDir: cfg.Experiment.OutputDir,
	}
}

func Run(exp Experiment) (Summary, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	for mi, matchup := range exp.Matchups {
		log.Info().Msgf("starting matchup %d of %d with agents %v...", mi+1, len(exp.Matchups), matchup)

		for i := 0; i < exp.Games; i++ {
			// Rotate seats so every agent gets to move first
			seats := rotate(matchup, i)
			winner, gameMetric, moveMetrics, err := runGame(exp, seats)
			if err != nil {
				return Summary{}, errors.WithMessagef(err, "matchup %d game %d", mi+1, i+1)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Matchup:    mi + 1,
				Agents:     seats,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(exp.Matchups), i+1, winner)
		}
	}

	summary := Summarize(exp.Agents, gameRecords, moveRecords)
	for _, a := range summary.Agents {
		log.Info().
			Int("id", a.ID).
			Str("agent", a.Name).
			Int("games", a.Games).
			Int("wins", a.Wins).
			Int("losses", a.Losses).
			Float64("winRate", a.WinRate).
			Float64("meanMoveMs", a.MeanMoveTime).
			Msg("agent summary")
	}
	log.Info().Int("games", summary.Games).Int("decisive", summary.Decisive).Float64("meanMoves", summary.MeanMoves).
		Msgf("completed %s experiment", exp.Name)

	if exp.OutputDir == "" {
		return summary, nil
	}
	if err := store(exp, gameRecords, moveRecords); err != nil {
		return summary, err
	}
	return summary, nil
}

func store(exp Experiment, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return errors.WithMessage(err, "failed to create experiment writer")
	}

	records := make([]metrics.AgentRecord, len(exp.Agents))
	for i, a := range exp.Agents {
		records[i] = metrics.AgentRecord{ID: i, AgentConfig: a}
	}
	if err := writer.WriteAgentConfigs(records); err != nil {
		return err
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return nil
}

// runGame plays one game with seats[i] choosing the agent for the i-th side
func runGame(exp Experiment, seats []int) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	cfgs := make([]config.AgentConfig, len(seats))
	for i, id := range seats {
		if id < 0 || id >= len(exp.Agents) {
			return "", metrics.GameMetric{}, nil, errors.Errorf("no agent with id %d", id)
		}
		cfgs[i] = exp.Agents[id]
	}
	agents, err := agent.NewAll(cfgs)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}

	state, err := game.NewRingState(exp.Match.BoardSize, exp.Match.Pieces)
	if err != nil {
		return "", metrics.GameMetric{}, nil, errors.Wrap(err, "setting up board")
	}

	winner, gameMetric, moveMetrics := engine.NewLocalEngine(state, agents, exp.Match.MaxTurns).Run()
	return winner, gameMetric, moveMetrics, nil
}

func rotate(seats []int, by int) []int {
	rotated := make([]int, len(seats))
	for i := range seats {
		rotated[i] = seats[(i+by)%len(seats)]
	}
	return rotated
}

// Summarize computes per agent results. Winners and losers are side names, mapped back to
// the agent seated on that side.
func Summarize(agents []config.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) Summary {
	summary := Summary{Games: len(games)}
	seatsByGame := map[int][]int{}
	lengths := make([]float64, 0, len(games))

	per := make([]AgentSummary, len(agents))
	for i, a := range agents {
		per[i] = AgentSummary{ID: i, Name: a.Name}
		if per[i].Name == "" {
			per[i].Name = a.Kind
		}
	}

	for _, g := range games {
		seatsByGame[g.ID] = g.Agents
		lengths = append(lengths, float64(g.TotalMoves))
		if g.Winner != "" {
			summary.Decisive++
		}
		for side, id := range g.Agents {
			name := game.Side(side).String()
			per[id].Games++
			if g.Winner == name {
				per[id].Wins++
			}
			if g.Loser == name {
				per[id].Losses++
			}
		}
	}

	moveTimes := make([][]float64, len(agents))
	nodes := make([][]float64, len(agents))
	for _, m := range moves {
		seats, ok := seatsByGame[m.Game]
		if !ok || m.Player < 0 || m.Player >= len(seats) {
			continue
		}
		id := seats[m.Player]
		moveTimes[id] = append(moveTimes[id], float64(m.Duration.Microseconds())/1000)
		nodes[id] = append(nodes[id], float64(m.Nodes))
	}

	wins := make([]float64, len(per))
	for i := range per {
		if per[i].Games > 0 {
			per[i].WinRate = float64(per[i].Wins) / float64(per[i].Games)
		}
		if len(moveTimes[i]) > 0 {
			per[i].MeanMoveTime = stat.Mean(moveTimes[i], nil)
			per[i].MeanNodes = stat.Mean(nodes[i], nil)
		}
		wins[i] = float64(per[i].Wins)
	}
	if len(lengths) > 0 {
		summary.MeanMoves, summary.StdMoves = stat.MeanStdDev(lengths, nil)
	}
	if int(floats.Sum(wins)) != summary.Decisive {
		log.Warn().Int("decisive", summary.Decisive).Msg("wins do not add up to decisive games")
	}
	summary.Agents = per
	return summary
}
