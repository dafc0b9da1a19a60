package experiments

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"trisearch/config"
	"trisearch/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func smallMatch() config.MatchConfig {
	return config.MatchConfig{MaxTurns: 40, BoardSize: 12, Pieces: 2}
}

func TestRun(t *testing.T) {
	t.Run("playing every game and writing records", func(t *testing.T) {
		dir := t.TempDir()
		exp := Experiment{
			Name: "smoke",
			Agents: []config.AgentConfig{
				{Kind: config.KindGreedy},
				{Kind: config.KindRandom, Seed: 5},
				{Kind: config.KindParanoid, Depth: 1},
			},
			Matchups:  [][]int{{0, 1, 2}},
			Games:     3,
			Match:     smallMatch(),
			OutputDir: dir,
		}

		summary, err := Run(exp)

		require.NoError(t, err)
		require.Equal(t, 3, summary.Games)
		for _, a := range summary.Agents {
			require.Equal(t, 3, a.Games)
			require.LessOrEqual(t, a.Wins+a.Losses, a.Games)
		}
		runs, err := os.ReadDir(filepath.Join(dir, "smoke"))
		require.NoError(t, err)
		require.Len(t, runs, 1)
		for _, f := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			require.FileExists(t, filepath.Join(dir, "smoke", runs[0].Name(), f))
		}
	})

	t.Run("unknown agent id", func(t *testing.T) {
		exp := Experiment{
			Name:     "broken",
			Agents:   []config.AgentConfig{{Kind: config.KindGreedy}},
			Matchups: [][]int{{0, 0, 4}},
			Games:    1,
			Match:    smallMatch(),
		}

		_, err := Run(exp)

		require.ErrorContains(t, err, "no agent with id 4")
	})
}

func TestFromConfig(t *testing.T) {
	exp := FromConfig(config.Default())

	require.Equal(t, [][]int{{0, 1, 2}}, exp.Matchups)
	require.Equal(t, config.DefaultGames, exp.Games)
}

func TestRotate(t *testing.T) {
	require.Equal(t, []int{0, 1, 2}, rotate([]int{0, 1, 2}, 0))
	require.Equal(t, []int{1, 2, 0}, rotate([]int{0, 1, 2}, 1))
	require.Equal(t, []int{2, 0, 1}, rotate([]int{0, 1, 2}, 5))
}

func TestSummarize(t *testing.T) {
	agents := []config.AgentConfig{{Kind: config.KindGreedy, Name: "g"}, {Kind: config.KindRandom}, {Kind: config.KindMCTS}}
	games := []metrics.GameRecord{
		{ID: 1, Agents: []int{0, 1, 2}, GameMetric: metrics.GameMetric{Winner: "blue", Loser: "green", TotalMoves: 10}},
		{ID: 2, Agents: []int{1, 2, 0}, GameMetric: metrics.GameMetric{Winner: "red", Loser: "blue", TotalMoves: 20}},
		{ID: 3, Agents: []int{2, 0, 1}, GameMetric: metrics.GameMetric{TotalMoves: 30}},
	}
	moves := []metrics.MoveRecord{
		{Game: 1, MoveMetric: metrics.MoveMetric{Player: 0, SearchMetric: metrics.SearchMetric{Duration: 2 * time.Millisecond, Nodes: 4}}},
		{Game: 2, MoveMetric: metrics.MoveMetric{Player: 2, SearchMetric: metrics.SearchMetric{Duration: 4 * time.Millisecond, Nodes: 8}}},
		{Game: 9, MoveMetric: metrics.MoveMetric{Player: 0}},
	}

	s := Summarize(agents, games, moves)

	require.Equal(t, 3, s.Games)
	require.Equal(t, 2, s.Decisive)
	require.InDelta(t, 20.0, s.MeanMoves, 1e-9)
	require.InDelta(t, 10.0, s.StdMoves, 1e-9)

	greedy := s.Agents[0]
	require.Equal(t, "g", greedy.Name)
	require.Equal(t, 3, greedy.Games)
	require.Equal(t, 2, greedy.Wins)
	require.InDelta(t, 2.0/3, greedy.WinRate, 1e-9)
	require.InDelta(t, 3.0, greedy.MeanMoveTime, 1e-9)
	require.InDelta(t, 6.0, greedy.MeanNodes, 1e-9)

	random := s.Agents[1]
	require.Equal(t, "random", random.Name)
	require.Equal(t, 2, random.Losses, "Green in the first game and blue in the second")
	require.Equal(t, 0, random.Wins)
	require.Equal(t, 0, s.Agents[2].Losses)
}

func TestRunThroughput(t *testing.T) {
	t.Run("measuring iterations per budget", func(t *testing.T) {
		budgets := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}

		results, err := RunThroughput(config.AgentConfig{Kind: config.KindMCTS, Seed: 1}, smallMatch(), budgets, 2)

		require.NoError(t, err)
		require.Len(t, results, 2)
		for i, r := range results {
			require.Equal(t, budgets[i], r.Budget)
			require.Greater(t, r.MeanIters, 0.0)
			require.Greater(t, r.ItersPerSec, 0.0)
		}
	})

	t.Run("rejecting other agents", func(t *testing.T) {
		_, err := RunThroughput(config.AgentConfig{Kind: config.KindGreedy}, smallMatch(), []time.Duration{time.Millisecond}, 1)

		require.Error(t, err)
	})
}
