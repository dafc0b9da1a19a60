package engine

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"trisearch/config"
	"trisearch/game"
	"trisearch/searcher/agent"

	"github.com/stretchr/testify/require"
)

func newAgentServer(t *testing.T) *httptest.Server {
	agents, err := agent.NewAll([]config.AgentConfig{{Kind: config.KindGreedy}})
	require.NoError(t, err)
	s, err := agent.NewServer(agents)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRemoteAgent(t *testing.T) {
	t.Run("requesting a move", func(t *testing.T) {
		ts := newAgentServer(t)
		state, _ := game.NewRingState(6, 0)

		got, ok := NewRemoteAgent(ts.URL, "GreedyAgent", ts.Client()).ChooseMove(state)

		require.True(t, ok)
		require.Equal(t, game.Move{From: 0, To: 2}, got)
	})

	t.Run("no move on a finished game", func(t *testing.T) {
		ts := newAgentServer(t)
		state, _ := game.NewRingState(6, 0)
		require.NoError(t, state.ApplyMove(0, 2))

		d := NewRemoteAgent(ts.URL, "GreedyAgent", ts.Client()).FindMove(state)

		require.False(t, d.Found)
		require.Equal(t, "remote", d.Metric.Strategy)
	})

	t.Run("unknown agent", func(t *testing.T) {
		ts := newAgentServer(t)

		_, ok := NewRemoteAgent(ts.URL, "nobody", ts.Client()).ChooseMove(game.NewDefaultRingState())

		require.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer ts.Close()

		_, ok := NewRemoteAgent(ts.URL, "GreedyAgent", ts.Client()).ChooseMove(game.NewDefaultRingState())

		require.False(t, ok)
	})

	t.Run("playing a game through the engine", func(t *testing.T) {
		ts := newAgentServer(t)
		remote := NewRemoteAgent(ts.URL, "GreedyAgent", ts.Client())
		state, _ := game.NewRingState(6, 0)

		winner, _, _ := NewLocalEngine(state, []agent.Agent{remote, remote, remote}, 10).Run()

		require.Equal(t, "blue", winner)
	})
}
