package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trisearch/config"
	"trisearch/game"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	agents, err := NewAll([]config.AgentConfig{
		{Kind: config.KindGreedy},
		{Kind: config.KindMCTS, Episodes: 50, Seed: 1},
	})
	require.NoError(t, err)
	s, err := NewServer(agents)
	require.NoError(t, err)
	return s
}

func postState(t *testing.T, s *Server, path string, state any) *httptest.ResponseRecorder {
	body, err := json.Marshal(state)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServerAgents(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agents", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&names))
	require.Equal(t, []string{"GreedyAgent", "MctsAgent"}, names)
}

func TestServerMove(t *testing.T) {
	t.Run("returning a legal move", func(t *testing.T) {
		s := newTestServer(t)
		state, _ := game.NewRingState(6, 0)

		w := postState(t, s, "/agents/MctsAgent/move", state)

		require.Equal(t, http.StatusOK, w.Code)
		var resp MoveResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, game.Position(0), resp.From)
		require.Equal(t, game.Position(2), resp.To, "Taking the green king wins")
		require.Equal(t, "mcts", resp.Strategy)
	})

	t.Run("no content without a move", func(t *testing.T) {
		s := newTestServer(t)
		state, _ := game.NewRingState(6, 0)
		require.NoError(t, state.ApplyMove(0, 2))

		w := postState(t, s, "/agents/GreedyAgent/move", state)

		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown agent", func(t *testing.T) {
		w := postState(t, newTestServer(t), "/agents/nobody/move", game.NewDefaultRingState())

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid state", func(t *testing.T) {
		state := game.NewDefaultRingState()
		state.Kinds = state.Kinds[:3]

		w := postState(t, newTestServer(t), "/agents/GreedyAgent/move", state)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/agents/GreedyAgent/move", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		newTestServer(t).Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNewServerDuplicateNames(t *testing.T) {
	_, err := NewServer([]Agent{NewRandomAgent("x", 1), NewRandomAgent("x", 2)})

	require.ErrorContains(t, err, "duplicate")
}
