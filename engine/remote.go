package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"trisearch/experiments/metrics"
	"trisearch/game"
	"trisearch/searcher"
	"trisearch/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const remoteStrategy = "remote"

var _ agent.Agent = (*RemoteAgent)(nil)

// RemoteAgent asks an agent server for moves. Any transport failure is reported as no move,
// which the local engine replaces with a fallback move.
type RemoteAgent struct {
	BaseURL string
	Agent   string // Agent name on the server
	Timeout time.Duration
	client  *http.Client
}

func NewRemoteAgent(baseURL, name string, client *http.Client) *RemoteAgent {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAgent{BaseURL: baseURL, Agent: name, Timeout: 30 * time.Second, client: client}
}

func (r *RemoteAgent) Name() string {
	return r.Agent + "@" + r.BaseURL
}

func (r *RemoteAgent) ChooseMove(state game.State) (game.Move, bool) {
	d := r.FindMove(state)
	return d.Move, d.Found
}

func (r *RemoteAgent) FindMove(state game.State) searcher.Decision {
	start := time.Now()
	d := searcher.Decision{Metric: metrics.SearchMetric{Strategy: remoteStrategy}}

	move, found, err := r.requestMove(state)
	if err != nil {
		log.Warn().Err(err).Str("agent", r.Name()).Msg("remote agent failed")
	} else {
		d.Move, d.Found = move, found
	}
	d.Metric.Duration = time.Since(start)
	return d
}

func (r *RemoteAgent) OnGameEnd(game.State) {}

// requestMove posts the state as JSON to /agents/{name}/move
func (r *RemoteAgent) requestMove(state game.State) (game.Move, bool, error) {
	body, err := json.Marshal(state)
	if err != nil {
		return game.Move{}, false, errors.Wrap(err, "encoding state")
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()
	endpoint := r.BaseURL + "/agents/" + url.PathEscape(r.Agent) + "/move"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return game.Move{}, false, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return game.Move{}, false, errors.Wrapf(err, "posting to %s", endpoint)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return game.Move{}, false, nil
	case http.StatusOK:
	default:
		out, _ := io.ReadAll(resp.Body)
		return game.Move{}, false, errors.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var mr agent.MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return game.Move{}, false, errors.Wrap(err, "decoding move")
	}
	return game.Move{From: mr.From, To: mr.To}, true, nil
}
