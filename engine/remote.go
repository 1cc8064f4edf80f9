package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fiveinarow/experiments/metrics"
	"fiveinarow/game"
	"fiveinarow/searcher/agent"

	"github.com/rs/zerolog/log"
)

// RemoteEngine runs the self-play loop with every move requested from an agent server.
type RemoteEngine struct {
	*LocalEngine

	remotes []*agent.RemoteAgent
}

// NewRemoteEngine plays urls[0] as Black against urls[1].
func NewRemoteEngine(urls []string, timeout time.Duration, options ...Option) *RemoteEngine {
	if len(urls) != 2 {
		panic("need exactly two agent URLs")
	}

	remotes := make([]*agent.RemoteAgent, len(urls))
	agents := make([]agent.Agent, len(urls))
	for i, url := range urls {
		remotes[i] = agent.NewRemoteAgent(url, timeout)
		agents[i] = remotes[i]
	}
	return &RemoteEngine{
		LocalEngine: NewLocalEngine(agents, options...),
		remotes:     remotes,
	}
}

func (e *RemoteEngine) Run() (game.Owner, metrics.GameMetric, []metrics.MoveMetric) {
	winner, gameMetric, moveMetrics := e.LocalEngine.Run()
	if err := e.Err(); err != nil {
		log.Error().Err(err).Msgf("game %s was interrupted by an agent failure", gameMetric.ID)
	}
	return winner, gameMetric, moveMetrics
}

// Ping checks that every agent server answers before a game starts.
func (e *RemoteEngine) Ping(ctx context.Context) error {
	errs := make([]error, 0, len(e.remotes))
	for _, remote := range e.remotes {
		errs = append(errs, remote.Ping(ctx))
	}
	return errors.Join(errs...)
}

// Err joins the errors of the latest request to each agent server.
func (e *RemoteEngine) Err() error {
	errs := make([]error, 0, len(e.remotes))
	for _, remote := range e.remotes {
		errs = append(errs, remote.Err())
	}
	return errors.Join(errs...)
}

// WithVisualHook posts the JSON snapshot of every new state to url, for an external visualizer.
func WithVisualHook(url string) Option {
	client := &http.Client{Timeout: time.Second}
	return WithObserver(func(state *game.GameState) {
		payload, err := json.Marshal(state.Snapshot())
		if err != nil {
			log.Error().Err(err).Msg("failed to encode snapshot")
			return
		}
		resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Warn().Err(err).Msgf("failed to push state to %s", url)
			return
		}
		resp.Body.Close()
	})
}
