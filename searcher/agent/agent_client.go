package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fiveinarow/game"
	"fiveinarow/searcher"
)

var ErrNoResponse = errors.New("agent server did not answer")

// RemoteAgent asks an agent server for its moves.
type RemoteAgent struct {
	url    string
	client *http.Client
	err    error
}

func NewRemoteAgent(url string, timeout time.Duration) *RemoteAgent {
	return &RemoteAgent{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// FindMove reports ok=false both for a full board and for a failed request. Err tells them apart.
func (a *RemoteAgent) FindMove(state *game.GameState) (game.Cell, bool, searcher.SearchMetrics) {
	start := time.Now()
	ai := state.Player()
	req := FindMoveRequest{
		Rows:   state.Board.Rows(),
		Cols:   state.Board.Cols(),
		Stones: state.Board.Stones(),
		AI:     ai,
		Human:  ai.Opponent(),
	}

	var resp FindMoveResponse
	a.err = a.post(context.Background(), "/findmove", req, &resp)
	metrics := searcher.SearchMetrics{StartTime: start, Duration: time.Since(start)}
	if a.err != nil || !resp.OK || resp.Cell == nil {
		return game.Cell{}, false, metrics
	}
	return *resp.Cell, true, metrics
}

// Err returns the error of the latest FindMove call.
func (a *RemoteAgent) Err() error {
	return a.err
}

func (a *RemoteAgent) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}

func (a *RemoteAgent) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
