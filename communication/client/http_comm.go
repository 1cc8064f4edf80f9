package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fiveinarow/communication"
	"fiveinarow/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ClientCommunicator talks to a game server over HTTP.
type ClientCommunicator struct {
	serverURL string
	client    *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (cc *ClientCommunicator) GetGameState(ctx context.Context) (*game.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/api/state", nil)
	if err != nil {
		return nil, err
	}
	var snapshot game.Snapshot
	if err := cc.do(req, &snapshot); err != nil {
		return nil, err
	}
	return game.FromSnapshot(snapshot, nil)
}

func (cc *ClientCommunicator) SendAction(ctx context.Context, action communication.Action) error {
	var path string
	var body any
	switch action.Type {
	case communication.PlaceAction:
		path, body = "/api/move", map[string]int{"row": action.Cell.Row, "col": action.Cell.Col}
	case communication.NewGameAction:
		path, body = "/api/new", struct{}{}
	default:
		return fmt.Errorf("unknown action type %d", action.Type)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return cc.do(req, nil)
}

// Watch subscribes to the server's websocket and decodes every state it publishes.
// The channel closes when ctx is cancelled or the connection drops.
func (cc *ClientCommunicator) Watch(ctx context.Context) (<-chan *game.GameState, error) {
	wsURL := "ws" + strings.TrimPrefix(cc.serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}

	states := make(chan *game.GameState, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(states)
		defer close(done)
		for {
			var msg struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "state" {
				continue
			}
			var snapshot game.Snapshot
			if err := json.Unmarshal(msg.Payload, &snapshot); err != nil {
				log.Warn().Err(err).Msg("bad state message")
				continue
			}
			gs, err := game.FromSnapshot(snapshot, nil)
			if err != nil {
				log.Warn().Err(err).Msg("inconsistent state message")
				continue
			}
			select {
			case states <- gs:
			case <-ctx.Done():
				return
			}
		}
	}()
	return states, nil
}

// do sends req and decodes a JSON answer into out, unless out is nil.
// Error answers are turned back into the matching game errors.
func (cc *ClientCommunicator) do(req *http.Request, out any) error {
	resp, err := cc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &body) != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(raw))
		}
		return errorOf(resp.StatusCode, body.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var knownErrors = []error{game.ErrOccupied, game.ErrOutOfBounds, game.ErrGameOver, game.ErrNotYourTurn}

func errorOf(status int, msg string) error {
	for _, known := range knownErrors {
		if strings.Contains(msg, known.Error()) {
			return fmt.Errorf("server: %w", known)
		}
	}
	return fmt.Errorf("server returned status %d: %s", status, msg)
}

var _ communication.Communicator = (*ClientCommunicator)(nil)
var _ communication.Watcher = (*ClientCommunicator)(nil)
