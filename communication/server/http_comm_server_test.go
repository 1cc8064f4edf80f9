package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fiveinarow/communication"
	"fiveinarow/game"
	"fiveinarow/storage"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// serveActions plays every placement for the side to move, standing in for a game master.
func serveActions(t *testing.T, sc *ServerCommunicator) {
	t.Helper()
	sc.UpdateGameState(game.NewGameState(9, 9, nil, game.Black))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		for {
			action, err := sc.ReceiveAction(ctx)
			if err != nil {
				return
			}
			var applyErr error
			switch action.Type {
			case communication.NewGameAction:
				sc.UpdateGameState(game.NewGameState(9, 9, nil, game.Black))
			case communication.PlaceAction:
				state, _ := sc.GetGameState(ctx)
				var next *game.GameState
				if next, applyErr = state.Play(action.Cell); applyErr == nil {
					sc.UpdateGameState(next)
				}
			}
			action.Reply <- applyErr
		}
	}()
}

type fakeArchive struct {
	records []storage.GameRecord
}

func (a fakeArchive) ListGames(ctx context.Context, limit int) ([]storage.GameRecord, error) {
	if limit < len(a.records) {
		return a.records[:limit], nil
	}
	return a.records, nil
}

func (a fakeArchive) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	for _, r := range a.records {
		if r.ID == id {
			return r, nil
		}
	}
	return storage.GameRecord{}, storage.ErrNotFound
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerHTTP(t *testing.T) {
	t.Run("no state before the game master starts", func(t *testing.T) {
		rec := do(t, NewServerCommunicator().Handler(), http.MethodGet, "/api/state", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("plays moves and reports errors", func(t *testing.T) {
		sc := NewServerCommunicator()
		serveActions(t, sc)
		handler := sc.Handler()

		rec := do(t, handler, http.MethodPost, "/api/move", `{"row": 4, "col": 4}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var snapshot game.Snapshot
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
		require.Equal(t, []game.Stone{{Row: 4, Col: 4, Owner: game.Black}}, snapshot.Stones)
		require.Equal(t, game.White, snapshot.CurrentPlayer)

		rec = do(t, handler, http.MethodPost, "/api/move", `{"row": 4, "col": 4}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "occupied")

		rec = do(t, handler, http.MethodPost, "/api/move", `{"row": 9, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, handler, http.MethodPost, "/api/move", `not json`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, handler, http.MethodPost, "/api/new", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
		require.Empty(t, snapshot.Stones)
	})

	t.Run("lists archived games", func(t *testing.T) {
		archive := fakeArchive{records: []storage.GameRecord{
			{ID: "a", Winner: game.White, Termination: storage.Five},
			{ID: "b", Termination: storage.Draw},
		}}
		handler := NewServerCommunicator(WithArchive(archive)).Handler()

		rec := do(t, handler, http.MethodGet, "/api/games?limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var games []storage.GameRecord
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&games))
		require.Len(t, games, 1)
		require.Equal(t, game.White, games[0].Winner)

		require.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/api/games/b", "").Code)
		require.Equal(t, http.StatusNotFound, do(t, handler, http.MethodGet, "/api/games/c", "").Code)
		require.Equal(t, http.StatusBadRequest, do(t, handler, http.MethodGet, "/api/games?limit=x", "").Code)
	})

	t.Run("archive endpoints need an archive", func(t *testing.T) {
		rec := do(t, NewServerCommunicator().Handler(), http.MethodGet, "/api/games", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func readState(t *testing.T, conn *websocket.Conn) game.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "error" {
			t.Fatalf("unexpected error message: %s", msg.Payload)
		}
		if msg.Type != "state" {
			continue
		}
		var snapshot game.Snapshot
		require.NoError(t, json.Unmarshal(msg.Payload, &snapshot))
		return snapshot
	}
}

func TestServerWebsocket(t *testing.T) {
	sc := NewServerCommunicator()
	serveActions(t, sc)
	httpServer := httptest.NewServer(sc.Handler())
	defer httpServer.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpServer.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	t.Run("sends the current state on connect", func(t *testing.T) {
		require.Empty(t, readState(t, conn).Stones)
	})

	t.Run("broadcasts moves made over HTTP", func(t *testing.T) {
		resp, err := http.Post(httpServer.URL+"/api/move", "application/json", strings.NewReader(`{"row": 1, "col": 2}`))
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, readState(t, conn).Stones, 1)
	})

	t.Run("accepts moves over the socket", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(wsMessage{Type: "move", Payload: mustMarshal(moveRequest{Row: 3, Col: 3})}))

		snapshot := readState(t, conn)
		require.Len(t, snapshot.Stones, 2)
		require.Equal(t, game.White, snapshot.Stones[1].Owner)
	})

	t.Run("reports rejected socket moves", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(wsMessage{Type: "move", Payload: mustMarshal(moveRequest{Row: 3, Col: 3})}))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "error", msg.Type)
		require.Contains(t, string(msg.Payload), "occupied")
	})
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusConflict, statusOf(game.ErrGameOver))
	require.Equal(t, http.StatusConflict, statusOf(game.ErrNotYourTurn))
	require.Equal(t, http.StatusBadRequest, statusOf(game.ErrOutOfBounds))
	require.Equal(t, http.StatusServiceUnavailable, statusOf(context.Canceled))
	require.Equal(t, http.StatusNotFound, statusOf(storage.ErrNotFound))
}
