package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fiveinarow/communication"
	"fiveinarow/communication/server"
	"fiveinarow/game"
	"fiveinarow/gamemaster"
	"fiveinarow/searcher"
	"fiveinarow/searcher/agent"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	comm := server.NewServerCommunicator()
	engine := gamemaster.NewLocalEngine(agent.NewEvaluationAgent(searcher.NewGreedy()), gamemaster.WithSize(9, 9))
	gm := gamemaster.NewGameMaster(comm, engine)
	gm.InitializeGame()

	ctx, cancel := context.WithCancel(context.Background())
	go gm.RunGame(ctx)
	httpServer := httptest.NewServer(comm.Handler())
	t.Cleanup(func() {
		httpServer.Close()
		cancel()
	})
	return httpServer.URL
}

func TestClientCommunicator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cc := NewClientCommunicator(startServer(t) + "/")

	t.Run("reads the game state", func(t *testing.T) {
		state, err := cc.GetGameState(ctx)

		require.NoError(t, err)
		require.Equal(t, 9, state.Board.Rows())
		require.Equal(t, game.Black, state.Player())
	})

	t.Run("places a stone and sees the agent answer", func(t *testing.T) {
		err := cc.SendAction(ctx, communication.Action{Type: communication.PlaceAction, Cell: game.Cell{Row: 4, Col: 4}})
		require.NoError(t, err)

		state, err := cc.GetGameState(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, state.MoveCount())
		require.Equal(t, game.Black, state.Board.OwnerAt(4, 4))
	})

	t.Run("maps server errors back to game errors", func(t *testing.T) {
		err := cc.SendAction(ctx, communication.Action{Type: communication.PlaceAction, Cell: game.Cell{Row: 4, Col: 4}})
		require.ErrorIs(t, err, game.ErrOccupied)

		err = cc.SendAction(ctx, communication.Action{Type: communication.PlaceAction, Cell: game.Cell{Row: -1, Col: 4}})
		require.ErrorIs(t, err, game.ErrOutOfBounds)
	})

	t.Run("watches published states", func(t *testing.T) {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		states, err := cc.Watch(watchCtx)
		require.NoError(t, err)

		initial := <-states
		require.Equal(t, 2, initial.MoveCount())

		require.NoError(t, cc.SendAction(ctx, communication.Action{Type: communication.NewGameAction}))
		restarted := <-states
		require.Zero(t, restarted.MoveCount())

		stop()
		for range states {
		}
	})
}

func TestWatchDroppedConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ws := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteJSON(map[string]any{"type": "state", "payload": game.Snapshot{Rows: 0, Cols: 0, CurrentPlayer: game.Black}})
		conn.WriteJSON(map[string]any{"type": "state", "payload": game.NewGameState(9, 9, nil, game.Black).Snapshot()})
	}))
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	states, err := NewClientCommunicator(ws.URL).Watch(ctx)
	require.NoError(t, err)

	gs, ok := <-states
	require.True(t, ok, "Malformed snapshots should be skipped")
	require.Equal(t, 9, gs.Board.Rows())

	select {
	case _, ok := <-states:
		require.False(t, ok, "Stream should close when the server drops the connection")
	case <-ctx.Done():
		t.Fatal("stream stayed open after the connection dropped")
	}
	require.NoError(t, ctx.Err(), "Stream should close before the context ends")
}

func TestErrorOf(t *testing.T) {
	require.ErrorIs(t, errorOf(409, "game is over - no moves allowed"), game.ErrGameOver)
	require.EqualError(t, errorOf(500, "boom"), "server returned status 500: boom")
}
