package player

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"fiveinarow/communication/client"
	"fiveinarow/communication/server"
	"fiveinarow/game"
	"fiveinarow/gamemaster"
	"fiveinarow/searcher"
	"fiveinarow/searcher/agent"

	"github.com/stretchr/testify/require"
)

func hostGame(t *testing.T, options ...gamemaster.Option) *server.ServerCommunicator {
	t.Helper()
	comm := server.NewServerCommunicator()
	engine := gamemaster.NewLocalEngine(agent.NewEvaluationAgent(searcher.NewGreedy()), options...)
	gm := gamemaster.NewGameMaster(comm, engine)
	gm.InitializeGame()

	ctx, cancel := context.WithCancel(context.Background())
	go gm.RunGame(ctx)
	t.Cleanup(cancel)
	return comm
}

func TestPlayer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("plays a full game in process", func(t *testing.T) {
		comm := hostGame(t, gamemaster.WithSize(9, 9))
		p := NewPlayer(game.Black, agent.NewEvaluationAgent(searcher.NewGreedy()), comm)

		winner, err := p.Play(ctx)

		require.NoError(t, err)
		state, err := comm.GetGameState(ctx)
		require.NoError(t, err)
		require.True(t, state.IsOver())
		require.Equal(t, state.Winner(), winner)
	})

	t.Run("plays over HTTP while watching the socket", func(t *testing.T) {
		comm := hostGame(t, gamemaster.WithSize(9, 9), gamemaster.WithAIFirst())
		httpServer := httptest.NewServer(comm.Handler())
		defer httpServer.Close()
		p := NewPlayer(game.Black, agent.NewRandomAgent(11), client.NewClientCommunicator(httpServer.URL))

		_, err := p.Play(ctx)

		require.NoError(t, err)
		require.True(t, p.LocalGameState.IsOver())
		require.Equal(t, game.White, p.LocalGameState.Board.OwnerAt(0, 0), "Agent opened the game")
	})

	t.Run("fails without a game", func(t *testing.T) {
		p := NewPlayer(game.Black, agent.NewRandomAgent(1), server.NewServerCommunicator())

		_, err := p.Play(ctx)

		require.Error(t, err)
	})
}

func TestTakeTurn(t *testing.T) {
	p := NewPlayer(game.Black, agent.NewEvaluationAgent(searcher.NewGreedy()), nil)
	p.LocalGameState = game.NewGameState(9, 9, nil, game.Black)

	action, ok := p.TakeTurn()

	require.True(t, ok)
	require.Equal(t, game.Cell{Row: 0, Col: 0}, action.Cell)
}
