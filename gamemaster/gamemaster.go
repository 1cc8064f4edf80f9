package gamemaster

import (
	"context"
	"errors"

	"fiveinarow/communication"
	"fiveinarow/game"

	"github.com/rs/zerolog/log"
)

// GameMaster applies the actions arriving through a communicator to an engine
// and publishes every resulting state.
type GameMaster struct {
	Communicator communication.Host
	Engine       Engine

	getUpdate UpdateGetter
	published *game.GameState
}

// NewGameMaster initializes a new GameMaster.
func NewGameMaster(comm communication.Host, engine Engine) *GameMaster {
	return &GameMaster{
		Communicator: comm,
		Engine:       engine,
	}
}

// InitializeGame starts a new game and publishes its initial state.
func (gm *GameMaster) InitializeGame() {
	state, getUpdate := gm.Engine.Init()
	gm.getUpdate = getUpdate
	gm.published = nil
	gm.publish(state)
	// The AI may already have opened
	gm.publishUpdates()
}

// RunGame serves actions in arrival order until ctx is cancelled.
func (gm *GameMaster) RunGame(ctx context.Context) error {
	if gm.getUpdate == nil {
		gm.InitializeGame()
	}
	for {
		action, err := gm.Communicator.ReceiveAction(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		err = gm.handle(action)
		if err != nil {
			log.Debug().Err(err).Msgf("rejected %+v", action.Cell)
		}
		if action.Reply != nil {
			action.Reply <- err
		}
	}
}

func (gm *GameMaster) handle(action communication.Action) error {
	switch action.Type {
	case communication.NewGameAction:
		gm.InitializeGame()
		return nil
	case communication.PlaceAction:
		if err := gm.Engine.Play(action.Cell); err != nil {
			return err
		}
		gm.publishUpdates()
		return nil
	}
	return errors.New("unknown action")
}

// publishUpdates forwards every pending update in order, then the final state
// in case the game ended without a new stone.
func (gm *GameMaster) publishUpdates() {
	for u, ok := gm.getUpdate(); ok; u, ok = gm.getUpdate() {
		gm.publish(u.State)
	}
	gm.publish(gm.Engine.State())
}

// publish skips states that are already published.
func (gm *GameMaster) publish(state *game.GameState) {
	if gm.published != nil && state.Hash() == gm.published.Hash() && state.Drawn == gm.published.Drawn {
		return
	}
	gm.published = state
	gm.Communicator.UpdateGameState(state)
}
