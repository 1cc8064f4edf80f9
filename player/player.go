package player

import (
	"context"
	"errors"
	"time"

	"fiveinarow/communication"
	"fiveinarow/game"
	"fiveinarow/searcher/agent"

	"github.com/rs/zerolog/log"
)

const defaultPollInterval = 200 * time.Millisecond

// Player lets an agent occupy one seat of a game it reaches through a Communicator.
type Player struct {
	Side           game.Owner
	Agent          agent.Agent
	Communicator   communication.Communicator
	LocalGameState *game.GameState
	PollInterval   time.Duration
}

// NewPlayer creates a new Player instance.
func NewPlayer(side game.Owner, a agent.Agent, comm communication.Communicator) *Player {
	return &Player{
		Side:         side,
		Agent:        a,
		Communicator: comm,
		PollInterval: defaultPollInterval,
	}
}

// Play takes turns until the game is over and returns the winner.
// Between turns it waits for the next published state when the communicator can stream them,
// and polls otherwise.
func (p *Player) Play(ctx context.Context) (game.Owner, error) {
	var updates <-chan *game.GameState
	if w, ok := p.Communicator.(communication.Watcher); ok {
		var err error
		if updates, err = w.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("cannot watch the game, falling back to polling")
			updates = nil
		}
	}

	for {
		if err := p.SyncGameState(ctx); err != nil {
			return game.None, err
		}
		gs := p.LocalGameState
		if gs.IsOver() {
			log.Info().Msgf("%s player: game over, winner %s", p.Side, gs.Winner())
			return gs.Winner(), nil
		}

		if gs.Player() == p.Side {
			action, ok := p.TakeTurn()
			if !ok {
				log.Info().Msgf("%s player has no possible move", p.Side)
				return game.None, nil
			}
			err := p.Communicator.SendAction(ctx, action)
			switch {
			case err == nil:
				continue
			case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn):
				// The state moved on under us, sync again
				log.Debug().Err(err).Msgf("%s player move rejected", p.Side)
			default:
				return game.None, err
			}
		}

		if err := p.wait(ctx, updates); err != nil {
			return game.None, err
		}
	}
}

// SyncGameState updates the player's local game state.
func (p *Player) SyncGameState(ctx context.Context) error {
	gs, err := p.Communicator.GetGameState(ctx)
	if err != nil {
		return err
	}
	p.LocalGameState = gs
	return nil
}

// TakeTurn asks the agent for a move on the local game state.
func (p *Player) TakeTurn() (communication.Action, bool) {
	move, ok, metrics := p.Agent.FindMove(p.LocalGameState)
	if !ok {
		return communication.Action{}, false
	}
	log.Debug().Msgf("%s player chose (%d,%d) in %s", p.Side, move.Row, move.Col, metrics.Duration)
	return communication.Action{Type: communication.PlaceAction, Cell: move}, true
}

func (p *Player) wait(ctx context.Context, updates <-chan *game.GameState) error {
	if updates != nil {
		select {
		case _, ok := <-updates:
			if ok {
				return nil
			}
			// Stream closed, keep going by polling
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	select {
	case <-time.After(p.PollInterval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
