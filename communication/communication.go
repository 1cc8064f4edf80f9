package communication

import (
	"context"
	"fmt"

	"fiveinarow/game"
)

type ActionType int

const (
	PlaceAction ActionType = iota
	NewGameAction
)

func (t ActionType) MarshalText() ([]byte, error) {
	switch t {
	case PlaceAction:
		return []byte("place"), nil
	case NewGameAction:
		return []byte("new"), nil
	}
	return nil, fmt.Errorf("unknown action type %d", t)
}

func (t *ActionType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "place":
		*t = PlaceAction
	case "new":
		*t = NewGameAction
	default:
		return fmt.Errorf("unknown action type %q", text)
	}
	return nil
}

// Action is a request from a seat to the game master.
type Action struct {
	Type ActionType `json:"type"`
	Cell game.Cell  `json:"cell"` // Only for PlaceAction
	// Reply receives the outcome once the game master has applied the action
	Reply chan<- error `json:"-"`
}

// Communicator is an interface that abstracts the communication mechanism between a seat and the game.
type Communicator interface {
	GetGameState(ctx context.Context) (*game.GameState, error)
	// SendAction blocks until the action has been applied or rejected
	SendAction(ctx context.Context, action Action) error
}

// Host is the game master's end of a Communicator.
type Host interface {
	Communicator
	UpdateGameState(gs *game.GameState)
	ReceiveAction(ctx context.Context) (Action, error)
}

// Watcher streams every published state.
type Watcher interface {
	Watch(ctx context.Context) (<-chan *game.GameState, error)
}
