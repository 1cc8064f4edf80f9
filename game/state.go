package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// GameState is the state of one game. Play never mutates the receiver; it returns a new state.
type GameState struct {
	Board         *Grid
	Rules         Rules
	CurrentPlayer Owner  // Side to move
	LastMove      *Stone // nil before the first move
	Won           Owner  // None while no one has five
	Drawn         bool
}

// NewGameState returns an empty rows×cols game with first to move. Like NewGrid it panics
// on bad dimensions, so outside input goes through RestoreGameState.
func NewGameState(rows, cols int, rules Rules, first Owner) *GameState {
	if rules == nil {
		rules = NewStandardRules()
	}
	if first == None {
		first = Black
	}
	return &GameState{
		Board:         NewGrid(rows, cols),
		Rules:         rules,
		CurrentPlayer: first,
	}
}

// RestoreGameState rebuilds a game from a stone list in placement order.
func RestoreGameState(rows, cols int, rules Rules, first Owner, stones []Stone) (*GameState, error) {
	if err := CheckDimensions(rows, cols); err != nil {
		return nil, err
	}
	gs := NewGameState(rows, cols, rules, first)
	for _, s := range stones {
		if s.Owner != gs.CurrentPlayer {
			return nil, fmt.Errorf("%w: stone at (%d,%d) played out of turn by %s", ErrInvalidBoardState, s.Row, s.Col, s.Owner)
		}
		next, err := gs.Play(s.Cell())
		if err != nil {
			return nil, err
		}
		gs = next
	}
	return gs, nil
}

func (gs GameState) Copy() *GameState {
	var last *Stone
	if gs.LastMove != nil {
		s := *gs.LastMove
		last = &s
	}
	return &GameState{
		Board:         gs.Board.Clone(),
		Rules:         gs.Rules, // Rules are immutable
		CurrentPlayer: gs.CurrentPlayer,
		LastMove:      last,
		Won:           gs.Won,
		Drawn:         gs.Drawn,
	}
}

func (gs GameState) Player() Owner {
	return gs.CurrentPlayer
}

func (gs GameState) Winner() Owner {
	return gs.Won
}

func (gs GameState) IsOver() bool {
	return gs.Won != None || gs.Drawn
}

func (gs GameState) MoveCount() int {
	return gs.Board.Len()
}

func (gs GameState) LegalMoves() []Cell {
	if gs.IsOver() {
		return nil
	}
	return gs.Board.EmptyCells()
}

// Play places the current player's stone at cell, then checks for a win and a draw.
func (gs GameState) Play(cell Cell) (*GameState, error) {
	if gs.IsOver() {
		return nil, ErrGameOver
	}
	newGs := gs.Copy()
	stone := Stone{Row: cell.Row, Col: cell.Col, Owner: gs.CurrentPlayer}
	if err := newGs.Board.Place(stone); err != nil {
		return nil, err
	}
	newGs.LastMove = &stone

	if newGs.Rules.IsWin(newGs.Board, stone) {
		newGs.Won = stone.Owner
	} else if newGs.Rules.IsDraw(newGs.Board) {
		newGs.Drawn = true
	}
	newGs.CurrentPlayer = gs.CurrentPlayer.Opponent()

	return newGs, nil
}

// WinningLine returns the five (or more) cells that ended the game, if any.
func (gs GameState) WinningLine() []Cell {
	if gs.Won == None || gs.LastMove == nil {
		return nil
	}
	return gs.Rules.WinningLine(gs.Board, *gs.LastMove)
}

func (gs GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.Board.Rows()))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Board.Cols()))
	binary.Write(hasher, binary.LittleEndian, int64(gs.CurrentPlayer))

	// Hash stones in placement order
	for _, s := range gs.Board.stones {
		binary.Write(hasher, binary.LittleEndian, int64(s.Row))
		binary.Write(hasher, binary.LittleEndian, int64(s.Col))
		binary.Write(hasher, binary.LittleEndian, int64(s.Owner))
	}

	return StateHash(hasher.Sum64())
}
