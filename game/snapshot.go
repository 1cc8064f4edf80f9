package game

import "fmt"

// Snapshot is the wire form of a game shared with browsers and agents.
type Snapshot struct {
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Stones        []Stone `json:"stones"`
	CurrentPlayer Owner   `json:"currentPlayer"`
	Winner        Owner   `json:"winner"`
	Drawn         bool    `json:"drawn"`
	WinningLine   []Cell  `json:"winningLine,omitempty"`
}

func (gs GameState) Snapshot() Snapshot {
	return Snapshot{
		Rows:          gs.Board.Rows(),
		Cols:          gs.Board.Cols(),
		Stones:        gs.Board.Stones(),
		CurrentPlayer: gs.CurrentPlayer,
		Winner:        gs.Won,
		Drawn:         gs.Drawn,
		WinningLine:   gs.WinningLine(),
	}
}

// FromSnapshot rebuilds a game by replaying the snapshot's stones.
func FromSnapshot(s Snapshot, rules Rules) (*GameState, error) {
	first := s.CurrentPlayer
	if len(s.Stones) > 0 {
		first = s.Stones[0].Owner
	}
	gs, err := RestoreGameState(s.Rows, s.Cols, rules, first, s.Stones)
	if err != nil {
		return nil, err
	}
	if gs.CurrentPlayer != s.CurrentPlayer && !gs.IsOver() {
		return nil, fmt.Errorf("%w: snapshot says %s to move", ErrInvalidBoardState, s.CurrentPlayer)
	}
	// A host may end a game as a draw before the board is full
	gs.Drawn = gs.Drawn || s.Drawn
	return gs, nil
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*o = Black
	case "white":
		*o = White
	case "none", "":
		*o = None
	default:
		return fmt.Errorf("unknown owner %q", text)
	}
	return nil
}
