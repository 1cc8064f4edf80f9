package game

import "errors"

// Owner identifies which side a stone belongs to.
type Owner int

const (
	None Owner = iota
	Black
	White
)

func (o Owner) String() string {
	switch o {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// Opponent returns the other side. None has no opponent.
func (o Owner) Opponent() Owner {
	switch o {
	case Black:
		return White
	case White:
		return Black
	default:
		return None
	}
}

// Cell is a grid coordinate, used both as a stone location and as a candidate move.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Stone is a placed marker. Stones are never moved or removed during a game.
type Stone struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Owner Owner `json:"owner"`
}

func (s Stone) Cell() Cell {
	return Cell{Row: s.Row, Col: s.Col}
}

type StateHash uint64

// Board is a read-only view of the stones on an R×C grid.
type Board interface {
	Rows() int
	Cols() int
	InBounds(row, col int) bool
	StoneAt(row, col int) (Stone, bool)
	// OwnerAt returns None for empty and off-board cells
	OwnerAt(row, col int) Owner
	// EmptyCells lists the unoccupied cells in row-major order
	EmptyCells() []Cell
	// WithHypothetical returns a view where cell belongs to owner. The receiver is unchanged.
	WithHypothetical(cell Cell, owner Owner) Board
}

var (
	ErrInvalidBoardState = errors.New("invalid board state")
	ErrOutOfBounds       = errInvalid("cell out of bounds")
	ErrOccupied          = errInvalid("cell already occupied")
	ErrGameOver          = errors.New("game is over - no moves allowed")
	ErrNotYourTurn       = errors.New("not your turn")
)

type invalidBoardError struct {
	msg string
}

func errInvalid(msg string) error {
	return &invalidBoardError{msg: msg}
}

func (e *invalidBoardError) Error() string {
	return e.msg
}

func (e *invalidBoardError) Unwrap() error {
	return ErrInvalidBoardState
}
