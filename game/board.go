package game

import (
	"fmt"

	"fiveinarow/meta"
)

// Grid is the concrete board owned by the host. Cells are indexed by row*cols+col
// so lookups during evaluation are constant time.
type Grid struct {
	rows   int
	cols   int
	cells  []Owner
	stones []Stone // Placement order
}

// CheckDimensions rejects boards with a side outside 1..meta.MaxSize.
func CheckDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 || rows > meta.MaxSize || cols > meta.MaxSize {
		return fmt.Errorf("%w: dimensions %dx%d, each side must be within 1..%d", ErrInvalidBoardState, rows, cols, meta.MaxSize)
	}
	return nil
}

// NewGrid returns an empty rows×cols board. It panics on dimensions CheckDimensions rejects.
func NewGrid(rows, cols int) *Grid {
	if err := CheckDimensions(rows, cols); err != nil {
		panic(err.Error())
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Owner, rows*cols),
	}
}

// NewGridFromStones builds a board from a stone list supplied by a collaborator.
// Out-of-range, duplicate, or ownerless stones are rejected.
func NewGridFromStones(rows, cols int, stones []Stone) (*Grid, error) {
	if err := CheckDimensions(rows, cols); err != nil {
		return nil, err
	}
	g := NewGrid(rows, cols)
	for _, s := range stones {
		if err := g.Place(s); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Place appends a stone to the board.
func (g *Grid) Place(s Stone) error {
	if s.Owner != Black && s.Owner != White {
		return fmt.Errorf("%w: stone at (%d,%d) has no owner", ErrInvalidBoardState, s.Row, s.Col)
	}
	if !g.InBounds(s.Row, s.Col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfBounds, s.Row, s.Col, g.rows, g.cols)
	}
	i := g.index(s.Row, s.Col)
	if g.cells[i] != None {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, s.Row, s.Col)
	}
	g.cells[i] = s.Owner
	g.stones = append(g.stones, s)
	return nil
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.rows && col < g.cols
}

func (g *Grid) StoneAt(row, col int) (Stone, bool) {
	owner := g.OwnerAt(row, col)
	if owner == None {
		return Stone{}, false
	}
	return Stone{Row: row, Col: col, Owner: owner}, true
}

func (g *Grid) OwnerAt(row, col int) Owner {
	if !g.InBounds(row, col) {
		return None
	}
	return g.cells[g.index(row, col)]
}

func (g *Grid) EmptyCells() []Cell {
	empty := make([]Cell, 0, len(g.cells)-len(g.stones))
	for i, owner := range g.cells {
		if owner == None {
			empty = append(empty, Cell{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return empty
}

func (g *Grid) WithHypothetical(cell Cell, owner Owner) Board {
	return overlay{base: g, cell: cell, owner: owner}
}

// Stones returns a copy of the placed stones in placement order.
func (g *Grid) Stones() []Stone {
	stones := make([]Stone, len(g.stones))
	copy(stones, g.stones)
	return stones
}

func (g *Grid) Len() int {
	return len(g.stones)
}

func (g *Grid) Full() bool {
	return len(g.stones) == len(g.cells)
}

func (g *Grid) Clone() *Grid {
	cells := make([]Owner, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		rows:   g.rows,
		cols:   g.cols,
		cells:  cells,
		stones: g.Stones(),
	}
}

// String renders the board with '.' for empty, 'x' for black and 'o' for white.
func (g *Grid) String() string {
	out := make([]byte, 0, (g.cols+1)*g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			switch g.cells[g.index(row, col)] {
			case Black:
				out = append(out, 'x')
			case White:
				out = append(out, 'o')
			default:
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}
