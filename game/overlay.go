package game

// overlay attributes a single cell to an owner and defers every other lookup to base.
type overlay struct {
	base  Board
	cell  Cell
	owner Owner
}

func (o overlay) Rows() int {
	return o.base.Rows()
}

func (o overlay) Cols() int {
	return o.base.Cols()
}

func (o overlay) InBounds(row, col int) bool {
	return o.base.InBounds(row, col)
}

func (o overlay) StoneAt(row, col int) (Stone, bool) {
	if row == o.cell.Row && col == o.cell.Col && o.InBounds(row, col) {
		if o.owner == None {
			return Stone{}, false
		}
		return Stone{Row: row, Col: col, Owner: o.owner}, true
	}
	return o.base.StoneAt(row, col)
}

func (o overlay) OwnerAt(row, col int) Owner {
	if row == o.cell.Row && col == o.cell.Col && o.InBounds(row, col) {
		return o.owner
	}
	return o.base.OwnerAt(row, col)
}

func (o overlay) EmptyCells() []Cell {
	base := o.base.EmptyCells()
	empty := make([]Cell, 0, len(base))
	for _, c := range base {
		if c == o.cell && o.owner != None {
			continue
		}
		empty = append(empty, c)
	}
	return empty
}

func (o overlay) WithHypothetical(cell Cell, owner Owner) Board {
	return overlay{base: o, cell: cell, owner: owner}
}
