package game

type StandardRules struct {
	Length int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		Length: 5,
	}
}

// IsWin reports whether last completes a run of at least Length stones. Only a window
// of Length-1 cells on either side of the move is inspected.
func (sr *StandardRules) IsWin(board Board, last Stone) bool {
	return len(sr.WinningLine(board, last)) > 0
}

// WinningLine returns the cells of the first winning run through last, or nil.
func (sr *StandardRules) WinningLine(board Board, last Stone) []Cell {
	if last.Owner == None || board.OwnerAt(last.Row, last.Col) != last.Owner {
		return nil
	}
	reach := sr.Length - 1
	for _, axis := range Axes {
		dr, dc := axis[0], axis[1]
		// Walk the window from one end to the other tracking the run that contains the move
		var run []Cell
		for i := -reach; i <= reach; i++ {
			row, col := last.Row+i*dr, last.Col+i*dc
			if board.OwnerAt(row, col) == last.Owner {
				run = append(run, Cell{Row: row, Col: col})
				continue
			}
			if i > 0 {
				break
			}
			run = run[:0]
		}
		if len(run) >= sr.Length {
			return run
		}
	}
	return nil
}

func (sr *StandardRules) IsDraw(board Board) bool {
	if g, ok := board.(*Grid); ok {
		return g.Full()
	}
	return len(board.EmptyCells()) == 0
}
