package searcher

import "fiveinarow/game"

type Axis int

const (
	Horizontal Axis = iota
	Vertical
	Diagonal     // top-left to bottom-right
	AntiDiagonal // bottom-left to top-right
)

var AllAxes = []Axis{Horizontal, Vertical, Diagonal, AntiDiagonal}

func (a Axis) String() string {
	return [...]string{"horizontal", "vertical", "diagonal", "anti-diagonal"}[a]
}

// step returns the (row, col) increment for walking forward along the axis.
func (a Axis) step() (int, int) {
	s := game.Axes[a]
	return s[0], s[1]
}

// Run is a contiguous line of same-owner stones through a cell.
type Run struct {
	Count     int
	DeathEnds int // Ends blocked by an opposing stone; board edges do not count
}

func (r Run) Pattern() Pattern {
	return Classify(r.Count, r.DeathEnds)
}

// Scan places a hypothetical owner stone at cell and measures the run through it along axis.
func Scan(board game.Board, cell game.Cell, owner game.Owner, axis Axis) Run {
	if owner == game.None {
		return Run{}
	}
	view := board.WithHypothetical(cell, owner)
	dr, dc := axis.step()

	run := Run{}
	for _, sign := range [2]int{-1, 1} {
		row, col := cell.Row, cell.Col
		for view.OwnerAt(row, col) == owner {
			run.Count++
			row += sign * dr
			col += sign * dc
		}
		if view.OwnerAt(row, col) != game.None {
			run.DeathEnds++
		}
	}
	// Both walks counted the origin
	run.Count--
	return run
}

// DirectionalScore is the table value of the run through cell along axis.
func DirectionalScore(board game.Board, cell game.Cell, owner game.Owner, axis Axis) int {
	return Scan(board, cell, owner, axis).Pattern().Score()
}

// ScoreFor sums the directional scores over all four axes.
func ScoreFor(board game.Board, cell game.Cell, owner game.Owner) int {
	score := 0
	for _, axis := range AllAxes {
		score += DirectionalScore(board, cell, owner, axis)
	}
	return score
}
