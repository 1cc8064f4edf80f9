package agent

import (
	"fiveinarow/game"
	"fiveinarow/searcher"
)

type Agent interface {
	// FindMove returns a move for the side to move in state and the search metrics (if collected).
	// ok is false when the board has no empty cell.
	FindMove(state *game.GameState) (move game.Cell, ok bool, metrics searcher.SearchMetrics)
}
