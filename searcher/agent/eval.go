package agent

import (
	"fiveinarow/game"
	"fiveinarow/searcher"
)

type evaluationAgent struct {
	selector searcher.Selector
}

// NewEvaluationAgent returns the deterministic agent used for actual game play.
func NewEvaluationAgent(selector searcher.Selector) Agent {
	return evaluationAgent{selector: selector}
}

func (a evaluationAgent) FindMove(state *game.GameState) (game.Cell, bool, searcher.SearchMetrics) {
	ai := state.Player()
	move, ok := a.selector.SelectMove(state.Board, ai, ai.Opponent())

	var metrics searcher.SearchMetrics
	if m, measured := a.selector.(interface{ LastMetrics() searcher.SearchMetrics }); measured {
		metrics = m.LastMetrics()
	}
	return move, ok, metrics
}
