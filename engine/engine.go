package engine

import (
	"fiveinarow/experiments/metrics"
	"fiveinarow/game"
)

type Engine interface {
	// Run plays a game till there's a winner, a draw, or the turn cap is reached
	Run() (winner game.Owner, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
