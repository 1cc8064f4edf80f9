package experiments

import (
	"fiveinarow/experiments/metrics"
	"fiveinarow/searcher"
)

var boardSizes = []int{9, 15, 19, 25, 31}

// RunThroughputExperiment measures how move selection time grows with the board size.
// Each size plays greedy against itself, the move records carry the selection durations.
func RunThroughputExperiment(root string) error {
	const NumGames = 2 // Per board size, one per starting agent

	configs := []metrics.AgentConfig{}
	matchUps := [][]metrics.AgentConfig{}
	for i, size := range boardSizes {
		config := metrics.AgentConfig{ID: i + 1, Kind: "greedy", Bias: searcher.Bias, BoardSize: size}
		configs = append(configs, config)
		// Same config for both players for the same playing strength
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	return runExperiment(root, "throughput", configs, matchUps, NumGames)
}
