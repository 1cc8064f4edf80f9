package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fiveinarow/experiments/metrics"
	"fiveinarow/searcher/agent"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunExperiment(t *testing.T) {
	root := t.TempDir()
	a := metrics.AgentConfig{ID: 1, Kind: "greedy", Bias: 100, BoardSize: 9}
	b := metrics.AgentConfig{ID: 2, Kind: "random", Seed: 5, BoardSize: 9}

	err := runExperiment(root, "smoke", []metrics.AgentConfig{a, b}, [][]metrics.AgentConfig{{a, b}}, 4)
	require.NoError(t, err)

	dirs, err := filepath.Glob(filepath.Join(root, "smoke", "*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	require.Len(t, readCSV(t, filepath.Join(dirs[0], "agent_configs.csv")), 3)

	games := readCSV(t, filepath.Join(dirs[0], "game_records.csv"))
	require.Len(t, games, 5)
	require.Equal(t, "1", games[1][2], "Agent 1 starts the first game")
	require.Equal(t, "2", games[2][2], "Starting agent alternates")

	moves := readCSV(t, filepath.Join(dirs[0], "move_records.csv"))
	require.Greater(t, len(moves), 4*9, "Every game on a 9x9 board lasts at least nine moves")
}

func TestCreateAgent(t *testing.T) {
	require.Implements(t, (*agent.Agent)(nil), createAgent(metrics.AgentConfig{Kind: "greedy"}, 1))
	require.Implements(t, (*agent.Agent)(nil), createAgent(metrics.AgentConfig{Kind: "sampling", Temperature: 1}, 1))
	require.Implements(t, (*agent.Agent)(nil), createAgent(metrics.AgentConfig{Kind: "random"}, 1))
	require.Panics(t, func() { createAgent(metrics.AgentConfig{Kind: "mcts"}, 1) })
}

func TestRunUnknown(t *testing.T) {
	require.ErrorContains(t, Run(t.TempDir(), "cutoff"), "unknown experiment")
}
