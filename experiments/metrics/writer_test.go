package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fiveinarow/game"
	"fiveinarow/searcher"

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

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "bias")
	require.NoError(t, err)

	t.Run("writes agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{{ID: 1, Kind: "greedy", Bias: 100}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, [][]string{
			{"id", "kind", "bias", "temperature", "seed", "board_size"},
			{"1", "greedy", "100", "0", "0", "0"},
		}, rows)
	})

	t.Run("writes game and move records", func(t *testing.T) {
		c := NewCollector()
		c.Start("game-1", game.Black)
		c.AddMove(game.Black, game.Cell{Row: 7, Col: 7}, searcher.SearchMetrics{Candidates: 225, BestScore: 100})
		c.AddMove(game.White, game.Cell{Row: 7, Col: 8}, searcher.SearchMetrics{Duration: time.Millisecond})
		gm, moves := c.Complete(game.White)

		require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 2, GameMetric: gm}}))
		records := make([]MoveRecord, len(moves))
		for i, m := range moves {
			records[i] = MoveRecord{Game: 1, MoveMetric: m}
		}
		require.NoError(t, w.WriteMoveRecords(records))

		gameRows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, gameRows, 2)
		require.Equal(t, []string{"1", "game-1", "1", "2", "black", "white"}, gameRows[1][:6])
		require.Equal(t, "2", gameRows[1][9], "Total moves")

		moveRows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Equal(t, []string{"1", "1", "black", "7", "7", "0s", "225", "100"}, moveRows[1])
		require.Equal(t, []string{"1", "2", "white", "7", "8", "1ms", "0", "0"}, moveRows[2])
	})
}
