package metrics

import (
	"time"

	"fiveinarow/game"
	"fiveinarow/searcher"
)

type MoveMetric struct {
	Step   int
	Player game.Owner
	Move   game.Cell
	searcher.SearchMetrics
}

type GameMetric struct {
	ID             string // Game UUID
	StartingPlayer game.Owner
	Winner         game.Owner // None for draws and unfinished games
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID          int
	Kind        string // "greedy", "sampling" or "random"
	Bias        int
	Temperature float64
	Seed        uint64
	BoardSize   int // Side of a square board, 0 for the default board
}

type Collector interface {
	Start(id string, starting game.Owner)
	AddMove(player game.Owner, move game.Cell, search searcher.SearchMetrics)
	Complete(winner game.Owner) (GameMetric, []MoveMetric)
}

type collector struct {
	game  GameMetric
	moves []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(id string, starting game.Owner) {
	c.game = GameMetric{
		ID:             id,
		StartingPlayer: starting,
		StartTime:      time.Now(),
	}
	c.moves = nil
}

func (c *collector) AddMove(player game.Owner, move game.Cell, search searcher.SearchMetrics) {
	c.moves = append(c.moves, MoveMetric{
		Step:          len(c.moves) + 1,
		Player:        player,
		Move:          move,
		SearchMetrics: search,
	})
}

func (c *collector) Complete(winner game.Owner) (GameMetric, []MoveMetric) {
	c.game.EndTime = time.Now()
	c.game.Duration = c.game.EndTime.Sub(c.game.StartTime)
	c.game.Winner = winner
	c.game.TotalMoves = len(c.moves)
	return c.game, c.moves
}
