package searcher

import (
	"sort"

	"fiveinarow/game"

	"github.com/rs/zerolog/log"
)

type Option func(g *Greedy)

// WithBias replaces the constant added to every candidate score.
func WithBias(bias int) Option {
	return func(g *Greedy) {
		g.bias = bias
	}
}

func WithMetrics() Option {
	return func(g *Greedy) {
		g.metrics = NewMetricsCollector()
	}
}

// Greedy scores every empty cell once and plays the highest scoring one. There is no lookahead.
// A Greedy records metrics of its latest call and is not safe for concurrent use.
type Greedy struct {
	bias    int
	metrics MetricsCollector
	last    SearchMetrics
}

func NewGreedy(options ...Option) *Greedy {
	g := &Greedy{ // Default values
		bias:    Bias,
		metrics: NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *Greedy) Bias() int {
	return g.bias
}

// Judge is the composite score of playing cell: the ai's own line strength, the bias,
// and the strength the human would get there.
func (g *Greedy) Judge(board game.Board, cell game.Cell, ai, human game.Owner) int {
	return ScoreFor(board, cell, ai) + g.bias + ScoreFor(board, cell, human)
}

// SelectMove returns the first empty cell, in row-major order, with the maximum judge score.
// It reports false when the board has no empty cell.
func (g *Greedy) SelectMove(board game.Board, ai, human game.Owner) (game.Cell, bool) {
	g.metrics.Start()

	var best game.Cell
	bestScore := 0
	found := false
	for _, cell := range board.EmptyCells() {
		score := g.Judge(board, cell, ai, human)
		g.metrics.AddCandidate()
		if !found || score > bestScore {
			best, bestScore, found = cell, score, true
		}
	}

	g.last = g.metrics.Complete(bestScore)
	if !found {
		log.Debug().Msg("no empty cell left to play")
	}
	return best, found
}

// Rank returns up to limit candidates by descending score. Ties keep row-major order,
// so the first entry is always the cell SelectMove picks. A limit <= 0 returns all.
func (g *Greedy) Rank(board game.Board, ai, human game.Owner, limit int) []Candidate {
	g.metrics.Start()

	empty := board.EmptyCells()
	candidates := make([]Candidate, 0, len(empty))
	for _, cell := range empty {
		candidates = append(candidates, Candidate{Cell: cell, Score: g.Judge(board, cell, ai, human)})
		g.metrics.AddCandidate()
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	bestScore := 0
	if len(candidates) > 0 {
		bestScore = candidates[0].Score
	}
	g.last = g.metrics.Complete(bestScore)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// LastMetrics returns the metrics of the latest SelectMove or Rank call. They are zero unless
// the selector was built WithMetrics.
func (g *Greedy) LastMetrics() SearchMetrics {
	return g.last
}
