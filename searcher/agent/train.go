package agent

import (
	"math"

	"fiveinarow/game"
	"fiveinarow/searcher"

	"golang.org/x/exp/rand"
)

// candidatePool bounds how many top candidates a sampling agent draws from.
const candidatePool = 8

type samplingAgent struct {
	greedy      *searcher.Greedy
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples among the best candidates in proportion
// to their temperature-adjusted scores. It produces varied games for self-play experiments.
func NewSamplingAgent(greedy *searcher.Greedy, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &samplingAgent{
		greedy:      greedy,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *samplingAgent) FindMove(state *game.GameState) (game.Cell, bool, searcher.SearchMetrics) {
	ai := state.Player()
	candidates := a.greedy.Rank(state.Board, ai, ai.Opponent(), candidatePool)
	if len(candidates) == 0 {
		return game.Cell{}, false, a.greedy.LastMetrics()
	}
	policy := adjustTemperature(candidates, a.temperature)
	return candidates[sample(policy, a.rng.Float64())].Cell, true, a.greedy.LastMetrics()
}

// adjustTemperature turns scores into probabilities; lower temperatures favor the best candidates.
func adjustTemperature(candidates []searcher.Candidate, temperature float64) []float64 {
	best := float64(candidates[0].Score)
	if best <= 0 {
		best = 1
	}
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(candidates))
	for i, c := range candidates {
		prob := math.Pow(math.Max(float64(c.Score), 0)/best, exponent)
		sum += prob
		policy[i] = prob
	}
	if sum == 0 {
		// Every score is non-positive, fall back to uniform
		for i := range policy {
			policy[i] = 1 / float64(len(policy))
		}
		return policy
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random empty cell.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state *game.GameState) (game.Cell, bool, searcher.SearchMetrics) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Cell{}, false, searcher.SearchMetrics{}
	}
	return moves[a.rng.Intn(len(moves))], true, searcher.SearchMetrics{}
}
