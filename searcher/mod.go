package searcher

import "fiveinarow/game"

// Bias is added to every candidate's score so that, at equal raw strength, the
// selector prefers building its own line over blocking.
const Bias = 100

// Pattern values. The thresholds are tuning constants; changing them changes playing strength.
const (
	LevelDead  = 0
	LevelTwo   = 1      // blocked one, blocked two
	LevelThree = 1500   // open two, blocked three
	LevelFour  = 4000   // open three, blocked four
	LevelFive  = 10000  // open four
	LevelSix   = 100000 // five in a row
)

type Selector interface {
	// SelectMove returns the best empty cell for ai, or false when the board is full.
	SelectMove(board game.Board, ai, human game.Owner) (game.Cell, bool)
}

// Candidate is an empty cell with its composite score.
type Candidate struct {
	Cell  game.Cell `json:"cell"`
	Score int       `json:"score"`
}
