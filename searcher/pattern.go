package searcher

// Pattern is the shape of a contiguous run along one axis.
type Pattern int

const (
	Nothing Pattern = iota
	BlockedOne
	OpenTwo
	BlockedTwo
	OpenThree
	BlockedThree
	OpenFour
	BlockedFour
	Dead
	Five
	Overline
)

var patternNames = map[Pattern]string{
	Nothing:      "nothing",
	BlockedOne:   "blocked-one",
	OpenTwo:      "open-two",
	BlockedTwo:   "blocked-two",
	OpenThree:    "open-three",
	BlockedThree: "blocked-three",
	OpenFour:     "open-four",
	BlockedFour:  "blocked-four",
	Dead:         "dead",
	Five:         "five",
	Overline:     "overline",
}

var patternScores = map[Pattern]int{
	Nothing:      LevelDead,
	BlockedOne:   LevelTwo,
	OpenTwo:      LevelThree,
	BlockedTwo:   LevelTwo,
	OpenThree:    LevelFour,
	BlockedThree: LevelThree,
	OpenFour:     LevelFive,
	BlockedFour:  LevelFour,
	Dead:         LevelDead,
	Five:         LevelSix,
	Overline:     LevelDead,
}

func (p Pattern) String() string {
	return patternNames[p]
}

func (p Pattern) Score() int {
	return patternScores[p]
}

// Classify maps a run length and the number of ends blocked by the opponent to a pattern.
// Only exact table entries score: a lone stone counts only when one end is blocked, and
// runs longer than five are Overline.
func Classify(count, deathEnds int) Pattern {
	switch count {
	case 1:
		if deathEnds == 1 {
			return BlockedOne
		}
	case 2:
		return shape(deathEnds, OpenTwo, BlockedTwo)
	case 3:
		return shape(deathEnds, OpenThree, BlockedThree)
	case 4:
		return shape(deathEnds, OpenFour, BlockedFour)
	case 5:
		return Five
	default:
		if count > 5 {
			return Overline
		}
	}
	return Nothing
}

func shape(deathEnds int, open, blocked Pattern) Pattern {
	switch deathEnds {
	case 0:
		return open
	case 1:
		return blocked
	case 2:
		return Dead
	}
	return Nothing
}
