// meta/meta.go
package meta

// DefaultRows and DefaultCols give the reference 15×15 board.
const DefaultRows = 15

const DefaultCols = 15

// MaxTurns caps self-play games. No game on the default board can last longer.
const MaxTurns = DefaultRows * DefaultCols

// Goroutines defines the number of games an experiment plays in parallel.
const Goroutines = 8

// MaxSize bounds each side of a board built from outside input.
const MaxSize = 255
