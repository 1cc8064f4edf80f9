package game

type Rules interface {
	IsWin(board Board, last Stone) bool
	WinningLine(board Board, last Stone) []Cell
	IsDraw(board Board) bool
	// TODO add forbidden-move rules (double three) for renju variants
}

// Axes lists the four scan directions as (row, col) steps.
var Axes = [4][2]int{
	{0, 1},  // Horizontal
	{1, 0},  // Vertical
	{1, 1},  // Diagonal
	{-1, 1}, // Anti-diagonal
}
