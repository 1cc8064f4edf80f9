package game

import (
	"testing"

	"fiveinarow/meta"

	"github.com/stretchr/testify/require"
)

func TestGridPlace(t *testing.T) {
	t.Run("placing a stone makes it visible at its coordinates", func(t *testing.T) {
		g := NewGrid(3, 4)

		err := g.Place(Stone{Row: 1, Col: 2, Owner: Black})

		require.NoError(t, err)
		stone, ok := g.StoneAt(1, 2)
		require.True(t, ok, "Stone should be found")
		require.Equal(t, Stone{Row: 1, Col: 2, Owner: Black}, stone)
		require.Equal(t, Black, g.OwnerAt(1, 2))
		require.Equal(t, 1, g.Len())
	})

	t.Run("rejects occupied cells", func(t *testing.T) {
		g := NewGrid(3, 3)
		require.NoError(t, g.Place(Stone{Row: 0, Col: 0, Owner: Black}))

		err := g.Place(Stone{Row: 0, Col: 0, Owner: White})

		require.ErrorIs(t, err, ErrOccupied)
		require.ErrorIs(t, err, ErrInvalidBoardState, "Occupied cells are an invalid board state")
		require.Equal(t, Black, g.OwnerAt(0, 0), "Original stone should be kept")
	})

	t.Run("rejects out of bounds cells", func(t *testing.T) {
		g := NewGrid(3, 3)

		err := g.Place(Stone{Row: 3, Col: 0, Owner: Black})

		require.ErrorIs(t, err, ErrOutOfBounds)
		require.ErrorIs(t, err, ErrInvalidBoardState)
		require.Zero(t, g.Len())
	})

	t.Run("rejects stones without owner", func(t *testing.T) {
		g := NewGrid(3, 3)

		err := g.Place(Stone{Row: 1, Col: 1})

		require.ErrorIs(t, err, ErrInvalidBoardState)
	})
}

func TestNewGridFromStones(t *testing.T) {
	t.Run("builds a board from distinct stones", func(t *testing.T) {
		stones := []Stone{{Row: 0, Col: 0, Owner: Black}, {Row: 2, Col: 1, Owner: White}}

		g, err := NewGridFromStones(3, 3, stones)

		require.NoError(t, err)
		require.Equal(t, stones, g.Stones())
	})

	t.Run("rejects duplicate stones", func(t *testing.T) {
		stones := []Stone{{Row: 0, Col: 0, Owner: Black}, {Row: 0, Col: 0, Owner: White}}

		_, err := NewGridFromStones(3, 3, stones)

		require.ErrorIs(t, err, ErrInvalidBoardState)
	})

	t.Run("rejects invalid dimensions", func(t *testing.T) {
		_, err := NewGridFromStones(0, 3, nil)

		require.ErrorIs(t, err, ErrInvalidBoardState)
	})
}

func TestGridEmptyCells(t *testing.T) {
	t.Run("lists cells in row-major order", func(t *testing.T) {
		g := NewGrid(2, 2)
		require.NoError(t, g.Place(Stone{Row: 0, Col: 1, Owner: White}))

		require.Equal(t, []Cell{{0, 0}, {1, 0}, {1, 1}}, g.EmptyCells())
	})

	t.Run("full board has no empty cells", func(t *testing.T) {
		g := NewGrid(1, 2)
		require.NoError(t, g.Place(Stone{Row: 0, Col: 0, Owner: White}))
		require.NoError(t, g.Place(Stone{Row: 0, Col: 1, Owner: Black}))

		require.Empty(t, g.EmptyCells())
		require.True(t, g.Full())
	})
}

func TestGridOffBoard(t *testing.T) {
	g := NewGrid(2, 2)

	_, ok := g.StoneAt(-1, 0)
	require.False(t, ok, "Off-board lookups should find no stone")
	require.Equal(t, None, g.OwnerAt(2, 2))
}

func TestGridClone(t *testing.T) {
	g := NewGrid(2, 2)
	require.NoError(t, g.Place(Stone{Row: 0, Col: 0, Owner: Black}))

	clone := g.Clone()
	require.NoError(t, clone.Place(Stone{Row: 1, Col: 1, Owner: White}))

	require.Equal(t, 1, g.Len(), "Clone should not share stones with the original")
	require.Equal(t, None, g.OwnerAt(1, 1), "Clone should not share cells with the original")
	require.Equal(t, 2, clone.Len())
}

func TestGridDimensions(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 15},
		{"negative cols", 15, -1},
		{"side above the cap", meta.MaxSize + 1, 4},
		{"product overflows", 1 << 62, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewGridFromStones(c.rows, c.cols, []Stone{{Row: 1, Col: 1, Owner: Black}})

			require.ErrorIs(t, err, ErrInvalidBoardState)
			require.Panics(t, func() { NewGrid(c.rows, c.cols) })
		})
	}

	t.Run("accepts the largest board", func(t *testing.T) {
		g, err := NewGridFromStones(meta.MaxSize, meta.MaxSize, []Stone{{Row: meta.MaxSize - 1, Col: 0, Owner: Black}})

		require.NoError(t, err)
		require.False(t, g.Full())
		require.Len(t, g.EmptyCells(), meta.MaxSize*meta.MaxSize-1)
	})
}

func TestWithHypothetical(t *testing.T) {
	t.Run("overrides one cell without mutating the base", func(t *testing.T) {
		g := NewGrid(3, 3)
		require.NoError(t, g.Place(Stone{Row: 0, Col: 0, Owner: Black}))

		view := g.WithHypothetical(Cell{Row: 1, Col: 1}, White)

		require.Equal(t, White, view.OwnerAt(1, 1))
		require.Equal(t, Black, view.OwnerAt(0, 0), "Other cells should fall back to the base")
		require.Equal(t, None, g.OwnerAt(1, 1), "Base board should be unchanged")
		require.Len(t, view.EmptyCells(), 7)
		require.Len(t, g.EmptyCells(), 8)
	})

	t.Run("overlays stack", func(t *testing.T) {
		g := NewGrid(3, 3)

		view := g.WithHypothetical(Cell{Row: 0, Col: 0}, White).WithHypothetical(Cell{Row: 0, Col: 1}, Black)

		stone, ok := view.StoneAt(0, 0)
		require.True(t, ok)
		require.Equal(t, White, stone.Owner)
		require.Equal(t, Black, view.OwnerAt(0, 1))
		require.Len(t, view.EmptyCells(), 7)
	})

	t.Run("off-board hypothetical has no effect", func(t *testing.T) {
		g := NewGrid(3, 3)

		view := g.WithHypothetical(Cell{Row: 5, Col: 5}, White)

		require.Equal(t, None, view.OwnerAt(5, 5))
		require.Len(t, view.EmptyCells(), 9)
	})
}

func TestGridString(t *testing.T) {
	g := NewGrid(2, 3)
	require.NoError(t, g.Place(Stone{Row: 0, Col: 1, Owner: Black}))
	require.NoError(t, g.Place(Stone{Row: 1, Col: 2, Owner: White}))

	require.Equal(t, ".x.\n..o\n", g.String())
}
