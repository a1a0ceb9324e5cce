// Package gridtest builds grids for tests from ASCII art.
package gridtest

import (
	"testing"
	"unicode/utf8"

	"github.com/eak1mov/go-utfgrid/grid"
	"github.com/stretchr/testify/require"
)

// Blank is the rune drawn for grid.NoFeature.
const Blank = '.'

// New returns a grid drawn by rows, one rune per pixel. Every rune other
// than Blank becomes a feature with id equal to the rune and a "name"
// property holding the rune itself, which is also the legend key unless
// opts select another key field.
func New(t testing.TB, rows []string, opts ...grid.Option) *grid.Grid {
	t.Helper()

	width := 0
	if len(rows) > 0 {
		width = utf8.RuneCountInString(rows[0])
	}

	opts = append([]grid.Option{grid.WithKey("name")}, opts...)
	g, err := grid.New(width, len(rows), opts...)
	require.NoError(t, err)

	for y, row := range rows {
		require.Equalf(t, width, utf8.RuneCountInString(row), "row %d has a different width", y)
		x := 0
		for _, r := range row {
			if r != Blank {
				require.NoError(t, g.Set(x, y, ID(r)))
			}
			x++
		}
	}

	for _, row := range rows {
		for _, r := range row {
			if r == Blank {
				continue
			}
			if _, found := g.Key(ID(r)); found {
				continue
			}
			require.NoError(t, g.AddFeature(ID(r), grid.Properties{"name": string(r)}))
		}
	}

	return g
}

// ID returns the feature id drawn by r.
func ID(r rune) grid.ID {
	return grid.ID(r)
}

// FullView returns a view covering all of g.
func FullView(t testing.TB, g *grid.Grid) *grid.View {
	t.Helper()
	v, err := g.View(0, 0, g.Width(), g.Height())
	require.NoError(t, err)
	return v
}
