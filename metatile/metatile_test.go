package metatile_test

import (
	"testing"

	"github.com/eak1mov/go-utfgrid/grid"
	"github.com/eak1mov/go-utfgrid/internal/gridtest"
	"github.com/eak1mov/go-utfgrid/metatile"
	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSplitter(t *testing.T) {
	g := gridtest.New(t, []string{
		"aabb",
		"aabb",
		"ccdd",
		"ccdd",
	})
	origin := metatile.TileID{X: 4, Y: 6, Z: 3}
	s, err := metatile.NewSplitter(g, origin, 2)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())

	var order []metatile.TileID
	pixels := make(map[metatile.TileID]grid.ID)
	for tileID, view := range s.Views() {
		order = append(order, tileID)
		require.Equal(t, 2, view.Width())
		require.Equal(t, 2, view.Height())
		require.True(t, view.IsSolid())
		pixels[tileID], _ = view.Pixel(0, 0)
	}

	want := map[metatile.TileID]grid.ID{
		{X: 4, Y: 6, Z: 3}: gridtest.ID('a'),
		{X: 5, Y: 6, Z: 3}: gridtest.ID('b'),
		{X: 4, Y: 7, Z: 3}: gridtest.ID('c'),
		{X: 5, Y: 7, Z: 3}: gridtest.ID('d'),
	}
	if diff := cmp.Diff(want, pixels); diff != "" {
		t.Errorf("views mismatch (-want+got):\n%v", diff)
	}

	require.Equal(t, origin, order[0])
	for i := 1; i < len(order); i++ {
		dx := int(order[i].X) - int(order[i-1].X)
		dy := int(order[i].Y) - int(order[i-1].Y)
		require.Equalf(t, 1, dx*dx+dy*dy, "tiles %v and %v are not adjacent", order[i-1], order[i])
	}
}

func TestSplitterEncode(t *testing.T) {
	g := gridtest.New(t, []string{
		"aaaabbbb",
		"aaaabbbb",
		"aaaabbbb",
		"aaaabbbb",
		"cccc....",
		"cccc....",
		"cccc....",
		"cccc....",
	})
	s, err := metatile.NewSplitter(g, metatile.TileID{Z: 1}, 2)
	require.NoError(t, err)

	type encoded struct {
		Grid []string
		Keys []string
	}
	got := make(map[metatile.TileID]encoded)
	for tileID, view := range s.Views() {
		result, err := utfgrid.Encode(view)
		require.NoError(t, err)
		got[tileID] = encoded{result.Grid, result.Keys}
	}

	want := map[metatile.TileID]encoded{
		{X: 0, Y: 0, Z: 1}: {[]string{"!"}, []string{"", "a"}},
		{X: 1, Y: 0, Z: 1}: {[]string{"!"}, []string{"", "b"}},
		{X: 0, Y: 1, Z: 1}: {[]string{"!"}, []string{"", "c"}},
		{X: 1, Y: 1, Z: 1}: {[]string{" "}, []string{""}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encoded tiles mismatch (-want+got):\n%v", diff)
	}
}

func TestSplitterErrors(t *testing.T) {
	g, err := grid.New(6, 6)
	require.NoError(t, err)

	for _, tc := range []struct {
		Name   string
		Origin metatile.TileID
		Size   int
	}{
		{Name: "NotPowerOfTwo", Size: 3},
		{Name: "Zero", Size: 0},
		{Name: "NotDivisible", Size: 4, Origin: metatile.TileID{Z: 2}},
		{Name: "OutOfZoom", Size: 2, Origin: metatile.TileID{X: 1, Y: 0, Z: 1}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := metatile.NewSplitter(g, tc.Origin, tc.Size)
			require.ErrorIs(t, err, metatile.ErrInvalidMetatile)
		})
	}

	s, err := metatile.NewSplitter(g, metatile.TileID{}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
}

func TestTileIDValid(t *testing.T) {
	require.True(t, metatile.TileID{X: 0, Y: 0, Z: 0}.Valid())
	require.True(t, metatile.TileID{X: 3, Y: 3, Z: 2}.Valid())
	require.False(t, metatile.TileID{X: 4, Y: 0, Z: 2}.Valid())
	require.False(t, metatile.TileID{Z: 32}.Valid())
}
