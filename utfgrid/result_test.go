package utfgrid_test

import (
	"encoding/json"
	"testing"

	"github.com/eak1mov/go-utfgrid/internal/gridtest"
	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/stretchr/testify/require"
)

func TestResultJSON(t *testing.T) {
	g := gridtest.New(t, []string{"a.", ".b"})
	result, err := utfgrid.Encode(gridtest.FullView(t, g), utfgrid.WithResolution(1))
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"grid": ["! ", " #"],
		"keys": ["", "a", "b"],
		"data": {"a": {"name": "a"}, "b": {"name": "b"}}
	}`, string(data))

	result, err = utfgrid.Encode(gridtest.FullView(t, g), utfgrid.WithFeatures(false))
	require.NoError(t, err)
	data, err = json.Marshal(result)
	require.NoError(t, err)
	require.JSONEq(t, `{"grid": [], "keys": [""], "data": {}}`, string(data))
}

func TestResultKeyAt(t *testing.T) {
	result := &utfgrid.Result{
		Grid: []string{"! #", "#!!"},
		Keys: []string{"", "a", "b"},
	}

	for _, tc := range []struct {
		Col, Row int
		Want     string
	}{
		{0, 0, "a"},
		{1, 0, ""},
		{2, 0, "b"},
		{0, 1, "b"},
		{2, 1, "a"},
	} {
		got, ok := result.KeyAt(tc.Col, tc.Row)
		require.Truef(t, ok, "KeyAt(%d, %d)", tc.Col, tc.Row)
		require.Equalf(t, tc.Want, got, "KeyAt(%d, %d)", tc.Col, tc.Row)
	}

	for _, p := range [][2]int{{3, 0}, {0, 2}, {-1, 0}, {0, -1}} {
		_, ok := result.KeyAt(p[0], p[1])
		require.Falsef(t, ok, "KeyAt(%v)", p)
	}

	unknown := &utfgrid.Result{Grid: []string{"$\""}, Keys: []string{""}}
	for col := range 2 {
		_, ok := unknown.KeyAt(col, 0)
		require.False(t, ok)
	}
}
