package utfgrid_test

import (
	"testing"

	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/stretchr/testify/require"
)

func TestCodepoint(t *testing.T) {
	for _, tc := range []struct {
		Index int
		Want  uint16
	}{
		{0, ' '},
		{1, '!'},
		{2, '#'},
		{58, '['},
		{59, ']'},
		{utfgrid.MaxKeys - 1, 0xD7FF},
	} {
		got, ok := utfgrid.Codepoint(tc.Index)
		require.Truef(t, ok, "Codepoint(%d)", tc.Index)
		require.Equalf(t, tc.Want, got, "Codepoint(%d)", tc.Index)
	}

	for _, i := range []int{-1, utfgrid.MaxKeys} {
		_, ok := utfgrid.Codepoint(i)
		require.Falsef(t, ok, "Codepoint(%d)", i)
	}
}

func TestCodepointIndex(t *testing.T) {
	seen := make(map[uint16]bool)
	for i := range utfgrid.MaxKeys {
		c, ok := utfgrid.Codepoint(i)
		if !ok {
			t.Fatalf("Codepoint(%d) failed", i)
		}
		if c == '"' || c == '\\' || c < 32 || c >= 0xD800 {
			t.Fatalf("Codepoint(%d) = %#x is reserved", i, c)
		}
		if seen[c] {
			t.Fatalf("Codepoint(%d) = %#x is not unique", i, c)
		}
		seen[c] = true

		got, ok := utfgrid.Index(c)
		if !ok || got != i {
			t.Fatalf("Index(Codepoint(%d)) = %d, %v", i, got, ok)
		}
	}

	for _, c := range []uint16{0, 31, '"', '\\', 0xD800, 0xDFFF, 0xFFFF} {
		_, ok := utfgrid.Index(c)
		require.Falsef(t, ok, "Index(%#x)", c)
	}
}
