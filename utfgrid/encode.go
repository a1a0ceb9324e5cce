// Package utfgrid encodes views of interaction grids into UTFGrid tiles:
// rows of characters indexing into a legend of feature keys, plus the
// attributes of every referenced feature.
package utfgrid

import (
	"fmt"
	"unicode/utf16"

	"github.com/eak1mov/go-utfgrid/grid"
)

// Row is one line of an encoded grid, one codepoint per output cell.
type Row []uint16

func (r Row) String() string {
	return string(utf16.Decode(r))
}

type legend struct {
	keys    []string
	byKey   map[string]int
	byID    map[grid.ID]int
	lookups *grid.Grid
}

func newLegend(g *grid.Grid) *legend {
	return &legend{
		keys:    []string{""},
		byKey:   map[string]int{"": 0},
		byID:    map[grid.ID]int{grid.NoFeature: 0},
		lookups: g,
	}
}

func (l *legend) index(id grid.ID) (int, error) {
	if idx, found := l.byID[id]; found {
		return idx, nil
	}

	key, found := l.lookups.Key(id)
	if !found {
		return 0, fmt.Errorf("%w: feature id %d has no key", ErrEncodingFailure, id)
	}

	idx, found := l.byKey[key]
	if !found {
		if len(l.keys) >= MaxKeys {
			return 0, fmt.Errorf("%w: %w: more than %d keys", ErrEncodingFailure, ErrTooManyKeys, MaxKeys)
		}
		idx = len(l.keys)
		l.keys = append(l.keys, key)
		l.byKey[key] = idx
	}
	l.byID[id] = idx
	return idx, nil
}

// EncodeRows downsamples v by resolution and assigns every sampled feature
// a legend index in row-major order of first occurrence. Index 0 is always
// the empty key of grid.NoFeature. The output is
// v.Width()/resolution by v.Height()/resolution cells.
func EncodeRows(v *grid.View, resolution int) ([]Row, []string, error) {
	if v == nil {
		return nil, nil, fmt.Errorf("%w: nil view", ErrInvalidArgument)
	}
	if resolution <= 0 {
		return nil, nil, fmt.Errorf("%w: resolution must be positive, got %d", ErrEncodingFailure, resolution)
	}

	width := v.Width() / resolution
	height := v.Height() / resolution
	l := newLegend(v.Grid())

	rows := make([]Row, 0, height)
	for oy := range height {
		pixels := v.Row(oy * resolution)
		row := make(Row, width)
		for ox := range width {
			idx, err := l.index(pixels[ox*resolution])
			if err != nil {
				return nil, nil, fmt.Errorf("%w (at %d,%d)", err, ox*resolution, oy*resolution)
			}
			// index() keeps idx below MaxKeys
			row[ox], _ = Codepoint(idx)
		}
		rows = append(rows, row)
	}

	return rows, l.keys, nil
}
