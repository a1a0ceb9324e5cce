package utfgrid

import (
	"unicode/utf16"

	"github.com/eak1mov/go-utfgrid/grid"
)

// Result is an encoded UTFGrid tile.
type Result struct {
	Grid []string                   `json:"grid"`
	Keys []string                   `json:"keys"`
	Data map[string]grid.Properties `json:"data"`
}

func newResult(rows []Row, keys []string, data map[string]grid.Properties) *Result {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row.String()
	}
	if data == nil {
		data = make(map[string]grid.Properties)
	}
	return &Result{Grid: lines, Keys: keys, Data: data}
}

// KeyAt returns the legend key of output cell (col, row), the lookup a
// client performs for a pointer position. It reports false for cells
// outside the grid or characters that do not index the legend.
func (r *Result) KeyAt(col, row int) (string, bool) {
	if row < 0 || row >= len(r.Grid) || col < 0 {
		return "", false
	}
	line := utf16.Encode([]rune(r.Grid[row]))
	if col >= len(line) {
		return "", false
	}
	idx, ok := Index(line[col])
	if !ok || idx >= len(r.Keys) {
		return "", false
	}
	return r.Keys[idx], true
}
