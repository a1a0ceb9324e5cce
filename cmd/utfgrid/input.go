package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eak1mov/go-utfgrid/grid"
)

// gridDocument is the JSON input accepted by all commands.
//
//	{
//	  "width": 4, "height": 2,
//	  "key": "__id__", "fields": ["name"],
//	  "pixels": [1, 1, 2, 2, 1, 1, -1, -1],
//	  "features": [{"id": 1, "properties": {"name": "one"}}]
//	}
//
// Pixels are row-major; negative values mean no feature.
type gridDocument struct {
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Key      string            `json:"key"`
	Fields   []string          `json:"fields"`
	Pixels   []int64           `json:"pixels"`
	Features []featureDocument `json:"features"`
}

type featureDocument struct {
	ID         grid.ID         `json:"id"`
	Properties grid.Properties `json:"properties"`
}

func loadGrid(filePath string) (*grid.Grid, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var doc gridDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse grid %s: %w", filePath, err)
	}

	var opts []grid.Option
	if doc.Key != "" {
		opts = append(opts, grid.WithKey(doc.Key))
	}
	if doc.Fields != nil {
		opts = append(opts, grid.WithFields(doc.Fields...))
	}

	g, err := grid.New(doc.Width, doc.Height, opts...)
	if err != nil {
		return nil, err
	}

	if len(doc.Pixels) != doc.Width*doc.Height {
		return nil, fmt.Errorf("grid %s: got %d pixels, want %d", filePath, len(doc.Pixels), doc.Width*doc.Height)
	}
	for i, pixel := range doc.Pixels {
		if pixel < 0 {
			continue
		}
		if pixel >= int64(grid.NoFeature) {
			return nil, fmt.Errorf("grid %s: pixel %d: feature id %d out of range", filePath, i, pixel)
		}
		if err := g.Set(i%doc.Width, i/doc.Width, grid.ID(pixel)); err != nil {
			return nil, err
		}
	}

	for _, feature := range doc.Features {
		if err := g.AddFeature(feature.ID, feature.Properties); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// viewRect is the -x -y -w -h flag group; negative sizes extend to the grid edge.
type viewRect struct {
	x, y, w, h int
}

func (r viewRect) view(g *grid.Grid) (*grid.View, error) {
	w, h := r.w, r.h
	if w < 0 {
		w = g.Width() - r.x
	}
	if h < 0 {
		h = g.Height() - r.y
	}
	return g.View(r.x, r.y, w, h)
}
