package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-utfgrid/grid"
	"github.com/google/subcommands"
)

type queryCmd struct {
	inputPath string
	rect      viewRect
	px, py    int
}

type queryResult struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Solid  bool     `json:"solid"`
	Pixel  *grid.ID `json:"pixel"`
	Key    *string  `json:"key,omitempty"`
}

func (c *queryCmd) Name() string     { return "query" }
func (c *queryCmd) Synopsis() string { return "query a pixel and uniformity of a grid view" }
func (c *queryCmd) Usage() string {
	return "utfgrid query -i <path> -px <x> -py <y> [-x <x> -y <y> -w <w> -h <h>]\n"
}
func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input grid JSON path")
	f.IntVar(&c.rect.x, "x", 0, "View left edge")
	f.IntVar(&c.rect.y, "y", 0, "View top edge")
	f.IntVar(&c.rect.w, "w", -1, "View width (default: to the grid edge)")
	f.IntVar(&c.rect.h, "h", -1, "View height (default: to the grid edge)")
	f.IntVar(&c.px, "px", 0, "Pixel x, relative to the view")
	f.IntVar(&c.py, "py", 0, "Pixel y, relative to the view")
}

func (c *queryCmd) run(output io.Writer) error {
	g, err := loadGrid(c.inputPath)
	if err != nil {
		return err
	}
	view, err := c.rect.view(g)
	if err != nil {
		return err
	}

	result := queryResult{
		Width:  view.Width(),
		Height: view.Height(),
		Solid:  view.IsSolid(),
	}
	if id, ok := view.Pixel(c.px, c.py); ok {
		result.Pixel = &id
		if key, found := g.Key(id); found {
			result.Key = &key
		}
	}

	return json.NewEncoder(output).Encode(result)
}

func (c *queryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" {
		log.Println("missing input path (-i)")
		return subcommands.ExitUsageError
	}
	if err := c.run(os.Stdout); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
