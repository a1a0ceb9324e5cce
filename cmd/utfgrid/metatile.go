package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/eak1mov/go-utfgrid/internal/workpool"
	"github.com/eak1mov/go-utfgrid/metatile"
	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type metatileCmd struct {
	inputPath  string
	x, y, z    uint
	size       int
	resolution int
	features   bool
	workers    int
	progress   bool
}

type tileResult struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
	Z uint32 `json:"z"`
	*utfgrid.Result
}

func (c *metatileCmd) Name() string     { return "metatile" }
func (c *metatileCmd) Synopsis() string { return "split a metatile grid and encode every tile" }
func (c *metatileCmd) Usage() string {
	return "utfgrid metatile -i <path> -z <z> -x <x> -y <y> -n <size> [-r <resolution> -workers <n>]\n"
}
func (c *metatileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input grid JSON path")
	f.UintVar(&c.z, "z", 0, "Zoom level")
	f.UintVar(&c.x, "x", 0, "Column of the top-left tile")
	f.UintVar(&c.y, "y", 0, "Row of the top-left tile")
	f.IntVar(&c.size, "n", 1, "Tiles per metatile side (power of two)")
	f.IntVar(&c.resolution, "r", utfgrid.DefaultResolution, "Downsampling factor")
	f.BoolVar(&c.features, "features", true, "Include feature attributes")
	f.IntVar(&c.workers, "workers", 0, "Encoding workers (default: number of CPUs)")
	f.BoolVar(&c.progress, "progress", true, "Show progress bar on stderr")
}

func (c *metatileCmd) run(ctx context.Context, output io.Writer) error {
	g, err := loadGrid(c.inputPath)
	if err != nil {
		return err
	}

	origin := metatile.TileID{X: uint32(c.x), Y: uint32(c.y), Z: uint32(c.z)}
	splitter, err := metatile.NewSplitter(g, origin, c.size)
	if err != nil {
		return err
	}

	poolOpts := []workpool.Option{workpool.WithLogger(slog.Default())}
	if c.workers > 0 {
		poolOpts = append(poolOpts, workpool.WithWorkers(c.workers))
	}
	pool := workpool.New(poolOpts...)
	defer pool.Close()
	loop := workpool.NewLoop()

	encoder := utfgrid.NewEncoder(
		utfgrid.WithScheduler(pool),
		utfgrid.WithCompletion(loop),
		utfgrid.WithLogger(slog.Default()),
	)

	bar := progressbar.NewOptions(splitter.Len(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(c.progress),
		progressbar.OptionShowCount(),
	)

	var tiles []metatile.TileID
	results := make(map[metatile.TileID]*utfgrid.Result)
	var errs []error

	for tileID, view := range splitter.Views() {
		tiles = append(tiles, tileID)
		err := encoder.Encode(view, func(result *utfgrid.Result, err error) {
			if err != nil {
				errs = append(errs, fmt.Errorf("tile %d/%d/%d: %w", tileID.Z, tileID.X, tileID.Y, err))
			} else {
				results[tileID] = result
			}
			if err := bar.Add(1); err != nil {
				errs = append(errs, err)
			}
		}, utfgrid.WithResolution(c.resolution), utfgrid.WithFeatures(c.features))
		if err != nil {
			return err
		}
	}

	if err := loop.RunN(ctx, len(tiles)); err != nil {
		return err
	}
	if err := bar.Finish(); err != nil {
		return err
	}
	if c.progress {
		fmt.Fprintln(os.Stderr)
	}

	if len(errs) > 0 {
		return errs[0]
	}

	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)
	for _, tileID := range tiles {
		line := tileResult{X: tileID.X, Y: tileID.Y, Z: tileID.Z, Result: results[tileID]}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func (c *metatileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" {
		log.Println("missing input path (-i)")
		return subcommands.ExitUsageError
	}
	if err := c.run(ctx, os.Stdout); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
