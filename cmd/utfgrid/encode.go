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

	"github.com/eak1mov/go-utfgrid/featurestore"
	"github.com/eak1mov/go-utfgrid/internal/workpool"
	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/google/subcommands"
)

type encodeCmd struct {
	inputPath  string
	rect       viewRect
	resolution int
	features   bool
	options    string
	dbPath     string
	dbTable    string
	dbKey      string
	async      bool
}

func (c *encodeCmd) Name() string     { return "encode" }
func (c *encodeCmd) Synopsis() string { return "encode a grid view as UTFGrid JSON" }
func (c *encodeCmd) Usage() string {
	return "utfgrid encode -i <path> [-x <x> -y <y> -w <w> -h <h>] [-r <resolution>] [-db <path>]\n"
}
func (c *encodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input grid JSON path")
	f.IntVar(&c.rect.x, "x", 0, "View left edge")
	f.IntVar(&c.rect.y, "y", 0, "View top edge")
	f.IntVar(&c.rect.w, "w", -1, "View width (default: to the grid edge)")
	f.IntVar(&c.rect.h, "h", -1, "View height (default: to the grid edge)")
	f.IntVar(&c.resolution, "r", utfgrid.DefaultResolution, "Downsampling factor")
	f.BoolVar(&c.features, "features", true, "Include feature attributes")
	f.StringVar(&c.options, "options", "", `Encode options as JSON, e.g. {"resolution":2}`)
	f.StringVar(&c.dbPath, "db", "", "SQLite database with feature attributes (default: attributes from the grid)")
	f.StringVar(&c.dbTable, "table", "features", "Feature attribute table")
	f.StringVar(&c.dbKey, "key-column", "key", "Column matched against legend keys")
	f.BoolVar(&c.async, "async", false, "Encode on a background worker")
}

func (c *encodeCmd) encodeOptions() ([]utfgrid.Option, error) {
	opts := []utfgrid.Option{
		utfgrid.WithResolution(c.resolution),
		utfgrid.WithFeatures(c.features),
	}
	if c.options == "" {
		return opts, nil
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(c.options), &values); err != nil {
		return nil, fmt.Errorf("%w: -options: %w", utfgrid.ErrInvalidArgument, err)
	}
	parsed, err := utfgrid.ParseOptions(values)
	if err != nil {
		return nil, err
	}
	return append(opts, parsed...), nil
}

func (c *encodeCmd) run(ctx context.Context, output io.Writer) error {
	g, err := loadGrid(c.inputPath)
	if err != nil {
		return err
	}
	view, err := c.rect.view(g)
	if err != nil {
		return err
	}
	opts, err := c.encodeOptions()
	if err != nil {
		return err
	}

	encoderOpts := []utfgrid.EncoderOption{utfgrid.WithLogger(slog.Default())}
	if c.dbPath != "" {
		store, err := featurestore.Open(
			c.dbPath,
			featurestore.WithTable(c.dbTable),
			featurestore.WithKeyColumn(c.dbKey),
			featurestore.WithLogger(slog.Default()),
		)
		if err != nil {
			return err
		}
		defer store.Close()
		encoderOpts = append(encoderOpts, utfgrid.WithFeatureWriter(store))
	}

	var result *utfgrid.Result
	if c.async {
		pool := workpool.New(workpool.WithWorkers(1), workpool.WithLogger(slog.Default()))
		defer pool.Close()
		loop := workpool.NewLoop()
		encoderOpts = append(encoderOpts, utfgrid.WithScheduler(pool), utfgrid.WithCompletion(loop))

		encoder := utfgrid.NewEncoder(encoderOpts...)
		var encodeErr error
		err = encoder.Encode(view, func(r *utfgrid.Result, err error) {
			result, encodeErr = r, err
		}, opts...)
		if err != nil {
			return err
		}
		if err := loop.RunN(ctx, 1); err != nil {
			return err
		}
		if encodeErr != nil {
			return encodeErr
		}
	} else {
		result, err = utfgrid.NewEncoder(encoderOpts...).EncodeSync(view, opts...)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func (c *encodeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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
