package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&encodeCmd{}, "")
	subcommands.Register(&queryCmd{}, "")
	subcommands.Register(&metatileCmd{}, "")

	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
