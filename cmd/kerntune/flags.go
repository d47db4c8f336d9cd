package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/kerntune/internal/logger"
)

var (
	sessionPath string
	strategy    string
	seed        uint64
	maxEvals    int64
	maxDuration string
	logLevel    string
	logFormat   string
	debug       bool
)

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s", "f"},
			Usage:       "path to session file (YAML or JSON)",
			Destination: &sessionPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "strategy",
			Usage:       "override search strategy (full, random, anneal, swarm)",
			Destination: &strategy,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "override random seed (0 derives one from the clock)",
			Destination: &seed,
		},
		&cli.Int64Flag{
			Name:        "max-evaluations",
			Aliases:     []string{"n"},
			Usage:       "override evaluation budget",
			Destination: &maxEvals,
		},
		&cli.StringFlag{
			Name:        "max-duration",
			Usage:       "override wall-clock budget (Go duration, e.g. 90s)",
			Destination: &maxDuration,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Pretty(os.Stderr, level)
}
