package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/kerntune/internal/device"
	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/report"
	"github.com/samcharles93/kerntune/internal/session"
	"github.com/samcharles93/kerntune/pkg/tunespec"
)

func tuneCmd() *cli.Command {
	var (
		runtimeName string
		csvPath     string
		jsonPath    string
	)

	return &cli.Command{
		Name:  "tune",
		Usage: "Run a tuning session and print the leaderboard",
		Flags: append(append(sessionFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "runtime",
				Usage:       "execution runtime (sim)",
				Value:       "sim",
				Destination: &runtimeName,
			},
			&cli.StringFlag{
				Name:        "csv",
				Usage:       "also write results to a CSV file",
				Destination: &csvPath,
			},
			&cli.StringFlag{
				Name:        "json",
				Usage:       "also write results to a JSON file",
				Destination: &jsonPath,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyTuneConfig(cmd, LoadConfig())
			log := newLogger()

			spec, err := loadSessionSpec()
			if err != nil {
				return err
			}
			spec.Seed = session.ResolveSeed(spec)

			if runtimeName != "sim" {
				return fmt.Errorf("runtime %q is not available in this build (only sim)", runtimeName)
			}
			runtime := &kernel.SimRuntime{Cost: kernel.TerrainCost(spec.Seed)}
			sess, err := session.New(spec, runtime, log)
			if err != nil {
				return err
			}
			log.Info("starting tuning session",
				"kernel", sess.Kernel.Entry,
				"strategy", sess.Strategy.Name(),
				"space", sess.Space.ProductSize(),
				"seed", spec.Seed)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, results, err := sess.Run(ctx)
			if err != nil {
				return err
			}

			host := device.Probe()
			rep := &report.Report{
				Kernel:   spec.Kernel.Name,
				Strategy: sess.Strategy.Name(),
				Device:   &host,
				Summary:  *summary,
				Results:  results,
			}
			if err := rep.WriteTable(os.Stdout); err != nil {
				return err
			}
			if len(results) > 0 {
				fmt.Println(report.BestLine(results[0]))
			}
			if csvPath != "" {
				if err := writeReport(csvPath, rep.WriteCSV); err != nil {
					return err
				}
			}
			if jsonPath != "" {
				if err := writeReport(jsonPath, rep.WriteJSON); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// loadSessionSpec loads the session file and applies CLI overrides.
func loadSessionSpec() (*tunespec.Spec, error) {
	spec, err := tunespec.Load(sessionPath)
	if err != nil {
		return nil, err
	}
	if strategy != "" {
		spec.Strategy.Name = strategy
	}
	if seed != 0 {
		spec.Seed = seed
	}
	if maxEvals > 0 {
		spec.Budget.MaxEvaluations = int(maxEvals)
	}
	if maxDuration != "" {
		if _, err := time.ParseDuration(maxDuration); err != nil {
			return nil, fmt.Errorf("invalid --max-duration: %w", err)
		}
		spec.Budget.MaxDuration = maxDuration
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func writeReport(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
