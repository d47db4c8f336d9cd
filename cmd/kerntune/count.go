package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/kerntune/internal/space"
)

func countCmd() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Count the valid configurations of a session without running it",
		Flags: append(sessionFlags(), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyTuneConfig(cmd, LoadConfig())

			spec, err := loadSessionSpec()
			if err != nil {
				return err
			}
			sp, err := spec.BuildSpace()
			if err != nil {
				return err
			}
			valid := space.NewGenerator(sp).Count()
			total := sp.ProductSize()
			fmt.Printf("parameters:           %d\n", sp.Len())
			fmt.Printf("cartesian product:    %d\n", total)
			fmt.Printf("valid configurations: %d\n", valid)
			if total > 0 {
				fmt.Printf("constraint pass rate: %.1f%%\n", 100*float64(valid)/float64(total))
			}
			return nil
		},
	}
}
