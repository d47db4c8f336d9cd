package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/kerntune/internal/device"
)

func devicesCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "devices",
		Usage: "List the compute devices visible to the tuner",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := device.Probe()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Printf("name:     %s\n", info.Name)
			fmt.Printf("platform: %s/%s\n", info.Platform, info.Arch)
			fmt.Printf("cores:    %d\n", info.Cores)
			if info.MemoryBytes > 0 {
				fmt.Printf("memory:   %.1f GiB\n", float64(info.MemoryBytes)/(1<<30))
			}
			if info.KernelRelease != "" {
				fmt.Printf("kernel:   %s\n", info.KernelRelease)
			}
			return nil
		},
	}
}
