package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"

	"github.com/dargueta/fatsynth/backing/osfs"
	"github.com/dargueta/fatsynth/fat32"
)

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Print the cluster layout a volume plans for a backing directory, as CSV",
	ArgsUsage: "SOURCE_DIR",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "prefix", Value: "/", Usage: "backing-relative directory to project as the volume root"},
	},
	Action: runInspect,
}

func runInspect(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("inspect requires a SOURCE_DIR argument")
	}
	sourceDir := c.Args().Get(0)

	fs := osfs.New(sourceDir)
	vol, err := fat32.New(fs, c.String("prefix"))
	if err != nil {
		return fmt.Errorf("planning volume: %w", err)
	}

	rows, err := vol.ClusterMap()
	if err != nil {
		return fmt.Errorf("walking cluster map: %w", err)
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}
