package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/xaionaro-go/bytesextra"

	"github.com/dargueta/fatsynth/backing/osfs"
	"github.com/dargueta/fatsynth/fat32"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "Materialize a backing directory as a flat FAT32 image file",
	ArgsUsage: "SOURCE_DIR OUTPUT_IMAGE",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "prefix", Value: "/", Usage: "backing-relative directory to project as the volume root"},
	},
	Action: runRender,
}

func runRender(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("render requires SOURCE_DIR and OUTPUT_IMAGE arguments")
	}
	sourceDir := c.Args().Get(0)
	outputPath := c.Args().Get(1)

	fs := osfs.New(sourceDir)
	vol, err := fat32.New(fs, c.String("prefix"))
	if err != nil {
		return fmt.Errorf("planning volume: %w", err)
	}

	size := vol.Size()
	image := make([]byte, size)
	for i := uint64(0); i < size; i++ {
		b, err := vol.ReadByte(i)
		if err != nil {
			return fmt.Errorf("projecting byte %d: %w", i, err)
		}
		image[i] = b
	}

	// bytesextra wraps the in-memory image as a seekable stream, the same
	// way the teacher's test helpers present an in-memory disk image to
	// code that expects an io.ReadWriteSeeker.
	stream := bytesextra.NewReadWriteSeeker(image)
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, stream)
	return err
}
