// Command fatsynth drives a fat32.Volume from the command line: render
// materializes one to a flat image file, inspect dumps its cluster layout.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "fatsynth",
		Usage: "Project a directory tree as a synthesized FAT32 volume",
		Commands: []*cli.Command{
			renderCommand,
			inspectCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
