package main

import (
	"log"
	"os"

	"github.com/dargueta/targa"
	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tgatool",
		Usage: "Inspect and convert Truevision TGA images",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every decoder diagnostic, not just warnings and errors",
			},
			&cli.BoolFlag{
				Name:  "strict-rle",
				Usage: "Stop decoding at the first RLE packet that runs off the end of the image",
			},
			&cli.IntFlag{
				Name:  "max-dimension",
				Usage: "Refuse images wider or taller than this",
				Value: targa.DefaultMaxDimension,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "sniff",
				Usage:     "Check whether files look like TGA images",
				Action:    sniffFiles,
				ArgsUsage: "FILE...",
			},
			{
				Name:      "info",
				Usage:     "Print the header of one or more TGA files",
				Action:    printInfo,
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Write the headers as CSV",
					},
				},
			},
			{
				Name:      "convert",
				Usage:     "Decode a TGA file and write it as PNG or BMP",
				Action:    convertImage,
				ArgsUsage: "TGA_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format, `png` or `bmp`. Defaults to the output file's extension",
					},
					&cli.IntFlag{
						Name:  "max-size",
						Usage: "Scale the image down so neither side exceeds this many pixels",
					},
				},
			},
		},
	}
}
