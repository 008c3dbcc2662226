package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dargueta/targa"
	"github.com/dargueta/targa/utilities/compression"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// headerRow is one line of `info` output.
type headerRow struct {
	File              string `csv:"file"`
	ImageType         uint8  `csv:"image_type"`
	ImageTypeName     string `csv:"image_type_name"`
	Width             uint16 `csv:"width"`
	Height            uint16 `csv:"height"`
	PixelDepth        uint8  `csv:"pixel_depth"`
	TopDown           bool   `csv:"top_down"`
	ColorMapLength    uint16 `csv:"color_map_length"`
	ColorMapEntrySize uint8  `csv:"color_map_entry_size"`
	IDLength          uint8  `csv:"id_length"`
	HasFooter         bool   `csv:"has_footer"`
}

func newLogger(context *cli.Context) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !context.Bool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return config.Build()
}

func newLoader(context *cli.Context) (*targa.Loader, *zap.Logger, error) {
	logger, err := newLogger(context)
	if err != nil {
		return nil, nil, err
	}

	options := targa.Options{
		MaxDimension: context.Int("max-dimension"),
		RLEMode:      compression.OverrunCompatible,
		Logger:       logger,
	}
	if context.Bool("strict-rle") {
		options.RLEMode = compression.OverrunStrict
	}
	return targa.NewLoaderWithOptions(options), logger, nil
}

func sniffFiles(context *cli.Context) error {
	if context.NArg() == 0 {
		return cli.Exit("expected at least one file", 1)
	}

	loader := targa.NewLoader()
	var result error

	for _, path := range context.Args().Slice() {
		file, err := os.Open(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		fmt.Fprintf(
			context.App.Writer,
			"%s\textension=%t\tsignature=%t\n",
			path,
			loader.IsLoadableFileExtension(path),
			loader.IsLoadableFileFormat(file),
		)
		file.Close()
	}
	return result
}

func readHeaderRow(path string) (headerRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return headerRow{}, err
	}
	defer file.Close()

	header, err := targa.ReadHeader(file)
	if err != nil {
		return headerRow{}, fmt.Errorf("%s: %w", path, err)
	}

	hasFooter := false
	footer, err := targa.ReadFooter(file)
	if err == nil {
		hasFooter = footer.HasSignature()
	}

	return headerRow{
		File:              path,
		ImageType:         uint8(header.ImageType),
		ImageTypeName:     header.ImageType.String(),
		Width:             header.ImageWidth,
		Height:            header.ImageHeight,
		PixelDepth:        header.PixelDepth,
		TopDown:           header.IsTopDown(),
		ColorMapLength:    header.ColorMapLength,
		ColorMapEntrySize: header.ColorMapEntrySize,
		IDLength:          header.IDLength,
		HasFooter:         hasFooter,
	}, nil
}

func printInfo(context *cli.Context) error {
	if context.NArg() == 0 {
		return cli.Exit("expected at least one file", 1)
	}

	var rows []headerRow
	var result error
	for _, path := range context.Args().Slice() {
		row, err := readHeaderRow(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		rows = append(rows, row)
	}

	if context.Bool("csv") {
		if err := gocsv.Marshal(rows, context.App.Writer); err != nil {
			return multierror.Append(result, err)
		}
		return result
	}

	for _, row := range rows {
		writeHeaderText(context.App.Writer, row)
	}
	return result
}

func writeHeaderText(w io.Writer, row headerRow) {
	orientation := "bottom-up"
	if row.TopDown {
		orientation = "top-down"
	}

	fmt.Fprintf(w, "%s:\n", row.File)
	fmt.Fprintf(w, "  type:       %d (%s)\n", row.ImageType, row.ImageTypeName)
	fmt.Fprintf(w, "  size:       %dx%d, %s\n", row.Width, row.Height, orientation)
	fmt.Fprintf(w, "  depth:      %d bits\n", row.PixelDepth)
	if row.ColorMapLength > 0 {
		fmt.Fprintf(
			w, "  color map:  %d entries of %d bits\n", row.ColorMapLength, row.ColorMapEntrySize)
	}
	fmt.Fprintf(w, "  TGA 2.0:    %t\n", row.HasFooter)
}

func outputFormat(context *cli.Context, outputPath string) (string, error) {
	format := strings.ToLower(context.String("format"))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	}

	switch format {
	case "png", "bmp":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected png or bmp", format)
	}
}

// scaleToFit shrinks `img` so neither side exceeds maxSize, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func scaleToFit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(width, height))
	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))

	scaled := image.NewNRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
	return scaled
}

func convertImage(context *cli.Context) error {
	if context.NArg() != 2 {
		return cli.Exit("expected an input and an output file", 1)
	}
	inputPath := context.Args().Get(0)
	outputPath := context.Args().Get(1)

	format, err := outputFormat(context, outputPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	loader, logger, err := newLoader(context)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inputFile, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer inputFile.Close()

	img, err := loader.LoadImage(inputFile)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %s", inputPath, err.Error()), 2)
	}

	output := scaleToFit(img, context.Int("max-size"))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if format == "bmp" {
		err = bmp.Encode(outputFile, output)
	} else {
		err = png.Encode(outputFile, output)
	}
	closeErr := outputFile.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	logger.Debug(
		"Converted image",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("format", format),
		zap.Stringer("color_format", img.Format()),
		zap.Int("width", output.Bounds().Dx()),
		zap.Int("height", output.Bounds().Dy()),
	)
	return nil
}
