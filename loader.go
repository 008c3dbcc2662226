package targa

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dargueta/targa/utilities/compression"
	"github.com/noxer/bytewriter"
	"go.uber.org/zap"
)

// Options controls how a [Loader] decodes images. The zero value of any field
// means "use the default".
type Options struct {
	// MaxDimension is the largest width or height accepted. Defaults to
	// [DefaultMaxDimension].
	MaxDimension int

	// RLEMode selects how run-length packets that run off the end of the image
	// are handled. Defaults to [compression.OverrunCompatible].
	RLEMode compression.OverrunMode

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by [NewLoader].
func DefaultOptions() Options {
	return Options{
		MaxDimension: DefaultMaxDimension,
		RLEMode:      compression.OverrunCompatible,
		Logger:       zap.NewNop(),
	}
}

// Loader decodes TGA images. It holds no per-image state, so one Loader can be
// used for any number of images, including concurrently.
type Loader struct {
	options Options
}

var _ ImageLoader = (*Loader)(nil)
var _ LoaderFactory = NewLoader

// NewLoader creates a loader with default options. Its signature matches
// [LoaderFactory] so it can be handed directly to a loader registry.
func NewLoader() ImageLoader {
	return NewLoaderWithOptions(DefaultOptions())
}

// NewLoaderWithOptions creates a loader with custom options.
func NewLoaderWithOptions(options Options) *Loader {
	defaults := DefaultOptions()
	if options.MaxDimension <= 0 {
		options.MaxDimension = defaults.MaxDimension
	}
	if options.Logger == nil {
		options.Logger = defaults.Logger
	}
	return &Loader{options: options}
}

// IsLoadableFileExtension returns true if the file name ends in ".tga",
// ignoring case.
func (loader *Loader) IsLoadableFileExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".tga")
}

// IsLoadableFileFormat returns true if the stream ends with a TGA 2.0 footer.
// Files from before TGA 2.0 have no footer and are refused, even though
// LoadImage could decode many of them.
func (loader *Loader) IsLoadableFileFormat(file Stream) bool {
	if file == nil {
		return false
	}

	start, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}

	footer, err := ReadFooter(file)
	_, seekErr := file.Seek(start, io.SeekStart)
	if err != nil || seekErr != nil {
		return false
	}
	return footer.HasSignature()
}

// LoadImage decodes a TGA image from the current stream position.
func (loader *Loader) LoadImage(file Stream) (Image, error) {
	if file == nil {
		err := ErrInvalidHeader.WithMessage("no stream to read from")
		loader.options.Logger.Error("Unable to read TGA header", zap.Error(err))
		return nil, err
	}
	logger := loader.options.Logger.With(zap.String("file", file.Name()))

	header, err := ReadHeader(file)
	if err != nil {
		logger.Error("Unable to read TGA header", zap.Error(err))
		return nil, err
	}

	err = header.CheckDimensions(loader.options.MaxDimension)
	if err != nil {
		logger.Error(
			"Image dimensions too large in file",
			zap.Uint16("width", header.ImageWidth),
			zap.Uint16("height", header.ImageHeight),
			zap.Int("max_dimension", loader.options.MaxDimension),
		)
		return nil, err
	}

	err = header.CheckPixelDepth()
	if err != nil {
		logger.Error(
			"Unsupported TGA format",
			zap.Uint8("pixel_depth", header.PixelDepth),
			zap.Error(err),
		)
		return nil, err
	}

	// Skip the image identification field.
	if header.IDLength > 0 {
		_, err = file.Seek(int64(header.IDLength), io.SeekCurrent)
		if err != nil {
			wrapped := ErrInvalidHeader.WithMessage("skipping identification field").Wrap(err)
			logger.Error("Unable to skip TGA identification field", zap.Error(wrapped))
			return nil, wrapped
		}
	}

	var palette Palette
	var paletteErr error
	if header.HasColorMap() {
		palette, paletteErr = ReadPalette(
			file, header.ColorMapEntrySize, header.ColorMapLength)
		if paletteErr != nil && !errors.Is(paletteErr, ErrUnsupportedColorMap) {
			logger.Error("Unable to read TGA color map", zap.Error(paletteErr))
			return nil, paletteErr
		}
	}

	data, err := loader.readPixelData(file, header, logger)
	if err != nil {
		logger.Error(
			"Unsupported TGA file type",
			zap.Uint8("image_type", uint8(header.ImageType)),
			zap.Stringer("image_type_name", header.ImageType),
		)
		return nil, err
	}

	img, err := normalizePixels(header, data, palette, paletteErr)
	if err != nil {
		logger.Error(
			"Unsupported TGA format",
			zap.Uint8("pixel_depth", header.PixelDepth),
			zap.Uint8("color_map_entry_size", header.ColorMapEntrySize),
			zap.Error(err),
		)
		return nil, err
	}
	return img, nil
}

// readPixelData returns exactly header.PixelDataSize() bytes of pixel data,
// decompressing it if necessary. Pixel data that ends early is logged and
// zero-filled rather than treated as an error.
func (loader *Loader) readPixelData(
	file io.Reader,
	header Header,
	logger *zap.Logger,
) ([]byte, error) {
	switch {
	case header.ImageType.IsUncompressed():
		size := header.PixelDataSize()
		data := make([]byte, size)

		n, err := io.CopyN(bytewriter.New(data), file, int64(size))
		if err != nil {
			logger.Warn(
				"Uncompressed TGA pixel data ends early",
				zap.Int64("bytes_read", n),
				zap.Int("bytes_expected", size),
				zap.Error(err),
			)
		}
		return data, nil

	case header.ImageType.IsRunLengthEncoded():
		buffer, err := compression.DecompressTGA(
			file,
			header.PixelCount(),
			header.BytesPerPixel(),
			loader.options.RLEMode,
		)
		if err != nil {
			logger.Warn(
				"Compressed TGA file tries writing beyond buffer or ends early",
				zap.Int("missing_pixels", buffer.MissingPixels()),
				zap.Stringer("rle_mode", loader.options.RLEMode),
				zap.Error(err),
			)
		}
		return buffer.Bytes(), nil

	default:
		return nil, ErrUnsupportedImageType.WithMessage(
			fmt.Sprintf("type %d (%s)", uint8(header.ImageType), header.ImageType))
	}
}

////////////////////////////////////////////////////////////////////////////////
// Convenience functions

// Decode reads an entire TGA image from `r` using default options.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	img, err := NewLoader().LoadImage(NewMemoryStream("<stream>", data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeConfig returns the color model and dimensions of a TGA image without
// decoding its pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}

	err = header.CheckDimensions(DefaultMaxDimension)
	if err != nil {
		return image.Config{}, err
	}
	if !header.ImageType.IsUncompressed() && !header.ImageType.IsRunLengthEncoded() {
		return image.Config{}, ErrUnsupportedImageType.WithMessage(
			fmt.Sprintf("type %d (%s)", uint8(header.ImageType), header.ImageType))
	}

	err = header.CheckPixelDepth()
	if err != nil {
		return image.Config{}, err
	}

	model := color.NRGBAModel
	if header.PixelDepth == 24 ||
		(header.PixelDepth == 8 && header.ImageType == ImageTypeGrayscale) {
		model = color.RGBAModel
	}

	return image.Config{
		ColorModel: model,
		Width:      int(header.ImageWidth),
		Height:     int(header.ImageHeight),
	}, nil
}

// LoadFile opens and decodes the TGA image at `path` using default options.
func LoadFile(path string) (Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewLoader().LoadImage(file)
}
