// Package testing provides helpers for building synthetic TGA files in tests.
package testing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/dargueta/targa"
	"github.com/dargueta/targa/utilities/compression"
	"github.com/stretchr/testify/require"
)

// ImageFile describes the parts of a synthetic TGA file.
type ImageFile struct {
	Header targa.Header
	// ID is written as the identification field. Header.IDLength is set from
	// its length.
	ID []byte
	// ColorMap holds the raw color map bytes, if any.
	ColorMap []byte
	// PixelData holds the pixel data exactly as it should appear in the file,
	// i.e. already run-length encoded for RLE image types.
	PixelData []byte
	// WithFooter appends a TGA 2.0 footer.
	WithFooter bool
}

// Build serializes the file. It is guaranteed to either return the file's
// bytes or fail the test and abort.
func (f ImageFile) Build(t *testing.T) []byte {
	require.LessOrEqual(t, len(f.ID), 255, "identification field is too long")

	header := f.Header
	header.IDLength = uint8(len(f.ID))

	var output bytes.Buffer
	err := binary.Write(&output, binary.LittleEndian, header)
	require.NoError(t, err, "failed to write header")
	require.Equal(t, targa.HeaderSize, output.Len(), "header is the wrong size")

	output.Write(f.ID)
	output.Write(f.ColorMap)
	output.Write(f.PixelData)

	if f.WithFooter {
		footer := targa.Footer{}
		copy(footer.Signature[:], targa.FooterSignature)
		err = binary.Write(&output, binary.LittleEndian, footer)
		require.NoError(t, err, "failed to write footer")
	}
	return output.Bytes()
}

// Stream builds the file and wraps it in an in-memory stream.
func (f ImageFile) Stream(t *testing.T, name string) targa.Stream {
	return targa.NewMemoryStream(name, f.Build(t))
}

// NewHeader returns a header for an image with the given geometry. The
// descriptor marks the image as top-down if `topDown` is true.
func NewHeader(
	imageType targa.ImageType, width, height uint16, pixelDepth uint8, topDown bool,
) targa.Header {
	header := targa.Header{
		ImageType:   imageType,
		ImageWidth:  width,
		ImageHeight: height,
		PixelDepth:  pixelDepth,
	}
	if topDown {
		header.ImageDescriptor |= targa.DescriptorTopToBottom
	}
	return header
}

// EncodeRLE run-length encodes `pixels` the way a TGA writer would: runs of
// two or more identical pixels become repeat packets, everything else goes
// into raw packets. Packets never hold more than 128 pixels.
func EncodeRLE(t *testing.T, pixels []byte, bytesPerPixel int) []byte {
	require.Zero(t, len(pixels)%bytesPerPixel, "pixel data isn't a whole number of pixels")

	grouper := compression.NewPixelRunGrouper(bytes.NewReader(pixels), bytesPerPixel)
	var output bytes.Buffer
	var literals [][]byte

	flushLiterals := func() {
		for len(literals) > 0 {
			count := min(len(literals), 128)
			output.WriteByte(byte(count - 1))
			for _, pixel := range literals[:count] {
				output.Write(pixel)
			}
			literals = literals[count:]
		}
	}

	for {
		run, err := grouper.GetNextRun()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err, "failed to group pixels")

		if run.RunLength == 1 {
			literals = append(literals, run.Pixel)
			continue
		}

		flushLiterals()
		for remaining := run.RunLength; remaining > 0; {
			count := min(remaining, 128)
			if count == 1 {
				literals = append(literals, run.Pixel)
			} else {
				output.WriteByte(byte(0x80 | (count - 1)))
				output.Write(run.Pixel)
			}
			remaining -= count
		}
	}
	flushLiterals()
	return output.Bytes()
}

// BGRPixels packs RGB triples into the B, G, R byte order TGA stores them in.
func BGRPixels(rgb ...[3]byte) []byte {
	output := make([]byte, 0, 3*len(rgb))
	for _, c := range rgb {
		output = append(output, c[2], c[1], c[0])
	}
	return output
}
