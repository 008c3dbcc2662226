package targa

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size of the fixed header at the beginning of every TGA
// file, in bytes.
const HeaderSize = 18

// FooterSize is the size of the TGA 2.0 footer at the end of the file, in bytes.
const FooterSize = 26

// FooterSignature is the signature field of a TGA 2.0 footer, including its
// terminating null byte.
const FooterSignature = "TRUEVISION-XFILE.\x00"

// DefaultMaxDimension is the largest width or height accepted by default.
// 4 * 23000 * 23000 is just under 2^31, so a 32-bit image of this size can
// still be addressed with a signed 32-bit offset.
const DefaultMaxDimension = 23000

// Header is the fixed-layout header at the start of a TGA file. Multi-byte
// fields are stored little-endian on disk.
type Header struct {
	IDLength          uint8
	ColorMapType      uint8
	ImageType         ImageType
	ColorMapOrigin    uint16
	ColorMapLength    uint16
	ColorMapEntrySize uint8
	XOrigin           uint16
	YOrigin           uint16
	ImageWidth        uint16
	ImageHeight       uint16
	PixelDepth        uint8
	ImageDescriptor   uint8
}

// UnmarshalBinary decodes an 18-byte header. The byte order is explicit, so
// the result doesn't depend on the host's endianness.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return ErrInvalidHeader.WithMessage(
			fmt.Sprintf("need %d bytes, got %d", HeaderSize, len(data)))
	}

	h.IDLength = data[0]
	h.ColorMapType = data[1]
	h.ImageType = ImageType(data[2])
	h.ColorMapOrigin = binary.LittleEndian.Uint16(data[3:5])
	h.ColorMapLength = binary.LittleEndian.Uint16(data[5:7])
	h.ColorMapEntrySize = data[7]
	h.XOrigin = binary.LittleEndian.Uint16(data[8:10])
	h.YOrigin = binary.LittleEndian.Uint16(data[10:12])
	h.ImageWidth = binary.LittleEndian.Uint16(data[12:14])
	h.ImageHeight = binary.LittleEndian.Uint16(data[14:16])
	h.PixelDepth = data[16]
	h.ImageDescriptor = data[17]
	return nil
}

// ReadHeader reads and decodes the header from the current position of `r`.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, ErrInvalidHeader.Wrap(err)
	}

	var h Header
	err := h.UnmarshalBinary(raw[:])
	return h, err
}

// BytesPerPixel returns the size of a single pixel in the pixel data, rounded
// down the same way the pixel depth is interpreted everywhere else.
func (h Header) BytesPerPixel() int {
	return int(h.PixelDepth) / 8
}

// IsTopDown returns true if the first row in the file is the top row of the
// image. Most TGA files are stored bottom-up.
func (h Header) IsTopDown() bool {
	return h.ImageDescriptor&DescriptorTopToBottom != 0
}

// HasColorMap returns true if a color map follows the identification field.
func (h Header) HasColorMap() bool {
	return h.ColorMapType != ColorMapAbsent
}

// PixelCount returns the number of pixels in the image.
func (h Header) PixelCount() int {
	return int(h.ImageWidth) * int(h.ImageHeight)
}

// PixelDataSize returns the size of the decompressed pixel data, in bytes.
func (h Header) PixelDataSize() int {
	return h.PixelCount() * h.BytesPerPixel()
}

// ColorMapSize returns the number of bytes the color map occupies in the file.
func (h Header) ColorMapSize() int {
	return int(h.ColorMapEntrySize) / 8 * int(h.ColorMapLength)
}

// CheckDimensions fails with [ErrDimensionsTooLarge] if either dimension
// exceeds `maxDimension`. It must be called before allocating anything sized
// by the image geometry.
func (h Header) CheckDimensions(maxDimension int) error {
	if int(h.ImageWidth) > maxDimension || int(h.ImageHeight) > maxDimension {
		return ErrDimensionsTooLarge.WithMessage(
			fmt.Sprintf(
				"%dx%d exceeds the limit of %d pixels per side",
				h.ImageWidth,
				h.ImageHeight,
				maxDimension,
			),
		)
	}
	return nil
}

// CheckPixelDepth fails with [ErrUnsupportedPixelDepth] unless the pixel depth
// is 8, 16, 24 or 32 bits. Like CheckDimensions, it bounds the size of the
// pixel buffer and must be called before allocating it.
func (h Header) CheckPixelDepth() error {
	switch h.PixelDepth {
	case 8, 16, 24, 32:
		return nil
	default:
		return ErrUnsupportedPixelDepth.WithMessage(
			fmt.Sprintf("%d bits per pixel", h.PixelDepth))
	}
}

// Footer is the TGA 2.0 footer. Files written before version 2.0 don't have
// one.
type Footer struct {
	ExtensionOffset uint32
	DeveloperOffset uint32
	Signature       [18]byte
}

// HasSignature returns true if the signature matches [FooterSignature]
// exactly, including the terminating null byte.
func (f Footer) HasSignature() bool {
	return string(f.Signature[:]) == FooterSignature
}

// ReadFooter reads the last [FooterSize] bytes of the stream. The stream
// position is left wherever the read ended.
func ReadFooter(stream io.ReadSeeker) (Footer, error) {
	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return Footer{}, err
	}
	if size < FooterSize {
		return Footer{}, fmt.Errorf(
			"stream is %d bytes, too short for a %d-byte footer", size, FooterSize)
	}

	_, err = stream.Seek(size-FooterSize, io.SeekStart)
	if err != nil {
		return Footer{}, err
	}

	var raw [FooterSize]byte
	if _, err := io.ReadFull(stream, raw[:]); err != nil {
		return Footer{}, err
	}

	footer := Footer{
		ExtensionOffset: binary.LittleEndian.Uint32(raw[0:4]),
		DeveloperOffset: binary.LittleEndian.Uint32(raw[4:8]),
	}
	copy(footer.Signature[:], raw[8:])
	return footer, nil
}
