package targa

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SentinelColor fills every palette slot past the declared color map length,
// so that pixels using an invalid index show up as bright magenta.
const SentinelColor ARGB = 0xFFFF00CD

// MinPaletteSize is the smallest palette ReadPalette builds. Any 8-bit index
// is therefore valid, even if the color map declares fewer entries.
const MinPaletteSize = 256

// Palette is a color lookup table for 8-bit color-mapped images.
type Palette []ARGB

// ExpandA1R5G5B5 widens a 16-bit pixel with one alpha bit and five bits per
// color channel to an [ARGB] word.
func ExpandA1R5G5B5(v uint16) ARGB {
	expand := func(c uint16) uint8 {
		return uint8(c<<3 | c>>2)
	}

	var alpha uint8
	if v&0x8000 != 0 {
		alpha = 0xff
	}
	return NewARGB(
		alpha,
		expand((v>>10)&0x1f),
		expand((v>>5)&0x1f),
		expand(v&0x1f),
	)
}

// ReadPalette reads a color map of `length` entries of `entrySize` bits each
// from `r` and converts it to a palette of max(256, length) colors.
//
// 16-bit entries are A1R5G5B5, 24-bit entries are B, G, R bytes, and 32-bit
// entries are B, G, R, A bytes. For any other entry size the color map is still
// consumed from the stream so decoding can continue, but the palette returned
// is nil and the error wraps [ErrUnsupportedColorMap].
func ReadPalette(r io.Reader, entrySize uint8, length uint16) (Palette, error) {
	raw := make([]byte, int(entrySize)/8*int(length))
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, ErrInvalidHeader.WithMessage("reading color map").Wrap(err)
	}

	switch entrySize {
	case 16, 24, 32:
	default:
		return nil, ErrUnsupportedColorMap.WithMessage(
			fmt.Sprintf("%d-bit color map entries", entrySize))
	}

	paletteSize := int(length)
	if paletteSize < MinPaletteSize {
		paletteSize = MinPaletteSize
	}
	palette := make(Palette, paletteSize)
	for i := int(length); i < paletteSize; i++ {
		palette[i] = SentinelColor
	}

	for i := 0; i < int(length); i++ {
		switch entrySize {
		case 16:
			palette[i] = ExpandA1R5G5B5(binary.LittleEndian.Uint16(raw[2*i:]))
		case 24:
			bgr := raw[3*i : 3*i+3]
			palette[i] = NewARGB(0xff, bgr[2], bgr[1], bgr[0])
		case 32:
			palette[i] = ARGB(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	}
	return palette, nil
}
