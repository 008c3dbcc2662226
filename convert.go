package targa

import (
	"encoding/binary"
	"fmt"
)

// normalizePixels converts decoded pixel bytes to one of the two canonical
// formats according to the header's pixel depth and image type.
//
// `data` must hold exactly header.PixelDataSize() bytes. `palette` may be nil
// if the image has no color map; `paletteErr` is whatever went wrong reading
// it, and only matters if an 8-bit color-mapped image actually needs it.
func normalizePixels(
	header Header,
	data []byte,
	palette Palette,
	paletteErr error,
) (Image, error) {
	width := int(header.ImageWidth)
	height := int(header.ImageHeight)
	rows := rowOrder{height: height, topDown: header.IsTopDown()}

	switch header.PixelDepth {
	case 8:
		if header.ImageType == ImageTypeGrayscale {
			return convertGray8(data, width, rows), nil
		}
		if paletteErr != nil {
			return nil, paletteErr
		}
		return convertIndexed8(data, width, rows, palette), nil
	case 16:
		return convertA1R5G5B5(data, width, rows), nil
	case 24:
		return convertBGR24(data, width, rows), nil
	case 32:
		return convertBGRA32(data, width, rows), nil
	default:
		return nil, ErrUnsupportedPixelDepth.WithMessage(
			fmt.Sprintf("%d bits per pixel", header.PixelDepth))
	}
}

// rowOrder maps rows in file order to rows in the top-down output image.
type rowOrder struct {
	height  int
	topDown bool
}

func (order rowOrder) dest(y int) int {
	if order.topDown {
		return y
	}
	return order.height - 1 - y
}

func convertGray8(src []byte, width int, rows rowOrder) *RGB24 {
	img := NewRGB24(width, rows.height)
	for y := 0; y < rows.height; y++ {
		in := src[y*width : (y+1)*width]
		out := img.Row(rows.dest(y))
		for x, v := range in {
			out[3*x] = v
			out[3*x+1] = v
			out[3*x+2] = v
		}
	}
	return img
}

// convertIndexed8 looks every pixel up in the palette. Without a palette the
// index is treated as an opaque gray level.
func convertIndexed8(src []byte, width int, rows rowOrder, palette Palette) *ARGB32 {
	img := NewARGB32(width, rows.height)
	for y := 0; y < rows.height; y++ {
		in := src[y*width : (y+1)*width]
		out := img.Row(rows.dest(y))
		for x, index := range in {
			if palette != nil {
				out[x] = palette[index]
			} else {
				out[x] = NewARGB(0xff, index, index, index)
			}
		}
	}
	return img
}

func convertA1R5G5B5(src []byte, width int, rows rowOrder) *ARGB32 {
	img := NewARGB32(width, rows.height)
	for y := 0; y < rows.height; y++ {
		in := src[2*y*width : 2*(y+1)*width]
		out := img.Row(rows.dest(y))
		for x := range out {
			out[x] = ExpandA1R5G5B5(binary.LittleEndian.Uint16(in[2*x:]))
		}
	}
	return img
}

func convertBGR24(src []byte, width int, rows rowOrder) *RGB24 {
	img := NewRGB24(width, rows.height)
	for y := 0; y < rows.height; y++ {
		in := src[3*y*width : 3*(y+1)*width]
		out := img.Row(rows.dest(y))
		for i := 0; i < len(in); i += 3 {
			out[i] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i]
		}
	}
	return img
}

func convertBGRA32(src []byte, width int, rows rowOrder) *ARGB32 {
	img := NewARGB32(width, rows.height)
	for y := 0; y < rows.height; y++ {
		in := src[4*y*width : 4*(y+1)*width]
		out := img.Row(rows.dest(y))
		for x := range out {
			out[x] = ARGB(binary.LittleEndian.Uint32(in[4*x:]))
		}
	}
	return img
}
