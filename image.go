package targa

import (
	"image"
	"image/color"
)

// ColorFormat identifies one of the two in-memory layouts every decoded image
// is normalized to.
type ColorFormat int

const (
	// FormatR8G8B8 stores three bytes per pixel in R, G, B order.
	FormatR8G8B8 ColorFormat = iota
	// FormatA8R8G8B8 stores one [ARGB] word per pixel.
	FormatA8R8G8B8
)

func (f ColorFormat) String() string {
	switch f {
	case FormatR8G8B8:
		return "R8G8B8"
	case FormatA8R8G8B8:
		return "A8R8G8B8"
	default:
		return "unknown"
	}
}

// Image is a decoded TGA image. The concrete type is [*RGB24] or [*ARGB32]
// depending on Format().
type Image interface {
	image.Image
	Format() ColorFormat
}

// ARGB is a 32-bit color with 8 bits per channel laid out as 0xAARRGGBB. The
// color channels are not premultiplied by alpha.
type ARGB uint32

// NewARGB packs the channels into a single word.
func NewARGB(a, r, g, b uint8) ARGB {
	return ARGB(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c ARGB) A() uint8 { return uint8(c >> 24) }
func (c ARGB) R() uint8 { return uint8(c >> 16) }
func (c ARGB) G() uint8 { return uint8(c >> 8) }
func (c ARGB) B() uint8 { return uint8(c) }

// NRGBA converts the color to the standard library's non-premultiplied type.
func (c ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements [color.Color].
func (c ARGB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// RGB24 is an opaque image with three bytes per pixel.
type RGB24 struct {
	// Pix holds the pixels in R, G, B order, row by row from the top.
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGB24 allocates a zeroed image of the given size.
func NewRGB24(width, height int) *RGB24 {
	return &RGB24{
		Pix:    make([]uint8, 3*width*height),
		Stride: 3 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func (p *RGB24) Format() ColorFormat     { return FormatR8G8B8 }
func (p *RGB24) ColorModel() color.Model { return color.RGBAModel }
func (p *RGB24) Bounds() image.Rectangle { return p.Rect }
func (p *RGB24) PixOffset(x, y int) int  { return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3 }
func (p *RGB24) At(x, y int) color.Color { return p.RGBAt(x, y) }

// Row returns the pixels of row y.
func (p *RGB24) Row(y int) []uint8 {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+p.Stride]
}

// RGBAt returns the pixel at (x, y), or transparent black if the point lies
// outside the image.
func (p *RGB24) RGBAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 0xff}
}

// ARGB32 is an image with one 32-bit [ARGB] word per pixel.
type ARGB32 struct {
	// Pix holds the pixels row by row from the top. Stride is in pixels, not
	// bytes.
	Pix    []ARGB
	Stride int
	Rect   image.Rectangle
}

// NewARGB32 allocates a zeroed image of the given size.
func NewARGB32(width, height int) *ARGB32 {
	return &ARGB32{
		Pix:    make([]ARGB, width*height),
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func (p *ARGB32) Format() ColorFormat     { return FormatA8R8G8B8 }
func (p *ARGB32) ColorModel() color.Model { return color.NRGBAModel }
func (p *ARGB32) Bounds() image.Rectangle { return p.Rect }
func (p *ARGB32) PixOffset(x, y int) int  { return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X) }
func (p *ARGB32) At(x, y int) color.Color { return p.NRGBAAt(x, y) }

// Row returns the pixels of row y.
func (p *ARGB32) Row(y int) []ARGB {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+p.Stride]
}

// ARGBAt returns the raw pixel word at (x, y), or 0 if the point lies outside
// the image.
func (p *ARGB32) ARGBAt(x, y int) ARGB {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return p.Pix[p.PixOffset(x, y)]
}

func (p *ARGB32) NRGBAAt(x, y int) color.NRGBA {
	return p.ARGBAt(x, y).NRGBA()
}
