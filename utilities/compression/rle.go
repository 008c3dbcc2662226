package compression

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/boljen/go-bitmap"
)

// ErrPacketOverrun is returned when a packet would write past the end of the
// image.
var ErrPacketOverrun = errors.New("packet tries writing beyond buffer")

// OverrunMode selects how a repeat packet that runs off the end of the image
// is handled. See the package documentation for details.
type OverrunMode int

const (
	// OverrunCompatible checks the first pixel of a repeat packet with a strict
	// comparison (there must be room for more than one pixel), then skips any
	// repetition that doesn't fit while still advancing past it.
	OverrunCompatible OverrunMode = iota
	// OverrunStrict requires room for exactly the pixels being written and
	// stops decoding at the first repetition that doesn't fit.
	OverrunStrict
)

func (mode OverrunMode) String() string {
	switch mode {
	case OverrunCompatible:
		return "compatible"
	case OverrunStrict:
		return "strict"
	default:
		return fmt.Sprintf("OverrunMode(%d)", int(mode))
	}
}

////////////////////////////////////////////////////////////////////////////////

// PixelBuffer is a fixed-size destination for decoded pixels. All writes are
// bounds-checked, and it keeps track of which pixels have been written so that
// callers can tell how much of a truncated image is missing.
type PixelBuffer struct {
	data          []byte
	bytesPerPixel int
	totalPixels   int
	offset        int
	written       bitmap.Bitmap
	writtenCount  int
}

// NewPixelBuffer allocates a zeroed buffer for `totalPixels` pixels of
// `bytesPerPixel` bytes each.
func NewPixelBuffer(totalPixels, bytesPerPixel int) *PixelBuffer {
	if bytesPerPixel < 0 {
		bytesPerPixel = 0
	}
	return &PixelBuffer{
		data:          make([]byte, totalPixels*bytesPerPixel),
		bytesPerPixel: bytesPerPixel,
		totalPixels:   totalPixels,
		written:       bitmap.NewSlice(totalPixels),
	}
}

// Bytes returns the underlying storage. Pixels that were never written are
// zero.
func (b *PixelBuffer) Bytes() []byte {
	return b.data
}

// Offset returns the write position, in bytes. In [OverrunCompatible] mode it
// may end up past the end of the buffer.
func (b *PixelBuffer) Offset() int {
	return b.offset
}

// Full returns true once the write position has reached the end of the buffer.
func (b *PixelBuffer) Full() bool {
	return b.offset >= len(b.data)
}

// Fits returns true if `count` more pixels can be written at the current
// position.
func (b *PixelBuffer) Fits(count int) bool {
	return b.offset+count*b.bytesPerPixel <= len(b.data)
}

// WrittenPixels returns the number of distinct pixels written so far.
func (b *PixelBuffer) WrittenPixels() int {
	return b.writtenCount
}

// MissingPixels returns the number of pixels that were never written.
func (b *PixelBuffer) MissingPixels() int {
	return b.totalPixels - b.writtenCount
}

func (b *PixelBuffer) markWritten(start, length int) {
	if b.bytesPerPixel == 0 {
		return
	}
	for px := start / b.bytesPerPixel; px < (start+length)/b.bytesPerPixel; px++ {
		if !b.written.Get(px) {
			b.written.Set(px, true)
			b.writtenCount++
		}
	}
}

// ReadPixels reads `count` pixels from `r` into the buffer. If they don't fit,
// nothing is read and the error wraps [ErrPacketOverrun]. On a short read the
// bytes that did arrive are kept.
func (b *PixelBuffer) ReadPixels(r io.Reader, count int) error {
	if !b.Fits(count) {
		return fmt.Errorf(
			"%w: %d pixels at byte %d of %d",
			ErrPacketOverrun,
			count,
			b.offset,
			len(b.data),
		)
	}

	size := count * b.bytesPerPixel
	n, err := io.ReadFull(r, b.data[b.offset:b.offset+size])
	b.markWritten(b.offset, n)
	b.offset += n
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("read %d of %d pixel bytes: %w", n, size, err)
	}
	return nil
}

// RepeatPixel copies the pixel starting at byte `source` to the current
// position and advances. If there's no room nothing happens and it returns
// false.
func (b *PixelBuffer) RepeatPixel(source int) bool {
	if !b.Fits(1) {
		return false
	}
	copy(b.data[b.offset:b.offset+b.bytesPerPixel], b.data[source:source+b.bytesPerPixel])
	b.markWritten(b.offset, b.bytesPerPixel)
	b.offset += b.bytesPerPixel
	return true
}

// Skip advances the write position by `count` pixels without writing
// anything. The position may move past the end of the buffer.
func (b *PixelBuffer) Skip(count int) {
	b.offset += count * b.bytesPerPixel
}

////////////////////////////////////////////////////////////////////////////////

type byteSource interface {
	io.Reader
	io.ByteReader
}

// DecompressTGA decodes run-length encoded pixel data from `input` until
// `totalPixels` pixels have been produced.
//
// The returned buffer is never nil. If the input ends early or a packet would
// overrun the image, decoding stops and the buffer is returned along with an
// error wrapping [io.ErrUnexpectedEOF] or [ErrPacketOverrun] respectively.
// Everything decoded up to that point is kept, so callers can choose to use the
// partial image.
//
// `input` may be read past the end of the pixel data if it doesn't implement
// [io.ByteReader].
func DecompressTGA(
	input io.Reader,
	totalPixels int,
	bytesPerPixel int,
	mode OverrunMode,
) (*PixelBuffer, error) {
	buffer := NewPixelBuffer(totalPixels, bytesPerPixel)

	source, ok := input.(byteSource)
	if !ok {
		source = bufio.NewReader(input)
	}

	for !buffer.Full() {
		chunkHeader, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return buffer, fmt.Errorf(
				"missing packet header at byte %d of %d: %w",
				buffer.Offset(),
				len(buffer.Bytes()),
				err,
			)
		}

		if chunkHeader < 0x80 {
			// Raw packet
			count := int(chunkHeader) + 1
			if err := buffer.ReadPixels(source, count); err != nil {
				return buffer, fmt.Errorf("raw packet: %w", err)
			}
			continue
		}

		// Repeat packet
		count := int(chunkHeader) - 127
		firstPixel := buffer.Offset()

		if mode == OverrunCompatible && !buffer.Fits(2) && buffer.Fits(1) {
			// The historical check is `offset + bytesPerPixel < size`, which
			// refuses a repeat packet beginning on the very last pixel.
			return buffer, fmt.Errorf(
				"repeat packet: %w: first pixel at byte %d of %d",
				ErrPacketOverrun,
				firstPixel,
				len(buffer.Bytes()),
			)
		}
		if err := buffer.ReadPixels(source, 1); err != nil {
			return buffer, fmt.Errorf("repeat packet: %w", err)
		}

		for i := 1; i < count; i++ {
			if buffer.RepeatPixel(firstPixel) {
				continue
			}
			if mode == OverrunStrict {
				return buffer, fmt.Errorf(
					"repeat packet: %w: repetition %d of %d at byte %d",
					ErrPacketOverrun,
					i+1,
					count,
					buffer.Offset(),
				)
			}
			buffer.Skip(1)
		}
	}

	return buffer, nil
}
