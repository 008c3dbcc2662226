package compression

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// PixelRun represents a single run of identical pixels.
type PixelRun struct {
	// Pixel holds the raw bytes of the pixel for this run.
	Pixel []byte
	// RunLength gives the number of times the pixel occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates either EOF was encountered, or an error occurred.
	RunLength int
}

// InvalidPixelRun is returned alongside any error from GetNextRun.
var InvalidPixelRun = PixelRun{Pixel: nil, RunLength: 0}

// PixelRunGrouper splits a stream of fixed-size pixels into runs of identical
// pixels.
type PixelRunGrouper struct {
	rd            *bufio.Reader
	bytesPerPixel int
	pending       []byte
}

// NewPixelRunGrouper creates a grouper over `rd`. Pixels narrower than one
// byte are treated as one byte.
func NewPixelRunGrouper(rd io.Reader, bytesPerPixel int) *PixelRunGrouper {
	if bytesPerPixel < 1 {
		bytesPerPixel = 1
	}
	return &PixelRunGrouper{
		rd:            bufio.NewReader(rd),
		bytesPerPixel: bytesPerPixel,
	}
}

func (grouper *PixelRunGrouper) readPixel() ([]byte, error) {
	if grouper.pending != nil {
		pixel := grouper.pending
		grouper.pending = nil
		return pixel, nil
	}

	pixel := make([]byte, grouper.bytesPerPixel)
	_, err := io.ReadFull(grouper.rd, pixel)
	return pixel, err
}

// GetNextRun returns a [PixelRun] for the next pixel or run of pixels in the
// stream. At the end of the stream it returns [InvalidPixelRun] and [io.EOF].
// A trailing partial pixel results in [io.ErrUnexpectedEOF].
func (grouper *PixelRunGrouper) GetNextRun() (PixelRun, error) {
	firstPixel, err := grouper.readPixel()
	// Bail if any error occurred, including EOF.
	if err != nil {
		return InvalidPixelRun, err
	}

	var runLength int
	for runLength = 1; ; runLength++ {
		currentPixel, err := grouper.readPixel()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return InvalidPixelRun, err
		}
		if !bytes.Equal(currentPixel, firstPixel) {
			// Hit a different pixel, hold onto it for the next run.
			grouper.pending = currentPixel
			break
		}
	}
	return PixelRun{Pixel: firstPixel, RunLength: runLength}, nil
}
